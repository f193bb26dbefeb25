package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fluffyriot/threadbot/internal/config"
	"github.com/fluffyriot/threadbot/internal/logging"
	"github.com/fluffyriot/threadbot/internal/publisher"
	"github.com/fluffyriot/threadbot/internal/sheets"
	"github.com/fluffyriot/threadbot/internal/threads"
)

func main() {

	config.LoadEnv()
	log := logging.NewLogger("post-thread")

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: post-thread <account_name> <sheet_post_id>")
		os.Exit(1)
	}
	account, postID := os.Args[1], os.Args[2]

	cfg, err := config.Load(account)
	if err != nil {
		log.WithError(err).Error("Configuration error")
		os.Exit(1)
	}

	ctx := context.Background()

	svc, err := sheets.NewService(ctx, cfg.CredentialsPath, cfg.SpreadsheetID)
	if err != nil {
		log.WithError(err).Error("Failed to connect to Google Sheets")
		os.Exit(1)
	}

	api := threads.NewClient(cfg.ThreadsBaseURL, cfg.AccessToken, cfg.UserID, cfg.HTTPTimeout)
	pub := publisher.New(api, sheets.NewQueue(svc, cfg.ReadySheet), log)

	result, err := pub.Run(ctx, cfg.AccountName, postID)
	if err != nil {
		log.WithError(err).Error("Publishing failed")
		os.Exit(1)
	}

	log.Infof("Full thread chain posted, root post %v", result.ThreadsPostID)

	// The workflow runner parses this line to feed the insights step later.
	out, err := json.Marshal(result)
	if err != nil {
		log.WithError(err).Error("Failed to encode summary")
		os.Exit(1)
	}
	fmt.Println(string(out))
}
