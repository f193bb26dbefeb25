package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fluffyriot/threadbot/internal/config"
	"github.com/fluffyriot/threadbot/internal/insights"
	"github.com/fluffyriot/threadbot/internal/logging"
	"github.com/fluffyriot/threadbot/internal/sheets"
	"github.com/fluffyriot/threadbot/internal/threads"
)

func main() {

	config.LoadEnv()
	log := logging.NewLogger("log-insights")

	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "Usage: log-insights <account_name> <post_id> <post_content>")
		os.Exit(1)
	}
	account, postID, content := os.Args[1], os.Args[2], os.Args[3]

	cfg, err := config.LoadInsights(account)
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

	api := threads.NewClient(cfg.ThreadsBaseURL, cfg.AccessToken, "", cfg.HTTPTimeout)
	logger := insights.New(api, svc, cfg.LogsSheet, log)

	if err := logger.Run(ctx, cfg.AccountName, postID, content); err != nil {
		log.WithError(err).Error("Insight logging failed")
		os.Exit(1)
	}

	log.Infof("Insights for post %v logged to %q", postID, cfg.LogsSheet)
}
