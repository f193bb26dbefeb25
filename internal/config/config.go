package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultThreadsBaseURL = "https://graph.threads.net/v1.0/"
	defaultReadySheet     = "Ready_To_Post"
	defaultLogsSheet      = "Post_Logs"
	defaultHTTPTimeout    = 60 * time.Second
)

// Config carries everything a single invocation needs. It is built once in
// main and handed down by parameter; nothing below main reads the environment.
type Config struct {
	CredentialsPath string
	SpreadsheetID   string
	ReadySheet      string
	LogsSheet       string

	AccountName string
	AccessToken string
	// UserID is the Threads user the publisher posts as. The insights
	// binary does not need it and leaves it empty.
	UserID string

	ThreadsBaseURL string
	HTTPTimeout    time.Duration
}

// LoadEnv pulls in a local .env file when one exists. Missing files are fine,
// the process environment is used as-is.
func LoadEnv() {
	for _, file := range []string{".env", ".env.dev"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		godotenv.Overload(file)
	}
}

// Load builds the publisher configuration for the given account.
func Load(account string) (*Config, error) {

	cfg, err := loadCommon(account)
	if err != nil {
		return nil, err
	}

	userIDVar := UserIDEnvVar(account)
	cfg.UserID = os.Getenv(userIDVar)
	if cfg.UserID == "" {
		return nil, fmt.Errorf("threads user ID not found for account %q: set %s", account, userIDVar)
	}

	return cfg, nil
}

// LoadInsights builds the configuration for the insights logger, which only
// needs the account access token on the Threads side.
func LoadInsights(account string) (*Config, error) {
	return loadCommon(account)
}

func loadCommon(account string) (*Config, error) {

	credsPath := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")
	if credsPath == "" {
		return nil, fmt.Errorf("GOOGLE_SHEETS_CREDENTIALS_PATH is not set")
	}
	if _, err := os.Stat(credsPath); err != nil {
		return nil, fmt.Errorf("google sheets credentials file %q: %w", credsPath, err)
	}

	sheetURL := os.Getenv("GOOGLE_SHEET_URL")
	if sheetURL == "" {
		return nil, fmt.Errorf("GOOGLE_SHEET_URL is not set")
	}
	spreadsheetID, err := SpreadsheetIDFromURL(sheetURL)
	if err != nil {
		return nil, err
	}

	tokenVar := AccessTokenEnvVar(account)
	token := os.Getenv(tokenVar)
	if token == "" {
		return nil, fmt.Errorf("threads access token not found for account %q: set %s", account, tokenVar)
	}

	baseURL := os.Getenv("THREADS_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultThreadsBaseURL
	}

	return &Config{
		CredentialsPath: credsPath,
		SpreadsheetID:   spreadsheetID,
		ReadySheet:      getEnv("READY_TO_POST_WORKSHEET_NAME", defaultReadySheet),
		LogsSheet:       getEnv("LOGS_WORKSHEET_NAME", defaultLogsSheet),
		AccountName:     account,
		AccessToken:     token,
		ThreadsBaseURL:  baseURL,
		HTTPTimeout:     defaultHTTPTimeout,
	}, nil
}

// AccessTokenEnvVar returns the per-account token variable name, e.g.
// THREADS_ACCESS_TOKEN_FLUFFYRIOT for account "fluffyriot".
func AccessTokenEnvVar(account string) string {
	return "THREADS_ACCESS_TOKEN_" + strings.ToUpper(account)
}

// UserIDEnvVar returns the per-account user ID variable name.
func UserIDEnvVar(account string) string {
	return "THREADS_USER_ID_" + strings.ToUpper(account)
}

var sheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SpreadsheetIDFromURL extracts the spreadsheet ID from a full Google Sheets
// URL. A bare ID is accepted unchanged.
func SpreadsheetIDFromURL(raw string) (string, error) {
	if m := sheetURLPattern.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	if strings.Contains(raw, "/") {
		return "", fmt.Errorf("cannot extract spreadsheet ID from %q", raw)
	}
	return raw, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
