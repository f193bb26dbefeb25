// SPDX-License-Identifier: AGPL-3.0-only
package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// MetricNames are the engagement metrics fetched for every post.
var MetricNames = []string{"views", "likes", "replies"}

// LogHeaders is the Post_Logs worksheet schema, in column order.
var LogHeaders = []string{
	"Post_ID", "Account", "Post_Content",
	"Views", "Likes", "Replies",
	"Date_Posted", "Time_Posted",
}

// API is the slice of the Threads client the logger needs.
type API interface {
	Insights(ctx context.Context, mediaID string, metrics []string) (map[string]int, error)
}

// Sink is the slice of the spreadsheet the logger needs.
type Sink interface {
	EnsureWorksheet(ctx context.Context, sheetName string, headers []string) error
	AppendRow(ctx context.Context, sheetName string, values []interface{}) error
}

type Logger struct {
	API       API
	Sink      Sink
	SheetName string
	Log       *logrus.Entry

	// Now is swappable in tests.
	Now func() time.Time
}

func New(api API, sink Sink, sheetName string, log *logrus.Entry) *Logger {
	return &Logger{
		API:       api,
		Sink:      sink,
		SheetName: sheetName,
		Log:       log,
		Now:       time.Now,
	}
}

// Run fetches the metrics for one published post and appends a log row. On
// fetch failure nothing is written; the caller signals via the exit code.
func (l *Logger) Run(ctx context.Context, account, postID, content string) error {

	metrics, err := l.API.Insights(ctx, postID, MetricNames)
	if err != nil {
		return fmt.Errorf("fetch insights for %v: %w", postID, err)
	}

	l.Log.WithFields(logrus.Fields{
		"views":   metrics["views"],
		"likes":   metrics["likes"],
		"replies": metrics["replies"],
	}).Infof("Fetched insights for post %v", postID)

	if err := l.Sink.EnsureWorksheet(ctx, l.SheetName, LogHeaders); err != nil {
		return err
	}

	if err := l.Sink.AppendRow(ctx, l.SheetName, LogRow(postID, account, content, metrics, l.Now())); err != nil {
		return err
	}

	return nil
}

// LogRow builds one Post_Logs row. Date and time come from the same capture
// so a row cannot straddle midnight.
func LogRow(postID, account, content string, metrics map[string]int, now time.Time) []interface{} {
	return []interface{}{
		postID,
		account,
		content,
		metrics["views"],
		metrics["likes"],
		metrics["replies"],
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
	}
}
