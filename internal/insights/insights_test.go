package insights

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	metrics map[string]int
	err     error
}

func (f *fakeAPI) Insights(_ context.Context, _ string, names []string) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]int, len(names))
	for _, name := range names {
		out[name] = f.metrics[name]
	}
	return out, nil
}

type fakeSink struct {
	ensured [][]string
	rows    [][]interface{}
}

func (f *fakeSink) EnsureWorksheet(_ context.Context, _ string, headers []string) error {
	f.ensured = append(f.ensured, headers)
	return nil
}

func (f *fakeSink) AppendRow(_ context.Context, _ string, values []interface{}) error {
	f.rows = append(f.rows, values)
	return nil
}

func newTestLogger(api API, sink Sink) *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	l := New(api, sink, "Post_Logs", log.WithField("service", "test"))
	l.Now = func() time.Time {
		return time.Date(2025, 8, 30, 23, 59, 58, 0, time.UTC)
	}
	return l
}

func TestRunAppendsLogRow(t *testing.T) {
	sink := &fakeSink{}
	l := newTestLogger(&fakeAPI{metrics: map[string]int{"views": 12, "likes": 3}}, sink)

	err := l.Run(context.Background(), "riot", "media-9", "one\n\ntwo")
	require.NoError(t, err)

	require.Equal(t, [][]string{LogHeaders}, sink.ensured)
	require.Len(t, sink.rows, 1)
	require.Equal(t, []interface{}{
		"media-9", "riot", "one\n\ntwo",
		12, 3, 0,
		"2025-08-30", "23:59:58",
	}, sink.rows[0])
}

func TestRunNoRowOnFetchFailure(t *testing.T) {
	sink := &fakeSink{}
	l := newTestLogger(&fakeAPI{err: errors.New("no insights data")}, sink)

	err := l.Run(context.Background(), "riot", "media-9", "text")
	require.Error(t, err)
	require.Empty(t, sink.ensured)
	require.Empty(t, sink.rows)
}

func TestLogRowUsesOneTimestamp(t *testing.T) {
	// Date and time columns must come from the same capture even right
	// before midnight.
	now := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	row := LogRow("id", "acct", "text", map[string]int{}, now)

	require.Equal(t, "2025-12-31", row[6])
	require.Equal(t, "23:59:59", row[7])
}

func TestLogRowColumnOrder(t *testing.T) {
	row := LogRow("id", "acct", "text", map[string]int{"views": 1, "likes": 2, "replies": 3}, time.Now())
	require.Len(t, row, len(LogHeaders))
	require.Equal(t, "id", row[0])
	require.Equal(t, "acct", row[1])
	require.Equal(t, "text", row[2])
	require.Equal(t, 1, row[3])
	require.Equal(t, 2, row[4])
	require.Equal(t, 3, row[5])
}
