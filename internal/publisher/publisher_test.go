package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type createCall struct {
	text    string
	replyTo string
}

type fakeAPI struct {
	createCalls   []createCall
	publishCalls  []string
	failCreateAt  int
	failPublishAt int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{failCreateAt: -1, failPublishAt: -1}
}

func (f *fakeAPI) CreateContainer(_ context.Context, text, replyToID string) (string, error) {
	i := len(f.createCalls)
	f.createCalls = append(f.createCalls, createCall{text: text, replyTo: replyToID})
	if i == f.failCreateAt {
		return "", errors.New("container creation failed")
	}
	return fmt.Sprintf("container-%d", i), nil
}

func (f *fakeAPI) PublishContainer(_ context.Context, creationID string) (string, error) {
	i := len(f.publishCalls)
	f.publishCalls = append(f.publishCalls, creationID)
	if i == f.failPublishAt {
		return "", errors.New("publish failed")
	}
	return fmt.Sprintf("post-%d", i), nil
}

type fakeQueue struct {
	post       QueuedPost
	findErr    error
	statuses   []Status
	postedRoot string
}

func (f *fakeQueue) PostByID(context.Context, string) (QueuedPost, error) {
	return f.post, f.findErr
}

func (f *fakeQueue) SetStatus(_ context.Context, _ string, status Status) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeQueue) SetPosted(_ context.Context, _, rootID string) error {
	f.statuses = append(f.statuses, StatusPosted)
	f.postedRoot = rootID
	return nil
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("service", "test")
}

func newTestPublisher(api API, queue Queue) (*Publisher, *[]time.Duration) {
	var slept []time.Duration
	p := New(api, queue, testLogger())
	p.Sleep = func(d time.Duration) { slept = append(slept, d) }
	return p, &slept
}

func readyPost(blocks ...string) QueuedPost {
	return QueuedPost{ID: "p1", Status: StatusReady, Blocks: blocks}
}

func TestRunPublishesChainInOrder(t *testing.T) {
	api := newFakeAPI()
	queue := &fakeQueue{post: readyPost("one", "two", "three")}
	p, slept := newTestPublisher(api, queue)

	result, err := p.Run(context.Background(), "riot", "p1")
	require.NoError(t, err)

	require.Len(t, api.createCalls, 3)
	require.Len(t, api.publishCalls, 3)

	// Block 0 has no reply target, each later block replies to the
	// previously published post.
	require.Equal(t, []createCall{
		{text: "one", replyTo: ""},
		{text: "two", replyTo: "post-0"},
		{text: "three", replyTo: "post-1"},
	}, api.createCalls)
	require.Equal(t, []string{"container-0", "container-1", "container-2"}, api.publishCalls)

	require.Equal(t, "post-0", result.ThreadsPostID)
	require.Equal(t, "riot", result.AccountName)
	require.Equal(t, "one\n\ntwo\n\nthree", result.FullPostContent)

	require.Equal(t, []Status{StatusPosting, StatusPosted}, queue.statuses)
	require.Equal(t, "post-0", queue.postedRoot)

	require.Equal(t, []time.Duration{
		p.FirstPublishDelay, p.ReplyPublishDelay, p.ReplyPublishDelay,
	}, *slept)
}

func TestRunSingleBlock(t *testing.T) {
	api := newFakeAPI()
	queue := &fakeQueue{post: readyPost("only")}
	p, slept := newTestPublisher(api, queue)

	result, err := p.Run(context.Background(), "riot", "p1")
	require.NoError(t, err)

	require.Len(t, api.createCalls, 1)
	require.Equal(t, "post-0", result.ThreadsPostID)
	require.Equal(t, "only", result.FullPostContent)
	require.Equal(t, []time.Duration{p.FirstPublishDelay}, *slept)
}

func TestRunStopsOnCreateFailure(t *testing.T) {
	api := newFakeAPI()
	api.failCreateAt = 1
	queue := &fakeQueue{post: readyPost("one", "two", "three", "four")}
	p, _ := newTestPublisher(api, queue)

	_, err := p.Run(context.Background(), "riot", "p1")
	require.Error(t, err)

	// Block 1 failed creation, blocks 2 and 3 were never attempted.
	require.Len(t, api.createCalls, 2)
	require.Len(t, api.publishCalls, 1)
	require.Equal(t, []Status{StatusPosting, StatusError}, queue.statuses)
}

func TestRunStopsOnPublishFailure(t *testing.T) {
	api := newFakeAPI()
	api.failPublishAt = 0
	queue := &fakeQueue{post: readyPost("one", "two")}
	p, _ := newTestPublisher(api, queue)

	_, err := p.Run(context.Background(), "riot", "p1")
	require.Error(t, err)

	require.Len(t, api.createCalls, 1)
	require.Len(t, api.publishCalls, 1)
	require.Equal(t, []Status{StatusPosting, StatusError}, queue.statuses)
}

func TestRunFiltersBlankBlocks(t *testing.T) {
	api := newFakeAPI()
	queue := &fakeQueue{post: readyPost("  ", "first", "", "second")}
	p, _ := newTestPublisher(api, queue)

	result, err := p.Run(context.Background(), "riot", "p1")
	require.NoError(t, err)

	require.Len(t, api.createCalls, 2)
	require.Equal(t, "first", api.createCalls[0].text)
	require.Equal(t, "second", api.createCalls[1].text)
	require.Equal(t, "first\n\nsecond", result.FullPostContent)
}

func TestRunNoUsableBlocks(t *testing.T) {
	api := newFakeAPI()
	queue := &fakeQueue{post: readyPost("  ", "", "\t")}
	p, _ := newTestPublisher(api, queue)

	_, err := p.Run(context.Background(), "riot", "p1")
	require.Error(t, err)

	require.Empty(t, api.createCalls)
	require.Equal(t, []Status{StatusError}, queue.statuses)
}

func TestRunRefusesNonReadyPost(t *testing.T) {
	api := newFakeAPI()
	queue := &fakeQueue{post: QueuedPost{ID: "p1", Status: StatusPosting, Blocks: []string{"one"}}}
	p, _ := newTestPublisher(api, queue)

	_, err := p.Run(context.Background(), "riot", "p1")
	require.Error(t, err)

	require.Empty(t, api.createCalls)
	require.Empty(t, queue.statuses)
}

func TestRunAcceptsReadyCaseInsensitive(t *testing.T) {
	api := newFakeAPI()
	queue := &fakeQueue{post: QueuedPost{ID: "p1", Status: "ready", Blocks: []string{"one"}}}
	p, _ := newTestPublisher(api, queue)

	_, err := p.Run(context.Background(), "riot", "p1")
	require.NoError(t, err)
}

func TestRunLookupFailure(t *testing.T) {
	api := newFakeAPI()
	queue := &fakeQueue{findErr: errors.New("row not found")}
	p, _ := newTestPublisher(api, queue)

	_, err := p.Run(context.Background(), "riot", "p1")
	require.Error(t, err)
	require.Empty(t, api.createCalls)
	require.Empty(t, queue.statuses)
}

func TestCleanBlocks(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, CleanBlocks([]string{" a ", "", "b", "   "}))
	require.Empty(t, CleanBlocks([]string{"", "  "}))
	require.Empty(t, CleanBlocks(nil))
}
