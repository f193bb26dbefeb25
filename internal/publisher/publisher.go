// SPDX-License-Identifier: AGPL-3.0-only
package publisher

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// The API recommends staying under 500 characters per post; longer text may
// get truncated server-side.
const maxBlockRunes = 500

// API is the slice of the Threads client the publisher needs.
type API interface {
	CreateContainer(ctx context.Context, text, replyToID string) (string, error)
	PublishContainer(ctx context.Context, creationID string) (string, error)
}

// Queue is the slice of the spreadsheet the publisher needs.
type Queue interface {
	PostByID(ctx context.Context, postID string) (QueuedPost, error)
	SetStatus(ctx context.Context, postID string, status Status) error
	SetPosted(ctx context.Context, postID, rootID string) error
}

// Result is the summary printed on stdout for the workflow runner.
type Result struct {
	ThreadsPostID   string `json:"threads_post_id"`
	AccountName     string `json:"account_name"`
	FullPostContent string `json:"full_post_content"`
}

type Publisher struct {
	API   API
	Queue Queue
	Log   *logrus.Entry

	// FirstPublishDelay runs before the root post is published,
	// ReplyPublishDelay before every reply. Sleep is swappable in tests.
	FirstPublishDelay time.Duration
	ReplyPublishDelay time.Duration
	Sleep             func(time.Duration)
}

func New(api API, queue Queue, log *logrus.Entry) *Publisher {
	return &Publisher{
		API:               api,
		Queue:             queue,
		Log:               log,
		FirstPublishDelay: 30 * time.Second,
		ReplyPublishDelay: 10 * time.Second,
		Sleep:             time.Sleep,
	}
}

// Run publishes the queued post as a reply chain and reports the root post.
// Any failure aborts the remaining blocks and marks the row "Error"; already
// published blocks stay live on the platform.
func (p *Publisher) Run(ctx context.Context, account, postID string) (*Result, error) {

	post, err := p.Queue.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("look up post %v: %w", postID, err)
	}

	blocks := CleanBlocks(post.Blocks)
	if len(blocks) == 0 {
		p.markError(ctx, postID)
		return nil, fmt.Errorf("no usable block content for post %v", postID)
	}

	// The sheet is shared with other invocations; only a row still marked
	// ready may be picked up. A row stuck in "Posting" after a crash stays
	// refused until an operator resets it.
	if !strings.EqualFold(string(post.Status), string(StatusReady)) {
		return nil, fmt.Errorf("post %v has status %q, expected %q", postID, post.Status, StatusReady)
	}

	if err := p.Queue.SetStatus(ctx, postID, StatusPosting); err != nil {
		return nil, fmt.Errorf("mark post %v as posting: %w", postID, err)
	}

	p.Log.Infof("Publishing %d blocks for post %v", len(blocks), postID)

	var rootID, lastID string

	for i, block := range blocks {
		log := p.Log.WithField("block", fmt.Sprintf("%d/%d", i+1, len(blocks)))

		if n := utf8.RuneCountInString(block); n > maxBlockRunes {
			log.Warnf("Block exceeds %d characters (%d), it may be truncated by the API", maxBlockRunes, n)
		}

		containerID, err := p.API.CreateContainer(ctx, block, lastID)
		if err != nil {
			p.markError(ctx, postID)
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}

		delay := p.ReplyPublishDelay
		if i == 0 {
			delay = p.FirstPublishDelay
		}
		log.Infof("Container %v created, waiting %v before publishing", containerID, delay)
		p.Sleep(delay)

		publishedID, err := p.API.PublishContainer(ctx, containerID)
		if err != nil {
			p.markError(ctx, postID)
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}

		log.Infof("Published as %v", publishedID)

		lastID = publishedID
		if i == 0 {
			rootID = publishedID
		}
	}

	if err := p.Queue.SetPosted(ctx, postID, rootID); err != nil {
		return nil, fmt.Errorf("mark post %v as posted: %w", postID, err)
	}

	return &Result{
		ThreadsPostID:   rootID,
		AccountName:     account,
		FullPostContent: strings.Join(blocks, "\n\n"),
	}, nil
}

func (p *Publisher) markError(ctx context.Context, postID string) {
	if err := p.Queue.SetStatus(ctx, postID, StatusError); err != nil {
		p.Log.WithError(err).Errorf("Failed to mark post %v as error", postID)
	}
}
