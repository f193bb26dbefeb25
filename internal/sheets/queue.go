// SPDX-License-Identifier: AGPL-3.0-only
package sheets

import (
	"context"
	"fmt"

	"github.com/fluffyriot/threadbot/internal/publisher"
)

// Ready-to-post worksheet columns.
const (
	ColPostID        = "Post_ID"
	ColStatus        = "Status"
	ColThreadsPostID = "Threads_Post_ID"
)

// Queue adapts one ready-to-post worksheet to the publisher.
type Queue struct {
	svc       *Service
	sheetName string
}

func NewQueue(svc *Service, sheetName string) *Queue {
	return &Queue{
		svc:       svc,
		sheetName: sheetName,
	}
}

func (q *Queue) PostByID(ctx context.Context, postID string) (publisher.QueuedPost, error) {

	record, _, err := q.svc.FindRow(ctx, q.sheetName, ColPostID, postID)
	if err != nil {
		return publisher.QueuedPost{}, err
	}

	blocks := make([]string, 0, publisher.MaxBlocks)
	for i := 1; i <= publisher.MaxBlocks; i++ {
		blocks = append(blocks, record[fmt.Sprintf("Block_%d_Content", i)])
	}

	return publisher.QueuedPost{
		ID:     postID,
		Status: publisher.Status(record[ColStatus]),
		Blocks: blocks,
	}, nil
}

func (q *Queue) SetStatus(ctx context.Context, postID string, status publisher.Status) error {

	_, row, err := q.svc.FindRow(ctx, q.sheetName, ColPostID, postID)
	if err != nil {
		return err
	}

	return q.svc.UpdateRowCells(ctx, q.sheetName, row, map[string]string{
		ColStatus: string(status),
	})
}

func (q *Queue) SetPosted(ctx context.Context, postID, rootID string) error {

	_, row, err := q.svc.FindRow(ctx, q.sheetName, ColPostID, postID)
	if err != nil {
		return err
	}

	updates := map[string]string{
		ColStatus: string(publisher.StatusPosted),
	}

	// The root ID column is optional in older sheets.
	hasRootCol, err := q.svc.HasColumn(ctx, q.sheetName, ColThreadsPostID)
	if err != nil {
		return err
	}
	if hasRootCol {
		updates[ColThreadsPostID] = rootID
	}

	return q.svc.UpdateRowCells(ctx, q.sheetName, row, updates)
}
