// SPDX-License-Identifier: AGPL-3.0-only
package publisher

import "strings"

// Status is the queue lifecycle value written to the status column.
type Status string

const (
	StatusReady   Status = "Ready"
	StatusPosting Status = "Posting"
	StatusPosted  Status = "Posted"
	StatusError   Status = "Error"
)

// MaxBlocks is how many content columns a queued post can carry.
const MaxBlocks = 4

// QueuedPost is one row of the ready-to-post worksheet.
type QueuedPost struct {
	ID     string
	Status Status
	Blocks []string
}

// CleanBlocks trims the raw block contents and drops the empty ones, keeping
// the original order.
func CleanBlocks(blocks []string) []string {
	cleaned := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		cleaned = append(cleaned, block)
	}
	return cleaned
}
