// Package mail defines the mailbox port the importer reads bank
// notifications from.
package mail

import (
	"context"

	"bilancio/internal/core"
)

// Source yields recent mailbox messages, newest first. Fetch never returns
// more than limit messages; adapters own search queries and decoding.
type Source interface {
	Fetch(ctx context.Context, limit int) ([]core.Message, error)
}
