// Package memory provides an in-memory mailbox used for local development
// and in importer tests.
package memory

import (
	"context"
	"sync"

	"bilancio/internal/core"
	"bilancio/internal/mail"
)

// Mailbox holds messages newest first.
type Mailbox struct {
	mu       sync.RWMutex
	messages []core.Message
	fetchErr error
}

var _ mail.Source = (*Mailbox)(nil)

func New() *Mailbox {
	return &Mailbox{}
}

// Push adds a message to the front, making it the newest.
func (m *Mailbox) Push(msg core.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append([]core.Message{msg}, m.messages...)
}

// SetFetchError makes every subsequent Fetch call fail.
func (m *Mailbox) SetFetchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
}

// Fetch returns up to limit messages, newest first.
func (m *Mailbox) Fetch(ctx context.Context, limit int) ([]core.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if limit <= 0 || limit > len(m.messages) {
		limit = len(m.messages)
	}
	out := make([]core.Message, limit)
	copy(out, m.messages[:limit])
	return out, nil
}
