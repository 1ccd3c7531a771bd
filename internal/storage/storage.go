// Package storage persists small client-side values: the key/value preferences a browser would keep
// in localStorage, plus the chat transcript.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for a key that has never been set or was deleted.
var ErrNotFound = errors.New("key not found")

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every key in sorted order.
	Keys(ctx context.Context) ([]string, error)

	// Close releases the store.
	Close() error
}

// Message is one persisted chat transcript entry.
type Message struct {
	ID        string
	Role      string
	Text      string
	CreatedAt time.Time
}

// Transcript persists chat messages in arrival order.
type Transcript interface {
	// AppendMessage stores m.
	AppendMessage(ctx context.Context, m Message) error

	// Messages returns the most recent limit messages, oldest first. A limit <= 0 returns all.
	Messages(ctx context.Context, limit int) ([]Message, error)

	// ClearMessages deletes the transcript.
	ClearMessages(ctx context.Context) error
}
