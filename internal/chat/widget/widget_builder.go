package widget

import (
	"context"

	"github.com/latentecho/backdrop/internal/storage"
	"github.com/latentecho/backdrop/internal/style"
)

// ModelBuilderOption is a functional option for configuring a Model.
type ModelBuilderOption func(*Model)

// WithTranscript loads and persists the conversation in t.
//
// Parameters:
//   - t: the transcript store
//
// Returns:
//   - ModelBuilderOption: option function to apply
func WithTranscript(t storage.Transcript) ModelBuilderOption {
	return func(m *Model) {
		m.transcript = t
	}
}

// WithTokens sets the style token source the widget colours come from.
func WithTokens(src style.TokenSource) ModelBuilderOption {
	return func(m *Model) {
		if src != nil {
			m.tokens = src
		}
	}
}

// WithContext sets the context outgoing requests run under.
func WithContext(ctx context.Context) ModelBuilderOption {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}
