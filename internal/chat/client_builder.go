package chat

import (
	"net/http"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// ClientBuilderOption is a functional option for configuring a Client.
type ClientBuilderOption func(*Client)

// WithHTTPClient replaces the HTTP client.
//
// Parameters:
//   - hc: the HTTP client
//
// Returns:
//   - ClientBuilderOption: option function to apply
func WithHTTPClient(hc *http.Client) ClientBuilderOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientBuilderOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTracer sets the tracer spans are recorded with.
func WithTracer(t oteltrace.Tracer) ClientBuilderOption {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}
