// Package chat sends visitor messages to the remote chat endpoint. There is no retry: a failed
// request is reported to the caller as is.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// ErrEmptyMessage is returned by Send for a blank message.
var ErrEmptyMessage = errors.New("message is empty")

// RequestIDHeader carries a fresh UUID on every request.
const RequestIDHeader = "X-Request-ID"

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat endpoint returned HTTP %d", e.StatusCode)
}

// Sender sends one message and returns the reply.
type Sender interface {
	Send(ctx context.Context, message string) (string, error)
}

type request struct {
	Message string `json:"message"`
}

type response struct {
	Response string `json:"response"`
}

// Client posts messages to a chat endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	tracer   oteltrace.Tracer
}

var _ Sender = &Client{}

// NewClient creates a Client for endpoint, the full URL of the chat route.
//
// Parameters:
//   - endpoint: e.g. "https://api.example.net/chat"
//   - options: functional options
//
// Returns:
//   - *Client: the client
func NewClient(endpoint string, options ...ClientBuilderOption) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		tracer:   otel.Tracer("backdrop/chat"),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Endpoint returns the URL messages are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send posts {"message": message} and returns the "response" field of the reply.
//
// Parameters:
//   - ctx: request context
//   - message: the visitor's message
//
// Returns:
//   - string: the reply text
//   - error: ErrEmptyMessage, *StatusError for non-2xx replies, or a transport or decode failure
func (c *Client) Send(ctx context.Context, message string) (reply string, err error) {
	if err := validateMessage(message); err != nil {
		return "", err
	}

	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "chat.send",
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("chat.request_id", requestID),
			attribute.String("http.url", c.endpoint),
			attribute.Int("chat.message_length", len(message)),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(request{Message: message})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting to %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	return out.Response, nil
}
