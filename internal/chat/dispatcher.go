package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// ErrDispatcherClosed is returned by Submit after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Result is the outcome of one dispatched message.
type Result struct {
	ID       int
	Message  string
	Response string
	Err      error
	Elapsed  time.Duration
}

// Dispatcher sends messages on a bounded worker pool so the UI goroutine never blocks on the network.
type Dispatcher struct {
	sender Sender
	pool   worker.DynamicWorkerPool

	mu     *sync.Mutex
	closed bool
	wg     sync.WaitGroup
	nextID atomic.Int64
}

// NewDispatcher creates a Dispatcher with up to workers concurrent requests.
//
// Parameters:
//   - sender: performs each request
//   - workers: maximum concurrent requests, at least 1
//
// Returns:
//   - *Dispatcher: the dispatcher
func NewDispatcher(sender Sender, workers int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		sender: sender,
		pool:   worker.NewDynamicWorkerPool(workers, 64, 5*time.Second),
		mu:     &sync.Mutex{},
	}
}

// Submit queues message and calls done with the result from a worker goroutine.
//
// Returns:
//   - int: the request ID carried in the Result
//   - error: ErrDispatcherClosed or ErrEmptyMessage
func (d *Dispatcher) Submit(ctx context.Context, message string, done func(Result)) (int, error) {
	if err := validateMessage(message); err != nil {
		return 0, err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return 0, ErrDispatcherClosed
	}
	d.wg.Add(1)
	d.mu.Unlock()

	id := int(d.nextID.Add(1))
	d.pool.SubmitTask(worker.Task{
		ID:      id,
		Payload: message,
		Do: func() (any, error) {
			defer d.wg.Done()
			start := time.Now()
			reply, err := d.sender.Send(ctx, message)
			r := Result{ID: id, Message: message, Response: reply, Err: err, Elapsed: time.Since(start)}
			if done != nil {
				done(r)
			}
			return reply, err
		},
	})
	return id, nil
}

// Send submits message and waits for its result.
func (d *Dispatcher) Send(ctx context.Context, message string) (string, error) {
	ch := make(chan Result, 1)
	if _, err := d.Submit(ctx, message, func(r Result) { ch <- r }); err != nil {
		return "", err
	}
	select {
	case r := <-ch:
		return r.Response, r.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close rejects new messages, waits for in-flight ones and stops the pool.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	d.pool.Stop()
}

var _ Sender = &Dispatcher{}

func validateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	return nil
}
