// Package worker runs the single reactor goroutine that resolves death events
// one at a time, in arrival order.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/pkg/logger"
	"github.com/okian/dropforge/pkg/metrics"
)

// Handler resolves one death event.
type Handler interface {
	Handle(ctx context.Context, event *model.DeathEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event *model.DeathEvent) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event *model.DeathEvent) error {
	return f(ctx, event)
}

// Queue is where the reactor reads events from.
type Queue interface {
	Dequeue(ctx context.Context) <-chan *model.DeathEvent
}

// Reactor consumes a queue on one goroutine.
type Reactor struct {
	queue   Queue
	handler Handler
	name    string

	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewReactor creates a reactor. Call Run to start it.
func NewReactor(queue Queue, handler Handler, opts ...Option) *Reactor {
	r := &Reactor{
		queue:    queue,
		handler:  handler,
		name:     "reactor",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.GetOrDiscard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named(r.name)
	return r
}

// Run processes events until the queue drains, ctx is cancelled or
// Shutdown is called.
func (r *Reactor) Run(ctx context.Context) {
	defer close(r.done)

	events := r.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := r.process(ctx, event); err != nil {
				metrics.RecordReactorError()
				r.logger.Error(ctx, "death event failed",
					logger.String("event_id", event.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Done is closed when Run returns.
func (r *Reactor) Done() <-chan struct{} {
	return r.done
}

// Shutdown stops the loop and waits for it, bounded by ctx.
func (r *Reactor) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.shutdown) })

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (r *Reactor) process(ctx context.Context, event *model.DeathEvent) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return r.handler.Handle(ctx, event)
}
