// Package service wires the death-event queue, the reactor and the
// dispatcher into a runnable loot service.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okian/dropforge/internal/adapters/mq/queue"
	"github.com/okian/dropforge/internal/adapters/mq/worker"
	"github.com/okian/dropforge/internal/domain/dedupe"
	"github.com/okian/dropforge/internal/domain/dispatch"
	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/pkg/logger"
	"github.com/okian/dropforge/pkg/metrics"
)

// Sentinel errors returned by the service.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrNoDispatcher = errors.New("dispatcher is required")
	ErrNilEvent     = errors.New("nil death event")
)

const (
	defaultQueueSize  = 1024
	defaultDedupeSize = 50000
)

// Dispatcher resolves one death event synchronously.
type Dispatcher interface {
	Handle(ctx context.Context, event *model.DeathEvent) dispatch.Outcome
}

// ResultFunc observes each handled event. It runs on the reactor goroutine.
type ResultFunc func(ctx context.Context, event *model.DeathEvent, outcome dispatch.Outcome)

// Stats are running totals since Start.
type Stats struct {
	Started    bool
	Submitted  int64
	Duplicates int64
	Rejected   int64
	Handled    int64
	Filtered   int64
	Dropped    int64
	Broadcast  int64
	Pending    int
}

// Service accepts death events from any goroutine and resolves them one at
// a time on a single reactor.
type Service struct {
	mu sync.RWMutex

	dispatcher Dispatcher
	deduper    dedupe.Deduper
	queue      *queue.InMemoryQueue
	reactor    *worker.Reactor
	onResult   ResultFunc

	queueSize  int
	dedupeSize int
	started    bool

	submitted  atomic.Int64
	duplicates atomic.Int64
	rejected   atomic.Int64
	handled    atomic.Int64
	filtered   atomic.Int64
	dropped    atomic.Int64
	broadcast  atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum number of pending events.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many event IDs are remembered. Zero remembers
// every ID.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithResultFunc registers an observer for handled events.
func WithResultFunc(fn ResultFunc) Option {
	return func(s *Service) {
		s.onResult = fn
	}
}

// New constructs a Service around a dispatcher.
func New(dispatcher Dispatcher, opts ...Option) *Service {
	s := &Service{
		dispatcher: dispatcher,
		queueSize:  defaultQueueSize,
		dedupeSize: defaultDedupeSize,
		logger:     logger.GetOrDiscard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates the queue and launches the reactor.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.dispatcher == nil {
		return ErrNoDispatcher
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.reactor = worker.NewReactor(s.queue, s, worker.WithLogger(s.logger))
	// the reactor outlives the caller's context; Stop ends it
	go s.reactor.Run(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "loot service started",
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop closes the queue and waits for pending events to be handled, bounded
// by ctx.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false
	_ = s.queue.Close()

	var err error
	select {
	case <-s.reactor.Done():
	case <-ctx.Done():
		s.logger.Warn(ctx, "pending death events abandoned", logger.Int("pending", s.queue.Len()))
		err = s.reactor.Shutdown(ctx)
	}
	s.logger.Info(ctx, "loot service stopped",
		logger.Int("handled", int(s.handled.Load())),
	)
	return err
}

// Submit queues a death event. Events without an ID get one. Redelivered
// IDs are dropped silently.
func (s *Service) Submit(ctx context.Context, event *model.DeathEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}
	if event == nil {
		return ErrNilEvent
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if s.deduper.SeenAndRecord(ctx, event.ID) {
		s.duplicates.Add(1)
		metrics.RecordEventDuplicate()
		s.logger.Debug(ctx, "duplicate death event skipped", logger.String("event_id", event.ID))
		return nil
	}
	if err := s.queue.Enqueue(ctx, event); err != nil {
		// let the host retry later
		s.deduper.Unrecord(ctx, event.ID)
		s.rejected.Add(1)
		return fmt.Errorf("submit %s: %w", event.ID, err)
	}
	s.submitted.Add(1)
	return nil
}

// Handle resolves one event. It implements worker.Handler.
func (s *Service) Handle(ctx context.Context, event *model.DeathEvent) error {
	outcome := s.dispatcher.Handle(ctx, event)

	s.handled.Add(1)
	if outcome.Filtered != "" {
		s.filtered.Add(1)
	}
	s.dropped.Add(int64(outcome.Dropped))
	s.broadcast.Add(int64(outcome.Broadcast))

	if s.onResult != nil {
		s.onResult(ctx, event, outcome)
	}
	return nil
}

// Stats returns running totals.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:    s.started,
		Submitted:  s.submitted.Load(),
		Duplicates: s.duplicates.Load(),
		Rejected:   s.rejected.Load(),
		Handled:    s.handled.Load(),
		Filtered:   s.filtered.Load(),
		Dropped:    s.dropped.Load(),
		Broadcast:  s.broadcast.Load(),
	}
	if s.queue != nil {
		st.Pending = s.queue.Len()
	}
	return st
}
