package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrUnknownJob is returned when a job name has no registered handler.
	ErrUnknownJob = errors.New("unknown job")
	// ErrQueueFull is returned when the buffer is exhausted. Callers treat
	// it as a transient failure and log it; the next trigger re-enqueues.
	ErrQueueFull = errors.New("job queue full")
	// ErrQueueClosed is returned when enqueueing after shutdown started.
	ErrQueueClosed = errors.New("job queue closed")
)

type task struct {
	name string
	args Args
}

// Queue is a bounded in-process job queue with a fixed worker pool.
// Handlers must be registered before Run is called.
type Queue struct {
	log      *slog.Logger
	tasks    chan task
	handlers map[string]Handler

	mu     sync.Mutex
	closed bool
}

func NewQueue(log *slog.Logger, size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{
		log:      log.With("component", "jobs"),
		tasks:    make(chan task, size),
		handlers: make(map[string]Handler),
	}
}

// Register binds a handler to a job name. Registering the same name twice
// is a programming error and panics.
func (q *Queue) Register(name string, h Handler) {
	if _, ok := q.handlers[name]; ok {
		panic(fmt.Sprintf("jobs: handler for %q already registered", name))
	}
	q.handlers[name] = h
}

// Enqueue schedules a job without blocking. It fails fast when the buffer
// is full rather than stalling the caller's request.
func (q *Queue) Enqueue(ctx context.Context, name string, args Args) error {
	if _, ok := q.handlers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return fmt.Errorf("enqueue %s: %w", name, ErrQueueClosed)
	}

	select {
	case q.tasks <- task{name: name, args: args}:
		q.log.DebugContext(ctx, "job enqueued", "job", name)
		return nil
	default:
		return fmt.Errorf("enqueue %s: %w", name, ErrQueueFull)
	}
}

// Run starts the worker pool and blocks until ctx is cancelled and all
// in-flight jobs have finished. Queued tasks are drained before returning.
func (q *Queue) Run(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range q.tasks {
				q.process(t)
			}
		}()
	}

	<-ctx.Done()

	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	close(q.tasks)

	wg.Wait()
}

func (q *Queue) process(t task) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("job panicked", "job", t.name, "panic", r)
		}
	}()

	// Jobs run detached from the triggering request's context.
	if err := q.handlers[t.name](context.Background(), t.args); err != nil {
		q.log.Error("job failed", "job", t.name, "error", err)
		return
	}
	q.log.Debug("job done", "job", t.name)
}
