package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Worker is the buffered Publisher implementation. Events queue on a
// channel and a single goroutine appends them to the store; a full queue
// drops the event rather than stalling the request path.
type Worker struct {
	store  Store
	logger *slog.Logger
	queue  chan Event
	done   chan struct{}
}

func NewWorker(store Store, logger *slog.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	w := &Worker{
		store:  store,
		logger: logger,
		queue:  make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

// Emit queues an event for persistence without blocking.
func (w *Worker) Emit(_ context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("audit queue full, dropping event", "action", event.Action)
	}
}

func (w *Worker) run() {
	defer close(w.done)
	for event := range w.queue {
		// Persistence uses its own context: the emitting request may
		// already be finished.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := w.store.Append(ctx, event); err != nil {
			w.logger.Error("failed to append audit event",
				"action", event.Action,
				"error", err,
			)
		}
		cancel()
	}
}

// Shutdown stops accepting events and waits for the queue to drain or
// the context to expire.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.queue)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
