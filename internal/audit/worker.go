package audit

import (
	"context"
	"log/slog"
)

// Queue is a Store that buffers events on a channel so request paths never
// wait on a slow sink. A Worker drains it.
type Queue struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewQueue(size int, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{inbox: make(chan Event, size), logger: logger}
}

// Append enqueues event, dropping it when the buffer is full.
func (q *Queue) Append(ctx context.Context, event Event) error {
	select {
	case q.inbox <- event:
	default:
		q.logger.WarnContext(ctx, "audit queue full, dropping event",
			"action", event.Action,
			"property_id", event.PropertyID,
		)
	}
	return nil
}

// Worker consumes queued audit events and persists them.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, queue *Queue) *Worker {
	return &Worker{store: store, inbox: queue.inbox, logger: queue.logger}
}

// Run drains the queue until ctx is cancelled. Append failures are logged and
// the event is dropped.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"action", event.Action,
					"property_id", event.PropertyID,
					"error", err,
				)
			}
		}
	}
}
