// Package events carries the domain events the task service emits and
// the rule engines consume. It replaces the storage platform's implicit
// document-write triggers with an explicit in-process contract.
package events

import (
	"context"
	"log"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskhero/models"
)

// TaskWritten is published on every task write with the prior and new
// document snapshots. Before is nil when the write created the task.
type TaskWritten struct {
	UserID primitive.ObjectID
	Before *models.Task
	After  *models.Task
}

// CompletedTransition reports whether this write moved the task into
// done: previous status not done, new status done. Any other write is
// noise to the challenge evaluator — repeated writes to an already-done
// task must not re-fire it.
func (e TaskWritten) CompletedTransition() bool {
	if e.After == nil || e.After.Status != models.TaskStatusDone {
		return false
	}
	return e.Before == nil || e.Before.Status != models.TaskStatusDone
}

// Handler consumes task-write events.
type Handler interface {
	HandleTaskWritten(ctx context.Context, ev TaskWritten) error
}

// Dispatcher fans task-write events out to registered handlers,
// synchronously and in registration order. Handler errors are logged and
// swallowed: rule evaluation failing must never fail the write that
// triggered it.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds a handler. Safe to call concurrently with Publish,
// though in practice all registration happens during startup wiring.
func (d *Dispatcher) Register(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Publish delivers the event to every handler.
func (d *Dispatcher) Publish(ctx context.Context, ev TaskWritten) {
	d.mu.RLock()
	handlers := make([]Handler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	for _, h := range handlers {
		if err := h.HandleTaskWritten(ctx, ev); err != nil {
			log.Printf("events: handler error for user %s: %v", ev.UserID.Hex(), err)
		}
	}
}
