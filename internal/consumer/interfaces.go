package consumer

import (
	"context"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
)

// EventSource is the consuming side of the event queue
type EventSource interface {
	Dequeue(ctx context.Context) (domain.Event, error)
	TryDequeue() (domain.Event, bool)
	Len() int
	MarkProcessed()
}

// Observer receives per-event outcomes, typically for metrics
type Observer interface {
	EventPersisted(eventType domain.EventType)
	EventDropped(reason string, n int)
}

// Drop reasons reported to Observer
const (
	DropReasonPersistError     = "persist_error"
	DropReasonStoreUnavailable = "store_unavailable"
	DropReasonShutdown         = "shutdown"
)

type noopObserver struct{}

func (noopObserver) EventPersisted(domain.EventType) {}
func (noopObserver) EventDropped(string, int)       {}
