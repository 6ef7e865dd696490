package queue

import (
	"context"

	"github.com/jdank417/GroceryBarcodeScanner/internal/domain"
)

// EventPublisher forwards persisted events to an external queue
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *domain.Event) error
}
