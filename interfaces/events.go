package interfaces

import (
	"context"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
)

// EventPublisher broadcasts domain events to the message broker.
type EventPublisher interface {
	PublishApplicationCreated(ctx context.Context, event dto.ApplicationCreatedEvent) error
	Close() error
}
