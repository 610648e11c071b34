// Package events carries order-created notifications from the order path to
// live admin dashboards and, optionally, to an SQS queue.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"shopfront/internal/domain"
)

const TypeOrderCreated = "order-created"

type Event struct {
	ID    string       `json:"id"`
	Type  string       `json:"type"`
	Order domain.Order `json:"order"`
	At    time.Time    `json:"at"`
}

func OrderCreated(o domain.Order, at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: TypeOrderCreated, Order: o, At: at}
}

// Publisher delivers an event. Publishing happens after the order is
// committed, so a failure never undoes the order.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
