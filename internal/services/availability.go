package services

import (
	"context"

	"concert-ticketing/internal/models"
)

// DefaultMaxTicketsPerPurchase is the per-concert cap applied at checkout.
const DefaultMaxTicketsPerPurchase = 10

// AvailabilityPolicy decides whether quantity tickets for a concert may be
// purchased. A nil error means available; *models.ErrInvalidOperation means
// rejected with a reason. Any other error is a failure to decide.
type AvailabilityPolicy interface {
	CheckAvailability(ctx context.Context, concertID string, quantity int) error
}

// AvailabilityFunc adapts a plain function to AvailabilityPolicy.
type AvailabilityFunc func(ctx context.Context, concertID string, quantity int) error

func (f AvailabilityFunc) CheckAvailability(ctx context.Context, concertID string, quantity int) error {
	return f(ctx, concertID, quantity)
}

// CappedAvailability treats inventory as unlimited and only enforces a
// maximum number of tickets per concert per purchase.
type CappedAvailability struct {
	MaxPerPurchase int
}

func NewCappedAvailability(max int) CappedAvailability {
	if max <= 0 {
		max = DefaultMaxTicketsPerPurchase
	}
	return CappedAvailability{MaxPerPurchase: max}
}

func (p CappedAvailability) CheckAvailability(ctx context.Context, concertID string, quantity int) error {
	if quantity > p.MaxPerPurchase {
		return models.InvalidOperationf("can't purchase more than %d tickets at once for concert '%s'", p.MaxPerPurchase, concertID)
	}
	return nil
}
