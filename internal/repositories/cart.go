package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"concert-ticketing/internal/cache"
	"concert-ticketing/internal/models"
)

// CartTTL is the absolute lifetime of a cart, refreshed on every write.
const CartTTL = time.Hour

// CartRepository keeps each user's cart as one JSON value in Redis.
type CartRepository struct {
	store *cache.Store
	ttl   time.Duration
}

func NewCartRepository(store *cache.Store) *CartRepository {
	return &CartRepository{store: store, ttl: CartTTL}
}

// GetCart returns the user's cart, or an empty cart when none is stored.
func (r *CartRepository) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	stored := models.Cart{}
	found, err := r.store.GetJSON(ctx, cache.CartKey(userID), &stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cart")
	}

	cart := models.Cart{}
	if !found {
		return cart, nil
	}
	for concertID, qty := range stored {
		if qty > 0 {
			cart[concertID] = qty
		}
	}
	return cart, nil
}

// UpdateCart sets the quantity of one concert, removing it when quantity is
// zero, and rewrites the whole cart with a fresh TTL.
func (r *CartRepository) UpdateCart(ctx context.Context, userID, concertID string, quantity int) (models.Cart, error) {
	if quantity < 0 {
		return nil, models.InvalidOperationf("ticket quantity can't be negative")
	}

	cart, err := r.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Set(concertID, quantity)

	if err := r.store.SetJSON(ctx, cache.CartKey(userID), cart, r.ttl); err != nil {
		return nil, errors.Wrap(err, "failed to update cart")
	}
	return cart, nil
}

// ClearCart stores an empty cart for the user.
func (r *CartRepository) ClearCart(ctx context.Context, userID string) error {
	if err := r.store.SetJSON(ctx, cache.CartKey(userID), models.Cart{}, r.ttl); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}
	return nil
}
