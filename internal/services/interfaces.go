package services

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"concert-ticketing/internal/database"
	"concert-ticketing/internal/models"
)

// CartStore holds each user's pending cart.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (models.Cart, error)
	UpdateCart(ctx context.Context, userID, concertID string, quantity int) (models.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// TicketLedger stores emitted tickets.
type TicketLedger interface {
	Emit(ctx context.Context, userID string, cart models.Cart) ([]*models.Ticket, error)
	EmitTx(ctx context.Context, tx *sqlx.Tx, userID string, cart models.Cart) ([]*models.Ticket, error)
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	GetPageForUser(ctx context.Context, userID string, skip, take int) (models.Page[*models.Ticket], error)
}

// OrderLedger stores orders and binds tickets to them.
type OrderLedger interface {
	Create(ctx context.Context, userID string, tickets []*models.Ticket) (*models.Order, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, userID string, tickets []*models.Ticket) (*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetPageForUser(ctx context.Context, userID string, skip, take int) (models.Page[*models.Order], error)
}

// ConcertStore is the concert catalog.
type ConcertStore interface {
	GetUpcoming(ctx context.Context, count int) ([]*models.Concert, error)
	GetByID(ctx context.Context, id string) (*models.Concert, error)
	Create(ctx context.Context, req *models.ConcertRequest) (*models.Concert, error)
	Update(ctx context.Context, id string, req *models.ConcertUpdateRequest) (*models.Concert, error)
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	Create(ctx context.Context, req *models.UserRequest) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, req *models.UserRequest) (*models.User, error)
}

// PurchaseExecutor turns a validated cart into tickets and an order, then
// clears the cart.
type PurchaseExecutor interface {
	Purchase(ctx context.Context, userID string, cart models.Cart) (*models.Order, error)
}

// TxRunner runs a unit of work in a retried transaction.
type TxRunner interface {
	RetryTx(ctx context.Context, fn database.TxFunc) error
}

// Locker provides expiring mutual exclusion keyed by string.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
