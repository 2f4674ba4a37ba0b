package services

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"concert-ticketing/internal/database"
	"concert-ticketing/internal/models"
)

// MockCartStore is a mock implementation of CartStore
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Cart), args.Error(1)
}

func (m *MockCartStore) UpdateCart(ctx context.Context, userID, concertID string, quantity int) (models.Cart, error) {
	args := m.Called(ctx, userID, concertID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Cart), args.Error(1)
}

func (m *MockCartStore) ClearCart(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockTicketLedger is a mock implementation of TicketLedger
type MockTicketLedger struct {
	mock.Mock
}

func (m *MockTicketLedger) Emit(ctx context.Context, userID string, cart models.Cart) ([]*models.Ticket, error) {
	args := m.Called(ctx, userID, cart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ticket), args.Error(1)
}

func (m *MockTicketLedger) EmitTx(ctx context.Context, tx *sqlx.Tx, userID string, cart models.Cart) ([]*models.Ticket, error) {
	args := m.Called(ctx, tx, userID, cart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ticket), args.Error(1)
}

func (m *MockTicketLedger) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketLedger) GetPageForUser(ctx context.Context, userID string, skip, take int) (models.Page[*models.Ticket], error) {
	args := m.Called(ctx, userID, skip, take)
	return args.Get(0).(models.Page[*models.Ticket]), args.Error(1)
}

// MockOrderLedger is a mock implementation of OrderLedger
type MockOrderLedger struct {
	mock.Mock
}

func (m *MockOrderLedger) Create(ctx context.Context, userID string, tickets []*models.Ticket) (*models.Order, error) {
	args := m.Called(ctx, userID, tickets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderLedger) CreateTx(ctx context.Context, tx *sqlx.Tx, userID string, tickets []*models.Ticket) (*models.Order, error) {
	args := m.Called(ctx, tx, userID, tickets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderLedger) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderLedger) GetPageForUser(ctx context.Context, userID string, skip, take int) (models.Page[*models.Order], error) {
	args := m.Called(ctx, userID, skip, take)
	return args.Get(0).(models.Page[*models.Order]), args.Error(1)
}

// MockPurchaseExecutor is a mock implementation of PurchaseExecutor
type MockPurchaseExecutor struct {
	mock.Mock
}

func (m *MockPurchaseExecutor) Purchase(ctx context.Context, userID string, cart models.Cart) (*models.Order, error) {
	args := m.Called(ctx, userID, cart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

// MockLocker is a mock implementation of Locker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockLocker) ReleaseLock(ctx context.Context, key, token string) error {
	args := m.Called(ctx, key, token)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	args := m.Called(ctx, key, v)
	return args.Error(0)
}

// inlineTx runs the unit of work once without a real transaction.
type inlineTx struct {
	calls int
}

func (r *inlineTx) RetryTx(ctx context.Context, fn database.TxFunc) error {
	r.calls++
	return fn(ctx, nil)
}
