package handlers

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"concert-ticketing/internal/models"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, req *models.UserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, id string, req *models.UserRequest) (*models.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

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
	return m.Called(ctx, userID).Error(0)
}

type MockConcertStore struct {
	mock.Mock
}

func (m *MockConcertStore) GetUpcoming(ctx context.Context, count int) ([]*models.Concert, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Concert), args.Error(1)
}

func (m *MockConcertStore) GetByID(ctx context.Context, id string) (*models.Concert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Concert), args.Error(1)
}

func (m *MockConcertStore) Create(ctx context.Context, req *models.ConcertRequest) (*models.Concert, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Concert), args.Error(1)
}

func (m *MockConcertStore) Update(ctx context.Context, id string, req *models.ConcertUpdateRequest) (*models.Concert, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Concert), args.Error(1)
}

func (m *MockConcertStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

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

type MockCheckouter struct {
	mock.Mock
}

func (m *MockCheckouter) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
