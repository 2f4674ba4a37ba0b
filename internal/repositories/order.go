package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"concert-ticketing/internal/database"
	"concert-ticketing/internal/models"
)

// OrderRepository is the order ledger: it groups emitted tickets into
// orders and serves the user's order history.
type OrderRepository struct {
	db *database.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts an order for tickets and binds them to it in one
// transaction.
func (r *OrderRepository) Create(ctx context.Context, userID string, tickets []*models.Ticket) (*models.Order, error) {
	var order *models.Order
	err := r.db.InTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error
		order, err = r.CreateTx(ctx, tx, userID, tickets)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateTx inserts the order on a transaction owned by the caller.
func (r *OrderRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, userID string, tickets []*models.Ticket) (*models.Order, error) {
	order := &models.Order{
		ID:          newID(),
		UserID:      userID,
		CreatedDate: now(),
	}

	query := `INSERT INTO orders (id, user_id, created_date) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, query, order.ID, order.UserID, order.CreatedDate); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	ids := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		ids = append(ids, ticket.ID)
	}

	if len(ids) > 0 {
		result, err := tx.ExecContext(ctx,
			`UPDATE tickets SET order_id = $1 WHERE id = ANY($2) AND order_id IS NULL`,
			order.ID, pq.Array(ids))
		if err != nil {
			return nil, errors.Wrap(err, "failed to bind tickets to order")
		}
		bound, err := result.RowsAffected()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get affected rows")
		}
		if bound != int64(len(ids)) {
			return nil, errors.Errorf("failed to bind tickets to order: bound %d of %d", bound, len(ids))
		}
	}

	order.Tickets = make([]*models.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		bound := *ticket
		bound.OrderID = order.ID
		order.Tickets = append(order.Tickets, &bound)
	}
	return order, nil
}

// GetByID retrieves an order and its tickets
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	order := &models.Order{}
	err := r.db.GetContext(ctx, order, `SELECT id, user_id, created_date FROM orders WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, models.NotFoundf("order with id '%s' does not exist", id), "failed to get order")
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE order_id = $1 ORDER BY id`
	order.Tickets = []*models.Ticket{}
	if err := r.db.SelectContext(ctx, &order.Tickets, query, id); err != nil {
		return nil, errors.Wrap(err, "failed to get order tickets")
	}
	return order, nil
}

// GetPageForUser lists a user's orders newest first, each with its tickets.
func (r *OrderRepository) GetPageForUser(ctx context.Context, userID string, skip, take int) (models.Page[*models.Order], error) {
	skip, take = pageBounds(skip, take)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID); err != nil {
		return models.Page[*models.Order]{}, errors.Wrap(err, "failed to count orders")
	}

	query := `
		SELECT id, user_id, created_date
		FROM orders
		WHERE user_id = $1
		ORDER BY id DESC
		OFFSET $2 LIMIT $3`

	orders := []*models.Order{}
	if err := r.db.SelectContext(ctx, &orders, query, userID, skip, take); err != nil {
		return models.Page[*models.Order]{}, errors.Wrap(err, "failed to get orders")
	}
	if err := r.loadTickets(ctx, orders); err != nil {
		return models.Page[*models.Order]{}, err
	}
	return models.NewPage(orders, skip, total), nil
}

func (r *OrderRepository) loadTickets(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*models.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, order := range orders {
		order.Tickets = []*models.Ticket{}
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE order_id = ANY($1) ORDER BY id`
	tickets := []*models.Ticket{}
	if err := r.db.SelectContext(ctx, &tickets, query, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "failed to get order tickets")
	}

	for _, ticket := range tickets {
		if order, ok := byID[ticket.OrderID]; ok {
			order.Tickets = append(order.Tickets, ticket)
		}
	}
	return nil
}
