package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"concert-ticketing/internal/database"
	"concert-ticketing/internal/models"
)

var tracer = otel.Tracer("concert-ticketing/internal/repositories")

// TicketRepository is the ticket ledger: it emits one row per purchased
// ticket and serves the user's ticket history.
type TicketRepository struct {
	db *database.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Emit inserts one ticket per unit in cart inside a single transaction,
// retrying the whole transaction on transient failures. Either every ticket
// is stored or none is.
func (r *TicketRepository) Emit(ctx context.Context, userID string, cart models.Cart) ([]*models.Ticket, error) {
	ctx, span := tracer.Start(ctx, "TicketRepository.Emit")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("tickets.count", cart.TotalTickets()),
	)

	var tickets []*models.Ticket
	err := r.db.RetryTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error
		tickets, err = r.EmitTx(ctx, tx, userID, cart)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ticket emission failed")
		return nil, err
	}
	return tickets, nil
}

// EmitTx inserts the tickets on a transaction owned by the caller.
func (r *TicketRepository) EmitTx(ctx context.Context, tx *sqlx.Tx, userID string, cart models.Cart) ([]*models.Ticket, error) {
	tickets := make([]*models.Ticket, 0, cart.TotalTickets())
	created := now()
	for _, item := range cart.Items() {
		for i := 0; i < item.Quantity; i++ {
			tickets = append(tickets, &models.Ticket{
				ID:          newID(),
				ConcertID:   item.ConcertID,
				UserID:      userID,
				CreatedDate: created,
			})
		}
	}
	if len(tickets) == 0 {
		return tickets, nil
	}

	query := `
		INSERT INTO tickets (id, concert_id, user_id, created_date)
		VALUES (:id, :concert_id, :user_id, :created_date)`

	if _, err := tx.NamedExecContext(ctx, query, tickets); err != nil {
		return nil, errors.Wrap(err, "failed to emit tickets")
	}
	return tickets, nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket := &models.Ticket{}
	if err := r.db.GetContext(ctx, ticket, query, id); err != nil {
		return nil, notFoundOr(err, models.NotFoundf("ticket with id '%s' does not exist", id), "failed to get ticket")
	}
	return ticket, nil
}

// GetPageForUser lists a user's tickets newest first.
func (r *TicketRepository) GetPageForUser(ctx context.Context, userID string, skip, take int) (models.Page[*models.Ticket], error) {
	skip, take = pageBounds(skip, take)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tickets WHERE user_id = $1`, userID); err != nil {
		return models.Page[*models.Ticket]{}, errors.Wrap(err, "failed to count tickets")
	}

	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE user_id = $1
		ORDER BY id DESC
		OFFSET $2 LIMIT $3`

	tickets := []*models.Ticket{}
	if err := r.db.SelectContext(ctx, &tickets, query, userID, skip, take); err != nil {
		return models.Page[*models.Ticket]{}, errors.Wrap(err, "failed to get tickets")
	}
	return models.NewPage(tickets, skip, total), nil
}
