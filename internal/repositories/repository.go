package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const ticketColumns = `id, concert_id, user_id, COALESCE(order_id, '') AS order_id, created_date`

// newID returns a time-ordered identifier, so ordering by id descending
// lists the newest rows first.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func now() time.Time {
	return time.Now().UTC()
}

// notFoundOr maps sql.ErrNoRows to a NotFound error and wraps anything else.
func notFoundOr(err error, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func pageBounds(skip, take int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if take < 0 {
		take = 0
	}
	return skip, take
}
