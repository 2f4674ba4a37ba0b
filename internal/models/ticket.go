package models

import "time"

// Ticket is a single issued seat-less ticket for a concert. Tickets are
// immutable once emitted.
type Ticket struct {
	ID          string    `json:"id" db:"id"`
	ConcertID   string    `json:"concertId" db:"concert_id"`
	UserID      string    `json:"userId" db:"user_id"`
	OrderID     string    `json:"orderId,omitempty" db:"order_id"`
	CreatedDate time.Time `json:"createdDate" db:"created_date"`
}
