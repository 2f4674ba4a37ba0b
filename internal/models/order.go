package models

import "time"

// Order binds the tickets emitted by one checkout to a user. Its ticket set
// is fixed at creation.
type Order struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Tickets     []*Ticket `json:"tickets" db:"-"`
	CreatedDate time.Time `json:"createdDate" db:"created_date"`
}

// TicketCount returns the number of tickets per concert in the order.
func (o *Order) TicketCount() map[string]int {
	counts := make(map[string]int)
	for _, ticket := range o.Tickets {
		counts[ticket.ConcertID]++
	}
	return counts
}

// Page is one window of a user-scoped listing plus the total row count.
type Page[T any] struct {
	TotalCount int `json:"totalCount"`
	PageSize   int `json:"pageSize"`
	Skipped    int `json:"skipped"`
	PageData   []T `json:"pageData"`
}

func NewPage[T any](data []T, skip, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		TotalCount: total,
		PageSize:   len(data),
		Skipped:    skip,
		PageData:   data,
	}
}
