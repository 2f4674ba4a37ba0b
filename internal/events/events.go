package events

import (
	"time"

	"concert-ticketing/internal/models"
)

// Routing keys published on the order exchange.
const (
	RKOrderCreated = "order.created"
)

// OrderCreated carries enough of a committed order for downstream
// notification and fulfilment consumers.
type OrderCreated struct {
	OrderID     string         `json:"order_id"`
	UserID      string         `json:"user_id"`
	Tickets     map[string]int `json:"tickets"` // concert id -> quantity
	TicketCount int            `json:"ticket_count"`
	CreatedDate time.Time      `json:"created_date"`
}

func NewOrderCreated(order *models.Order) OrderCreated {
	return OrderCreated{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Tickets:     order.TicketCount(),
		TicketCount: len(order.Tickets),
		CreatedDate: order.CreatedDate,
	}
}
