package services

import (
	"context"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"concert-ticketing/internal/models"
)

// LedgerPurchaser emits the tickets and creates their order in one retried
// transaction, then clears the cart. A committed order is returned even if
// clearing the cart fails.
type LedgerPurchaser struct {
	db      TxRunner
	tickets TicketLedger
	orders  OrderLedger
	carts   CartStore
}

func NewLedgerPurchaser(db TxRunner, tickets TicketLedger, orders OrderLedger, carts CartStore) *LedgerPurchaser {
	return &LedgerPurchaser{db: db, tickets: tickets, orders: orders, carts: carts}
}

func (p *LedgerPurchaser) Purchase(ctx context.Context, userID string, cart models.Cart) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "LedgerPurchaser.Purchase")
	defer span.End()

	var order *models.Order
	err := p.db.RetryTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		tickets, err := p.tickets.EmitTx(ctx, tx, userID, cart)
		if err != nil {
			return err
		}
		order, err = p.orders.CreateTx(ctx, tx, userID, tickets)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	clearCart(ctx, p.carts, userID, order)
	return order, nil
}

// SequentialPurchaser emits the tickets, creates the order and clears the
// cart as three separate steps. Tickets may be committed without an order if
// the second step fails. It also caps the total tickets of one purchase.
type SequentialPurchaser struct {
	tickets    TicketLedger
	orders     OrderLedger
	carts      CartStore
	maxTickets int
}

func NewSequentialPurchaser(tickets TicketLedger, orders OrderLedger, carts CartStore, maxTickets int) *SequentialPurchaser {
	if maxTickets <= 0 {
		maxTickets = DefaultMaxTicketsPerPurchase
	}
	return &SequentialPurchaser{tickets: tickets, orders: orders, carts: carts, maxTickets: maxTickets}
}

func (p *SequentialPurchaser) Purchase(ctx context.Context, userID string, cart models.Cart) (*models.Order, error) {
	if total := cart.TotalTickets(); total > p.maxTickets {
		return nil, models.InvalidOperationf("Can't purchase more than %d tickets at once.", p.maxTickets)
	}

	ctx, span := tracer.Start(ctx, "SequentialPurchaser.Purchase")
	defer span.End()

	tickets, err := p.tickets.Emit(ctx, userID, cart)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	order, err := p.orders.Create(context.WithoutCancel(ctx), userID, tickets)
	if err != nil {
		log.WithFields(log.Fields{
			"user_id": userID,
			"tickets": len(tickets),
		}).WithError(err).Error("Tickets emitted without an order")
		span.RecordError(err)
		return nil, err
	}

	clearCart(ctx, p.carts, userID, order)
	return order, nil
}

func clearCart(ctx context.Context, carts CartStore, userID string, order *models.Order) {
	if err := carts.ClearCart(context.WithoutCancel(ctx), userID); err != nil {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"order_id": order.ID,
		}).WithError(err).Warn("Order committed but cart was not cleared")
	}
}
