package models

import "sort"

// Cart maps a concert ID to the number of tickets a user wants for it.
// Quantities are always >= 1; a missing key means zero.
type Cart map[string]int

// CartItem is one line of a cart as reported to clients.
type CartItem struct {
	ConcertID string `json:"concertId"`
	Quantity  int    `json:"quantity"`
}

// Set upserts the quantity for a concert, removing the entry when quantity is zero.
func (c Cart) Set(concertID string, quantity int) {
	if quantity == 0 {
		delete(c, concertID)
		return
	}
	c[concertID] = quantity
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// TotalTickets returns the number of ticket rows a checkout of this cart emits.
func (c Cart) TotalTickets() int {
	total := 0
	for _, qty := range c {
		total += qty
	}
	return total
}

// ConcertIDs returns the cart's concert IDs in ascending order.
func (c Cart) ConcertIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Items returns the cart lines ordered by concert ID.
func (c Cart) Items() []CartItem {
	items := make([]CartItem, 0, len(c))
	for _, id := range c.ConcertIDs() {
		items = append(items, CartItem{ConcertID: id, Quantity: c[id]})
	}
	return items
}
