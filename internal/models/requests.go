package models

import "time"

// CartItemRequest is the body of a cart update.
type CartItemRequest struct {
	ConcertID string `json:"concertId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

// UserRequest is the body accepted when creating or updating a user.
type UserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"max=16"`
	DisplayName string `json:"displayName" validate:"required,min=4,max=32"`
}

// ConcertRequest is the body accepted when creating a concert.
type ConcertRequest struct {
	Artist      string    `json:"artist" validate:"required"`
	Genre       string    `json:"genre"`
	Location    string    `json:"location" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Price       float64   `json:"price" validate:"gte=0"`
	StartTime   time.Time `json:"startTime" validate:"required"`
	IsVisible   bool      `json:"isVisible"`
}

// ConcertUpdateRequest carries the fields a concert update may change.
type ConcertUpdateRequest struct {
	Price     float64   `json:"price" validate:"gte=0"`
	StartTime time.Time `json:"startTime" validate:"required"`
}
