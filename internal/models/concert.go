package models

import "time"

// Concert is a catalog entry tickets can be purchased for.
type Concert struct {
	ID          string    `json:"id" db:"id"`
	IsVisible   bool      `json:"isVisible" db:"is_visible"`
	Artist      string    `json:"artist" db:"artist"`
	Genre       string    `json:"genre" db:"genre"`
	Location    string    `json:"location" db:"location"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	StartTime   time.Time `json:"startTime" db:"start_time"`
	CreatedOn   time.Time `json:"createdOn" db:"created_on"`
	CreatedBy   string    `json:"createdBy" db:"created_by"`
	UpdatedOn   time.Time `json:"updatedOn" db:"updated_on"`
	UpdatedBy   string    `json:"updatedBy" db:"updated_by"`
}

// IsUpcoming reports whether the concert is eligible for upcoming listings at now.
func (c *Concert) IsUpcoming(now time.Time) bool {
	return c.IsVisible && c.StartTime.After(now)
}
