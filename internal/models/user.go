package models

import "time"

// User represents a ticket buyer
type User struct {
	ID          string    `json:"id" db:"id"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	CreatedDate time.Time `json:"createdDate" db:"created_date"`
}
