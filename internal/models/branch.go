package models

import "time"

// Branch represents one academy location.
type Branch struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	City        string    `db:"city" json:"city"`
	Country     string    `db:"country" json:"country"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"`
	Email       string    `db:"email" json:"email"`
	CoX         *float64  `db:"co_x" json:"coX,omitempty"`
	CoY         *float64  `db:"co_y" json:"coY,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// BranchFilter describes query params for listing branches.
type BranchFilter struct {
	Search    string
	City      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
