package models

import "time"

// SubscriptionDetails describes a purchasable plan attached to enrollments.
type SubscriptionDetails struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Price           float64   `db:"price" json:"price"`
	DurationInDays  int       `db:"duration_in_days" json:"durationInDays"`
	SessionsAllowed int       `db:"sessions_allowed" json:"sessionsAllowed"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// SubscriptionFilter describes query params for listing plans.
type SubscriptionFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
