package models

import "time"

// Enrollment binds a trainee to a group for a paid period.
type Enrollment struct {
	ID                    string    `db:"id" json:"id"`
	TraineeID             string    `db:"trainee_id" json:"traineeId"`
	TraineeGroupID        string    `db:"trainee_group_id" json:"traineeGroupId"`
	EnrollmentDate        time.Time `db:"enrollment_date" json:"enrollmentDate"`
	ExpiryDate            time.Time `db:"expiry_date" json:"expiryDate"`
	SessionAllowed        int       `db:"session_allowed" json:"sessionAllowed"`
	SubscriptionDetailsID *string   `db:"subscription_details_id" json:"subscriptionDetailsId,omitempty"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time `db:"updated_at" json:"updatedAt"`
}

// EnrollmentDetail joins an enrollment with trainee and group names.
type EnrollmentDetail struct {
	Enrollment
	TraineeName string `db:"trainee_name" json:"traineeName"`
	GroupName   string `db:"group_name" json:"groupName"`
}

// EnrollmentFilter describes query params for listing enrollments.
type EnrollmentFilter struct {
	TraineeID      string
	TraineeGroupID string
	ActiveOn       *time.Time
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
