package models

import "time"

// OccurrenceStatus is the lifecycle state of a dated session.
type OccurrenceStatus string

const (
	OccurrenceScheduled OccurrenceStatus = "Scheduled"
	OccurrenceCompleted OccurrenceStatus = "Completed"
	OccurrenceCancelled OccurrenceStatus = "Cancelled"
)

// Valid reports whether s is a known occurrence status.
func (s OccurrenceStatus) Valid() bool {
	switch s {
	case OccurrenceScheduled, OccurrenceCompleted, OccurrenceCancelled:
		return true
	}
	return false
}

// SessionOccurrence is one dated expansion of a weekly group schedule.
// AttendedTrainees stays nil until the session is completed.
type SessionOccurrence struct {
	ID               string           `db:"id" json:"id"`
	TraineeGroupID   string           `db:"trainee_group_id" json:"traineeGroupId"`
	GroupScheduleID  string           `db:"group_schedule_id" json:"groupScheduleId"`
	Date             time.Time        `db:"date" json:"date"`
	StartTime        string           `db:"start_time" json:"startTime"`
	EndTime          string           `db:"end_time" json:"endTime"`
	Status           OccurrenceStatus `db:"status" json:"status"`
	ExpectedTrainees int              `db:"expected_trainees" json:"expectedTrainees"`
	AttendedTrainees *int             `db:"attended_trainees" json:"attendedTrainees"`
	CreatedAt        time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updatedAt"`
}

// SessionOccurrenceDetail joins an occurrence with group context for listings.
type SessionOccurrenceDetail struct {
	SessionOccurrence
	GroupName  string `db:"group_name" json:"groupName"`
	BranchName string `db:"branch_name" json:"branchName"`
	CoachName  string `db:"coach_name" json:"coachName"`
}

// GenerateOccurrencesRequest drives schedule expansion for one group. When
// GroupScheduleID is set only that slot is expanded; it must belong to the
// group. An omitted StartDate means today (UTC).
type GenerateOccurrencesRequest struct {
	TraineeGroupID  string    `json:"traineeGroupId" validate:"required"`
	GroupScheduleID string    `json:"groupScheduleId"`
	StartDate       time.Time `json:"startDate"`
	DurationInDays  int       `json:"durationInDays" validate:"omitempty,min=1"`
}

// GenerateOccurrencesResult summarizes one expansion run. EndDate is the last
// day that belongs to the window, inclusive.
type GenerateOccurrencesResult struct {
	TraineeGroupID string    `json:"traineeGroupId"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Created        int       `json:"created"`
	Skipped        int       `json:"skipped"`
}

// CompleteOccurrenceRequest records attendance for a held session.
type CompleteOccurrenceRequest struct {
	AttendedTrainees int `json:"attendedTrainees" validate:"min=0"`
}

// SessionOccurrenceFilter describes query params for listing occurrences.
type SessionOccurrenceFilter struct {
	TraineeGroupID string
	BranchID       string
	Status         string
	DateFrom       *time.Time
	DateTo         *time.Time
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
