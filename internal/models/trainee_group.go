package models

import (
	"fmt"
	"time"
)

// Weekday names as stored on group schedules.
const (
	WeekdayMonday    = "MONDAY"
	WeekdayTuesday   = "TUESDAY"
	WeekdayWednesday = "WEDNESDAY"
	WeekdayThursday  = "THURSDAY"
	WeekdayFriday    = "FRIDAY"
	WeekdaySaturday  = "SATURDAY"
	WeekdaySunday    = "SUNDAY"
)

var weekdayByName = map[string]time.Weekday{
	WeekdaySunday:    time.Sunday,
	WeekdayMonday:    time.Monday,
	WeekdayTuesday:   time.Tuesday,
	WeekdayWednesday: time.Wednesday,
	WeekdayThursday:  time.Thursday,
	WeekdayFriday:    time.Friday,
	WeekdaySaturday:  time.Saturday,
}

// ParseWeekday maps a stored day name onto time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	d, ok := weekdayByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown day of week %q", name)
	}
	return d, nil
}

// TraineeGroup is a coached cohort that meets on a recurring weekly schedule.
type TraineeGroup struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	SkillLevel        string    `db:"skill_level" json:"skillLevel"`
	Capacity          int       `db:"capacity" json:"maximumCapacity"`
	DurationInMinutes int       `db:"duration_in_minutes" json:"durationInMinutes"`
	Gender            string    `db:"gender" json:"gender"`
	BranchID          string    `db:"branch_id" json:"branchId"`
	CoachID           string    `db:"coach_id" json:"coachId"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// GroupSchedule is one weekly slot of a trainee group. Times are wall-clock
// "HH:MM" strings and startTime must precede endTime.
type GroupSchedule struct {
	ID             string    `db:"id" json:"id"`
	TraineeGroupID string    `db:"trainee_group_id" json:"traineeGroupId"`
	DayOfWeek      string    `db:"day_of_week" json:"dayOfWeek" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime      string    `db:"start_time" json:"startTime" validate:"required"`
	EndTime        string    `db:"end_time" json:"endTime" validate:"required"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// TraineeGroupDetail joins a group with its schedules and enrollment load.
type TraineeGroupDetail struct {
	TraineeGroup
	BranchName    string          `db:"branch_name" json:"branchName"`
	CoachName     string          `db:"coach_name" json:"coachName"`
	Sport         string          `db:"sport" json:"sport"`
	EnrolledCount int             `db:"enrolled_count" json:"enrolledCount"`
	Schedules     []GroupSchedule `json:"schedules"`
}

// TraineeGroupOption is the dropdown projection used by selects.
type TraineeGroupOption struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// TraineeGroupFilter describes query params for listing groups.
type TraineeGroupFilter struct {
	Search    string
	BranchID  string
	CoachID   string
	SportID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
