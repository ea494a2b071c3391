package models

import "time"

// Coach links an employee to the sport they teach.
type Coach struct {
	ID         string    `db:"id" json:"id"`
	EmployeeID string    `db:"employee_id" json:"employeeId"`
	SportID    string    `db:"sport_id" json:"sportId"`
	SkillLevel string    `db:"skill_level" json:"skillLevel"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// CoachCard is the employee card extended with coaching context.
type CoachCard struct {
	EmployeeCard
	CoachID       string `db:"coach_id" json:"coachId"`
	BranchID      string `db:"branch_id" json:"branchId"`
	TotalTrainees int    `db:"total_trainees" json:"totalTrainees"`
	SkillLevel    string `db:"skill_level" json:"skillLevel"`
	Sport         string `db:"sport" json:"sport"`
}

// CoachFilter describes query params for listing coaches.
type CoachFilter struct {
	Search    string
	BranchID  string
	SportID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
