package models

import "time"

// Trainee represents an enrolled student of the academy.
type Trainee struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	SSN          string    `db:"ssn" json:"ssn"`
	ParentNumber string    `db:"parent_number" json:"parentNumber"`
	GuardianName string    `db:"guardian_name" json:"guardianName"`
	BirthDate    time.Time `db:"birth_date" json:"birthDate"`
	Gender       string    `db:"gender" json:"gender"`
	BranchID     string    `db:"branch_id" json:"branchId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// TraineeDetail joins a trainee with their branch and practiced sports.
type TraineeDetail struct {
	Trainee
	BranchName string   `db:"branch_name" json:"branchName"`
	SportIDs   []string `json:"sportIds"`
	Sports     []string `json:"sports,omitempty"`
}

// TraineeCard is the list projection for the trainees table.
type TraineeCard struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	ParentNumber string    `db:"parent_number" json:"parentNumber"`
	GuardianName string    `db:"guardian_name" json:"guardianName"`
	BirthDate    time.Time `db:"birth_date" json:"birthDate"`
	Gender       string    `db:"gender" json:"gender"`
	BranchName   string    `db:"branch_name" json:"branchName"`
}

// TraineeFilter describes query params for listing trainees.
type TraineeFilter struct {
	Search    string
	BranchID  string
	SportID   string
	Gender    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
