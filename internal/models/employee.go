package models

import "time"

// Employee represents a staff member attached to a branch.
type Employee struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	SSN          string    `db:"ssn" json:"ssn"`
	Salary       float64   `db:"salary" json:"salary"`
	Gender       string    `db:"gender" json:"gender"`
	BirthDate    time.Time `db:"birth_date" json:"birthDate"`
	Email        string    `db:"email" json:"email"`
	Nationality  string    `db:"nationality" json:"nationality"`
	Street       string    `db:"street" json:"street"`
	City         string    `db:"city" json:"city"`
	PhoneNumber  string    `db:"phone_number" json:"phoneNumber"`
	SecondNumber *string   `db:"second_number" json:"secondNumber,omitempty"`
	Position     string    `db:"position" json:"position"`
	BranchID     string    `db:"branch_id" json:"branchId"`
	IsWork       bool      `db:"is_work" json:"isWork"`
	HireDate     time.Time `db:"hire_date" json:"hireDate"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// EmployeeCard is the list/profile projection joined with branch context.
type EmployeeCard struct {
	ID          string    `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Position    string    `db:"position" json:"position"`
	BranchName  string    `db:"branch_name" json:"branchName"`
	Email       string    `db:"email" json:"email"`
	IsWork      bool      `db:"is_work" json:"isWork"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"`
	Address     string    `db:"address" json:"address"`
	HireDate    time.Time `db:"hire_date" json:"hireDate"`
}

// EmployeeFilter describes query params for listing employees.
type EmployeeFilter struct {
	Search     string
	BranchID   string
	Position   string
	IsWork     *bool
	NonCoaches bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
