package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-adp-api/internal/models"
)

// EmployeeRepository manages persistence for employee records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employee cards matching the provided filters.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.EmployeeCard, int, error) {
	base := "FROM employees e JOIN branches b ON b.id = e.branch_id"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.BranchID != "" {
		conditions = append(conditions, fmt.Sprintf("e.branch_id = $%d", len(args)+1))
		args = append(args, filter.BranchID)
	}
	if filter.Position != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(e.position) = LOWER($%d)", len(args)+1))
		args = append(args, filter.Position)
	}
	if filter.IsWork != nil {
		conditions = append(conditions, fmt.Sprintf("e.is_work = $%d", len(args)+1))
		args = append(args, *filter.IsWork)
	}
	if filter.NonCoaches {
		conditions = append(conditions, "NOT EXISTS (SELECT 1 FROM coaches c WHERE c.employee_id = e.id)")
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(e.first_name || ' ' || e.last_name) LIKE $%d OR LOWER(e.email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"first_name": "e.first_name",
		"last_name":  "e.last_name",
		"hire_date":  "e.hire_date",
		"created_at": "e.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "e.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT e.id, e.first_name, e.last_name, e.position, b.name AS branch_name, e.email, e.is_work, e.phone_number,
        e.street || ', ' || e.city AS address, e.hire_date
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var cards []models.EmployeeCard
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	return cards, total, nil
}

// FindByID fetches an employee by ID.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	const query = `SELECT id, first_name, last_name, ssn, salary, gender, birth_date, email, nationality, street, city, phone_number, second_number, position, branch_id, is_work, hire_date, created_at, updated_at FROM employees WHERE id = $1`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ExistsBySSN checks if an employee with the given SSN exists, optionally excluding an ID.
func (r *EmployeeRepository) ExistsBySSN(ctx context.Context, ssn, excludeID string) (bool, error) {
	query := "SELECT 1 FROM employees WHERE ssn = $1"
	args := []interface{}{ssn}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee ssn: %w", err)
	}
	return true, nil
}

// Create inserts a new employee record.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	if employee.HireDate.IsZero() {
		employee.HireDate = now
	}
	employee.UpdatedAt = now
	const query = `INSERT INTO employees (id, first_name, last_name, ssn, salary, gender, birth_date, email, nationality, street, city, phone_number, second_number, position, branch_id, is_work, hire_date, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :ssn, :salary, :gender, :birth_date, :email, :nationality, :street, :city, :phone_number, :second_number, :position, :branch_id, :is_work, :hire_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update modifies an existing employee.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET first_name = :first_name, last_name = :last_name, ssn = :ssn, salary = :salary, gender = :gender, birth_date = :birth_date, email = :email, nationality = :nationality, street = :street, city = :city, phone_number = :phone_number, second_number = :second_number, position = :position, branch_id = :branch_id, is_work = :is_work, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// Deactivate marks an employee as no longer working.
func (r *EmployeeRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE employees SET is_work = false, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
