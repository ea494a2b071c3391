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

// CoachRepository manages persistence for coach records.
type CoachRepository struct {
	db *sqlx.DB
}

// NewCoachRepository constructs a CoachRepository.
func NewCoachRepository(db *sqlx.DB) *CoachRepository {
	return &CoachRepository{db: db}
}

const coachCardColumns = `c.id AS coach_id, e.id, e.first_name, e.last_name, e.position, b.name AS branch_name, e.email, e.is_work, e.phone_number,
        e.street || ', ' || e.city AS address, e.hire_date, e.branch_id,
        s.name AS sport, c.skill_level,
        (SELECT COUNT(DISTINCT en.trainee_id) FROM enrollments en JOIN trainee_groups tg ON tg.id = en.trainee_group_id WHERE tg.coach_id = c.id AND en.expiry_date >= NOW()) AS total_trainees`

// List returns coach cards matching the provided filters.
func (r *CoachRepository) List(ctx context.Context, filter models.CoachFilter) ([]models.CoachCard, int, error) {
	base := "FROM coaches c JOIN employees e ON e.id = c.employee_id JOIN branches b ON b.id = e.branch_id JOIN sports s ON s.id = c.sport_id"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.BranchID != "" {
		conditions = append(conditions, fmt.Sprintf("e.branch_id = $%d", len(args)+1))
		args = append(args, filter.BranchID)
	}
	if filter.SportID != "" {
		conditions = append(conditions, fmt.Sprintf("c.sport_id = $%d", len(args)+1))
		args = append(args, filter.SportID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(e.first_name || ' ' || e.last_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"first_name": "e.first_name",
		"sport":      "s.name",
		"created_at": "c.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "c.created_at"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", coachCardColumns, base, column, order, size, offset)

	var cards []models.CoachCard
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list coaches: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count coaches: %w", err)
	}
	return cards, total, nil
}

// FindByID fetches a coach card by coach ID.
func (r *CoachRepository) FindByID(ctx context.Context, id string) (*models.CoachCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM coaches c
        JOIN employees e ON e.id = c.employee_id
        JOIN branches b ON b.id = e.branch_id
        JOIN sports s ON s.id = c.sport_id
        WHERE c.id = $1`, coachCardColumns)
	var card models.CoachCard
	if err := r.db.GetContext(ctx, &card, query, id); err != nil {
		return nil, err
	}
	return &card, nil
}

// ExistsByEmployee checks whether an employee already has a coach record.
func (r *CoachRepository) ExistsByEmployee(ctx context.Context, employeeID string) (bool, error) {
	const query = `SELECT 1 FROM coaches WHERE employee_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, employeeID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check coach employee: %w", err)
	}
	return true, nil
}

// Create inserts a new coach record.
func (r *CoachRepository) Create(ctx context.Context, coach *models.Coach) error {
	if coach.ID == "" {
		coach.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	coach.CreatedAt = now
	coach.UpdatedAt = now
	const query = `INSERT INTO coaches (id, employee_id, sport_id, skill_level, created_at, updated_at)
        VALUES (:id, :employee_id, :sport_id, :skill_level, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, coach); err != nil {
		return fmt.Errorf("create coach: %w", err)
	}
	return nil
}

// Update modifies an existing coach.
func (r *CoachRepository) Update(ctx context.Context, coach *models.Coach) error {
	coach.UpdatedAt = time.Now().UTC()
	const query = `UPDATE coaches SET sport_id = :sport_id, skill_level = :skill_level, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, coach); err != nil {
		return fmt.Errorf("update coach: %w", err)
	}
	return nil
}

// Delete removes a coach record.
func (r *CoachRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM coaches WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete coach: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
