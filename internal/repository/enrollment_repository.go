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

// EnrollmentRepository manages persistence for trainee enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollment details matching the provided filters.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	base := `FROM enrollments en
        JOIN trainees t ON t.id = en.trainee_id
        JOIN trainee_groups g ON g.id = en.trainee_group_id`
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.TraineeID != "" {
		conditions = append(conditions, fmt.Sprintf("en.trainee_id = $%d", len(args)+1))
		args = append(args, filter.TraineeID)
	}
	if filter.TraineeGroupID != "" {
		conditions = append(conditions, fmt.Sprintf("en.trainee_group_id = $%d", len(args)+1))
		args = append(args, filter.TraineeGroupID)
	}
	if filter.ActiveOn != nil {
		conditions = append(conditions, fmt.Sprintf("en.enrollment_date <= $%d AND en.expiry_date >= $%d", len(args)+1, len(args)+1))
		args = append(args, *filter.ActiveOn)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"enrollment_date": "en.enrollment_date",
		"expiry_date":     "en.expiry_date",
		"created_at":      "en.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "en.created_at"
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

	query := fmt.Sprintf(`SELECT en.id, en.trainee_id, en.trainee_group_id, en.enrollment_date, en.expiry_date, en.session_allowed, en.subscription_details_id, en.created_at, en.updated_at,
        t.first_name || ' ' || t.last_name AS trainee_name, g.name AS group_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID fetches an enrollment by ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	const query = `SELECT id, trainee_id, trainee_group_id, enrollment_date, expiry_date, session_allowed, subscription_details_id, created_at, updated_at FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ExistsActive checks whether a trainee already holds an unexpired enrollment in a group.
func (r *EnrollmentRepository) ExistsActive(ctx context.Context, traineeID, groupID, excludeID string) (bool, error) {
	query := `SELECT 1 FROM enrollments WHERE trainee_id = $1 AND trainee_group_id = $2 AND expiry_date >= NOW()`
	args := []interface{}{traineeID, groupID}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check active enrollment: %w", err)
	}
	return true, nil
}

// Create inserts a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	const query = `INSERT INTO enrollments (id, trainee_id, trainee_group_id, enrollment_date, expiry_date, session_allowed, subscription_details_id, created_at, updated_at)
        VALUES (:id, :trainee_id, :trainee_group_id, :enrollment_date, :expiry_date, :session_allowed, :subscription_details_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update modifies an existing enrollment.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET enrollment_date = :enrollment_date, expiry_date = :expiry_date, session_allowed = :session_allowed, subscription_details_id = :subscription_details_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment record.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM enrollments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
