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

// OccurrenceRepository manages persistence for dated session occurrences.
type OccurrenceRepository struct {
	db *sqlx.DB
}

// NewOccurrenceRepository constructs an OccurrenceRepository.
func NewOccurrenceRepository(db *sqlx.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

// List returns occurrence details matching the provided filters.
func (r *OccurrenceRepository) List(ctx context.Context, filter models.SessionOccurrenceFilter) ([]models.SessionOccurrenceDetail, int, error) {
	base := `FROM session_occurrences o
        JOIN trainee_groups g ON g.id = o.trainee_group_id
        JOIN branches b ON b.id = g.branch_id
        JOIN coaches c ON c.id = g.coach_id
        JOIN employees e ON e.id = c.employee_id`
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.TraineeGroupID != "" {
		conditions = append(conditions, fmt.Sprintf("o.trainee_group_id = $%d", len(args)+1))
		args = append(args, filter.TraineeGroupID)
	}
	if filter.BranchID != "" {
		conditions = append(conditions, fmt.Sprintf("g.branch_id = $%d", len(args)+1))
		args = append(args, filter.BranchID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("o.date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("o.date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"date":       "o.date",
		"status":     "o.status",
		"created_at": "o.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "o.date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf(`SELECT o.id, o.trainee_group_id, o.group_schedule_id, o.date, o.start_time, o.end_time, o.status, o.expected_trainees, o.attended_trainees, o.created_at, o.updated_at,
        g.name AS group_name, b.name AS branch_name, e.first_name || ' ' || e.last_name AS coach_name
        %s ORDER BY %s %s, o.start_time ASC LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var occurrences []models.SessionOccurrenceDetail
	if err := r.db.SelectContext(ctx, &occurrences, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list occurrences: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count occurrences: %w", err)
	}
	return occurrences, total, nil
}

// FindByID fetches an occurrence by ID.
func (r *OccurrenceRepository) FindByID(ctx context.Context, id string) (*models.SessionOccurrence, error) {
	const query = `SELECT id, trainee_group_id, group_schedule_id, date, start_time, end_time, status, expected_trainees, attended_trainees, created_at, updated_at FROM session_occurrences WHERE id = $1`
	var occurrence models.SessionOccurrence
	if err := r.db.GetContext(ctx, &occurrence, query, id); err != nil {
		return nil, err
	}
	return &occurrence, nil
}

// ExistingDates returns the dates inside [from, to] that already carry an
// occurrence for the given schedule slot. Regeneration skips these so a
// second run over the same window never duplicates sessions.
func (r *OccurrenceRepository) ExistingDates(ctx context.Context, groupScheduleID string, from, to time.Time) (map[string]struct{}, error) {
	const query = `SELECT date FROM session_occurrences WHERE group_schedule_id = $1 AND date >= $2 AND date <= $3`
	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, groupScheduleID, from, to); err != nil {
		return nil, fmt.Errorf("list existing occurrence dates: %w", err)
	}
	existing := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		existing[d.Format("2006-01-02")] = struct{}{}
	}
	return existing, nil
}

// BulkCreate inserts a batch of occurrences in a single transaction.
func (r *OccurrenceRepository) BulkCreate(ctx context.Context, occurrences []models.SessionOccurrence) error {
	if len(occurrences) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO session_occurrences (id, trainee_group_id, group_schedule_id, date, start_time, end_time, status, expected_trainees, attended_trainees, created_at, updated_at)
        VALUES (:id, :trainee_group_id, :group_schedule_id, :date, :start_time, :end_time, :status, :expected_trainees, :attended_trainees, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range occurrences {
		if occurrences[i].ID == "" {
			occurrences[i].ID = uuid.NewString()
		}
		occurrences[i].CreatedAt = now
		occurrences[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, occurrences[i]); err != nil {
			return fmt.Errorf("create occurrence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create occurrences: %w", err)
	}
	return nil
}

// UpdateStatus transitions an occurrence and records attendance when provided.
func (r *OccurrenceRepository) UpdateStatus(ctx context.Context, id string, status models.OccurrenceStatus, attended *int) error {
	const query = `UPDATE session_occurrences SET status = $2, attended_trainees = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, attended, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update occurrence status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteScheduled removes future scheduled occurrences of a group. Completed
// and cancelled sessions stay as the attendance record.
func (r *OccurrenceRepository) DeleteScheduled(ctx context.Context, groupID string, from time.Time) (int, error) {
	const query = `DELETE FROM session_occurrences WHERE trainee_group_id = $1 AND status = $2 AND date >= $3`
	res, err := r.db.ExecContext(ctx, query, groupID, models.OccurrenceScheduled, from)
	if err != nil {
		return 0, fmt.Errorf("delete scheduled occurrences: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted occurrences: %w", err)
	}
	return int(affected), nil
}

// AttendanceRows streams the report projection for the export subsystem.
func (r *OccurrenceRepository) AttendanceRows(ctx context.Context, branchID, groupID *string, from, to time.Time) ([]models.AttendanceReportRow, error) {
	base := `FROM session_occurrences o
        JOIN trainee_groups g ON g.id = o.trainee_group_id
        JOIN branches b ON b.id = g.branch_id
        JOIN coaches c ON c.id = g.coach_id
        JOIN employees e ON e.id = c.employee_id
        WHERE o.date >= $1 AND o.date <= $2`
	args := []interface{}{from, to}

	if branchID != nil {
		base += fmt.Sprintf(" AND g.branch_id = $%d", len(args)+1)
		args = append(args, *branchID)
	}
	if groupID != nil {
		base += fmt.Sprintf(" AND o.trainee_group_id = $%d", len(args)+1)
		args = append(args, *groupID)
	}

	query := fmt.Sprintf(`SELECT o.date, g.name AS group_name, b.name AS branch_name,
        e.first_name || ' ' || e.last_name AS coach_name, o.status, o.expected_trainees, o.attended_trainees
        %s ORDER BY o.date ASC, g.name ASC`, base)

	var rows []models.AttendanceReportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance rows: %w", err)
	}
	return rows, nil
}
