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

// TraineeGroupRepository manages persistence for trainee groups and their weekly schedules.
type TraineeGroupRepository struct {
	db *sqlx.DB
}

// NewTraineeGroupRepository constructs a TraineeGroupRepository.
func NewTraineeGroupRepository(db *sqlx.DB) *TraineeGroupRepository {
	return &TraineeGroupRepository{db: db}
}

// List returns group details matching the provided filters.
func (r *TraineeGroupRepository) List(ctx context.Context, filter models.TraineeGroupFilter) ([]models.TraineeGroupDetail, int, error) {
	base := `FROM trainee_groups g
        JOIN branches b ON b.id = g.branch_id
        JOIN coaches c ON c.id = g.coach_id
        JOIN employees e ON e.id = c.employee_id
        JOIN sports s ON s.id = c.sport_id`
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.BranchID != "" {
		conditions = append(conditions, fmt.Sprintf("g.branch_id = $%d", len(args)+1))
		args = append(args, filter.BranchID)
	}
	if filter.CoachID != "" {
		conditions = append(conditions, fmt.Sprintf("g.coach_id = $%d", len(args)+1))
		args = append(args, filter.CoachID)
	}
	if filter.SportID != "" {
		conditions = append(conditions, fmt.Sprintf("c.sport_id = $%d", len(args)+1))
		args = append(args, filter.SportID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(g.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"name":       "g.name",
		"created_at": "g.created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "g.created_at"
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

	query := fmt.Sprintf(`SELECT g.id, g.name, g.skill_level, g.capacity, g.duration_in_minutes, g.gender, g.branch_id, g.coach_id, g.created_at, g.updated_at,
        b.name AS branch_name, e.first_name || ' ' || e.last_name AS coach_name, s.name AS sport,
        (SELECT COUNT(*) FROM enrollments en WHERE en.trainee_group_id = g.id AND en.expiry_date >= NOW()) AS enrolled_count
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var groups []models.TraineeGroupDetail
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list trainee groups: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count trainee groups: %w", err)
	}
	return groups, total, nil
}

// FindByID fetches a group detail with its schedules.
func (r *TraineeGroupRepository) FindByID(ctx context.Context, id string) (*models.TraineeGroupDetail, error) {
	const query = `SELECT g.id, g.name, g.skill_level, g.capacity, g.duration_in_minutes, g.gender, g.branch_id, g.coach_id, g.created_at, g.updated_at,
        b.name AS branch_name, e.first_name || ' ' || e.last_name AS coach_name, s.name AS sport,
        (SELECT COUNT(*) FROM enrollments en WHERE en.trainee_group_id = g.id AND en.expiry_date >= NOW()) AS enrolled_count
        FROM trainee_groups g
        JOIN branches b ON b.id = g.branch_id
        JOIN coaches c ON c.id = g.coach_id
        JOIN employees e ON e.id = c.employee_id
        JOIN sports s ON s.id = c.sport_id
        WHERE g.id = $1`
	var detail models.TraineeGroupDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}

	schedules, err := r.Schedules(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Schedules = schedules
	return &detail, nil
}

// Schedules returns the weekly schedule slots of a group.
func (r *TraineeGroupRepository) Schedules(ctx context.Context, groupID string) ([]models.GroupSchedule, error) {
	const query = `SELECT id, trainee_group_id, day_of_week, start_time, end_time, created_at FROM group_schedules WHERE trainee_group_id = $1 ORDER BY day_of_week, start_time`
	var schedules []models.GroupSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, groupID); err != nil {
		return nil, fmt.Errorf("list group schedules: %w", err)
	}
	return schedules, nil
}

// Options returns the id/name projection of every group for dropdowns.
func (r *TraineeGroupRepository) Options(ctx context.Context) ([]models.TraineeGroupOption, error) {
	const query = `SELECT id, name FROM trainee_groups ORDER BY name`
	var options []models.TraineeGroupOption
	if err := r.db.SelectContext(ctx, &options, query); err != nil {
		return nil, fmt.Errorf("list group options: %w", err)
	}
	return options, nil
}

// EnrolledCount returns the number of active enrollments in a group.
func (r *TraineeGroupRepository) EnrolledCount(ctx context.Context, groupID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE trainee_group_id = $1 AND expiry_date >= NOW()`
	var count int
	if err := r.db.GetContext(ctx, &count, query, groupID); err != nil {
		return 0, fmt.Errorf("count enrolled trainees: %w", err)
	}
	return count, nil
}

// Create inserts a group and its schedule slots in one transaction.
func (r *TraineeGroupRepository) Create(ctx context.Context, group *models.TraineeGroup, schedules []models.GroupSchedule) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO trainee_groups (id, name, skill_level, capacity, duration_in_minutes, gender, branch_id, coach_id, created_at, updated_at)
        VALUES (:id, :name, :skill_level, :capacity, :duration_in_minutes, :gender, :branch_id, :coach_id, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create trainee group: %w", err)
	}

	if err := insertSchedules(ctx, tx, group.ID, schedules, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create trainee group: %w", err)
	}
	return nil
}

// Update modifies a group and replaces its schedule slots.
func (r *TraineeGroupRepository) Update(ctx context.Context, group *models.TraineeGroup, schedules []models.GroupSchedule) error {
	group.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const query = `UPDATE trainee_groups SET name = :name, skill_level = :skill_level, capacity = :capacity, duration_in_minutes = :duration_in_minutes, gender = :gender, branch_id = :branch_id, coach_id = :coach_id, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("update trainee group: %w", err)
	}

	if schedules != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM group_schedules WHERE trainee_group_id = $1`, group.ID); err != nil {
			return fmt.Errorf("clear group schedules: %w", err)
		}
		if err := insertSchedules(ctx, tx, group.ID, schedules, time.Now().UTC()); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update trainee group: %w", err)
	}
	return nil
}

func insertSchedules(ctx context.Context, tx *sqlx.Tx, groupID string, schedules []models.GroupSchedule, now time.Time) error {
	const query = `INSERT INTO group_schedules (id, trainee_group_id, day_of_week, start_time, end_time, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range schedules {
		if schedules[i].ID == "" {
			schedules[i].ID = uuid.NewString()
		}
		schedules[i].TraineeGroupID = groupID
		schedules[i].CreatedAt = now
		if _, err := tx.ExecContext(ctx, query, schedules[i].ID, groupID, schedules[i].DayOfWeek, schedules[i].StartTime, schedules[i].EndTime, now); err != nil {
			return fmt.Errorf("create group schedule: %w", err)
		}
	}
	return nil
}

// Delete removes a group together with its schedules.
func (r *TraineeGroupRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM group_schedules WHERE trainee_group_id = $1`, id); err != nil {
		return fmt.Errorf("delete group schedules: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM trainee_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete trainee group: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete trainee group: %w", err)
	}
	return nil
}
