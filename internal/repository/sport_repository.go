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

// SportRepository manages persistence for sports and their skill levels.
type SportRepository struct {
	db *sqlx.DB
}

// NewSportRepository constructs a SportRepository.
func NewSportRepository(db *sqlx.DB) *SportRepository {
	return &SportRepository{db: db}
}

// List returns sports matching the provided filters.
func (r *SportRepository) List(ctx context.Context, filter models.SportFilter) ([]models.Sport, int, error) {
	baseQuery := `FROM sports WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"category":   true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "name"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT id, name, description, category, is_require_health_test, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, sortOrder, pageSize, offset)

	var sports []models.Sport
	if err := r.db.SelectContext(ctx, &sports, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list sports: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sports: %w", err)
	}

	return sports, total, nil
}

// FindByID fetches a sport with its skill levels.
func (r *SportRepository) FindByID(ctx context.Context, id string) (*models.SportDetail, error) {
	const query = `SELECT id, name, description, category, is_require_health_test, created_at, updated_at FROM sports WHERE id = $1`
	var detail models.SportDetail
	if err := r.db.GetContext(ctx, &detail.Sport, query, id); err != nil {
		return nil, err
	}

	const levelsQuery = `SELECT id, sport_id, name, created_at FROM skill_levels WHERE sport_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &detail.SkillLevels, levelsQuery, id); err != nil {
		return nil, fmt.Errorf("list skill levels: %w", err)
	}
	return &detail, nil
}

// ExistsByName checks if a sport with the given name exists, optionally excluding an ID.
func (r *SportRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM sports WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check sport name: %w", err)
	}
	return true, nil
}

// Create inserts a sport with its skill levels in one transaction.
func (r *SportRepository) Create(ctx context.Context, sport *models.Sport, skillLevels []string) error {
	if sport.ID == "" {
		sport.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sport.CreatedAt = now
	sport.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO sports (id, name, description, category, is_require_health_test, created_at, updated_at)
        VALUES (:id, :name, :description, :category, :is_require_health_test, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, sport); err != nil {
		return fmt.Errorf("create sport: %w", err)
	}

	const levelQuery = `INSERT INTO skill_levels (id, sport_id, name, created_at) VALUES ($1, $2, $3, $4)`
	for _, name := range skillLevels {
		if _, err := tx.ExecContext(ctx, levelQuery, uuid.NewString(), sport.ID, name, now); err != nil {
			return fmt.Errorf("create skill level: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create sport: %w", err)
	}
	return nil
}

// Update modifies a sport and replaces its skill levels.
func (r *SportRepository) Update(ctx context.Context, sport *models.Sport, skillLevels []string) error {
	sport.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const query = `UPDATE sports SET name = :name, description = :description, category = :category, is_require_health_test = :is_require_health_test, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, sport); err != nil {
		return fmt.Errorf("update sport: %w", err)
	}

	if skillLevels != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM skill_levels WHERE sport_id = $1`, sport.ID); err != nil {
			return fmt.Errorf("clear skill levels: %w", err)
		}
		const levelQuery = `INSERT INTO skill_levels (id, sport_id, name, created_at) VALUES ($1, $2, $3, $4)`
		now := time.Now().UTC()
		for _, name := range skillLevels {
			if _, err := tx.ExecContext(ctx, levelQuery, uuid.NewString(), sport.ID, name, now); err != nil {
				return fmt.Errorf("create skill level: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update sport: %w", err)
	}
	return nil
}

// AddSkillLevel appends a named level to a sport.
func (r *SportRepository) AddSkillLevel(ctx context.Context, sportID, name string) (*models.SkillLevel, error) {
	level := &models.SkillLevel{
		ID:        uuid.NewString(),
		SportID:   sportID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	const query = `INSERT INTO skill_levels (id, sport_id, name, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, level.ID, level.SportID, level.Name, level.CreatedAt); err != nil {
		return nil, fmt.Errorf("add skill level: %w", err)
	}
	return level, nil
}

// Delete removes a sport and its skill levels.
func (r *SportRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sports WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete sport: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
