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

// BranchRepository manages persistence for academy branches.
type BranchRepository struct {
	db *sqlx.DB
}

// NewBranchRepository constructs a BranchRepository.
func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// List returns branches matching the provided filters.
func (r *BranchRepository) List(ctx context.Context, filter models.BranchFilter) ([]models.Branch, int, error) {
	baseQuery := `FROM branches WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(city) = LOWER($%d)", len(args)+1))
		args = append(args, filter.City)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(city) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"city":       true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
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

	listQuery := fmt.Sprintf("SELECT id, name, city, country, phone_number, email, co_x, co_y, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, sortOrder, pageSize, offset)

	var branches []models.Branch
	if err := r.db.SelectContext(ctx, &branches, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list branches: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count branches: %w", err)
	}

	return branches, total, nil
}

// FindByID fetches a branch by ID.
func (r *BranchRepository) FindByID(ctx context.Context, id string) (*models.Branch, error) {
	const query = `SELECT id, name, city, country, phone_number, email, co_x, co_y, created_at, updated_at FROM branches WHERE id = $1`
	var branch models.Branch
	if err := r.db.GetContext(ctx, &branch, query, id); err != nil {
		return nil, err
	}
	return &branch, nil
}

// ExistsByName checks if a branch with the given name exists, optionally excluding an ID.
func (r *BranchRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM branches WHERE LOWER(name) = LOWER($1)"
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
		return false, fmt.Errorf("check branch name: %w", err)
	}
	return true, nil
}

// Create inserts a new branch record.
func (r *BranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	if branch.ID == "" {
		branch.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if branch.CreatedAt.IsZero() {
		branch.CreatedAt = now
	}
	branch.UpdatedAt = now
	const query = `INSERT INTO branches (id, name, city, country, phone_number, email, co_x, co_y, created_at, updated_at)
        VALUES (:id, :name, :city, :country, :phone_number, :email, :co_x, :co_y, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, branch); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// Update modifies an existing branch.
func (r *BranchRepository) Update(ctx context.Context, branch *models.Branch) error {
	branch.UpdatedAt = time.Now().UTC()
	const query = `UPDATE branches SET name = :name, city = :city, country = :country, phone_number = :phone_number, email = :email, co_x = :co_x, co_y = :co_y, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, branch); err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	return nil
}

// Delete removes a branch record.
func (r *BranchRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM branches WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
