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

// SubscriptionRepository manages persistence for subscription plans.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository constructs a SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// List returns subscription plans matching the provided filters.
func (r *SubscriptionRepository) List(ctx context.Context, filter models.SubscriptionFilter) ([]models.SubscriptionDetails, int, error) {
	baseQuery := `FROM subscription_details WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
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

	listQuery := fmt.Sprintf("SELECT id, name, price, duration_in_days, sessions_allowed, active, created_at, updated_at %s ORDER BY price ASC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var plans []models.SubscriptionDetails
	if err := r.db.SelectContext(ctx, &plans, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list subscription plans: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subscription plans: %w", err)
	}
	return plans, total, nil
}

// FindByID fetches a subscription plan by ID.
func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*models.SubscriptionDetails, error) {
	const query = `SELECT id, name, price, duration_in_days, sessions_allowed, active, created_at, updated_at FROM subscription_details WHERE id = $1`
	var plan models.SubscriptionDetails
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Create inserts a new subscription plan.
func (r *SubscriptionRepository) Create(ctx context.Context, plan *models.SubscriptionDetails) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	const query = `INSERT INTO subscription_details (id, name, price, duration_in_days, sessions_allowed, active, created_at, updated_at)
        VALUES (:id, :name, :price, :duration_in_days, :sessions_allowed, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create subscription plan: %w", err)
	}
	return nil
}

// Update modifies an existing subscription plan.
func (r *SubscriptionRepository) Update(ctx context.Context, plan *models.SubscriptionDetails) error {
	plan.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subscription_details SET name = :name, price = :price, duration_in_days = :duration_in_days, sessions_allowed = :sessions_allowed, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("update subscription plan: %w", err)
	}
	return nil
}

// Deactivate retires a plan without deleting enrollments that reference it.
func (r *SubscriptionRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE subscription_details SET active = false, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate subscription plan: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
