package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type subscriptionRepository interface {
	List(ctx context.Context, filter models.SubscriptionFilter) ([]models.SubscriptionDetails, int, error)
	FindByID(ctx context.Context, id string) (*models.SubscriptionDetails, error)
	Create(ctx context.Context, plan *models.SubscriptionDetails) error
	Update(ctx context.Context, plan *models.SubscriptionDetails) error
	Deactivate(ctx context.Context, id string) error
}

// SubscriptionRequest holds payload for creating and updating plans.
type SubscriptionRequest struct {
	Name            string  `json:"name" validate:"required"`
	Price           float64 `json:"price" validate:"min=0"`
	DurationInDays  int     `json:"durationInDays" validate:"required,min=1"`
	SessionsAllowed int     `json:"sessionsAllowed" validate:"required,min=1"`
	Active          bool    `json:"active"`
}

// SubscriptionService handles subscription plan use-cases.
type SubscriptionService struct {
	repo      subscriptionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubscriptionService constructs the subscription service.
func NewSubscriptionService(repo subscriptionRepository, validate *validator.Validate, logger *zap.Logger) *SubscriptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{repo: repo, validator: validate, logger: logger}
}

// List returns plans and pagination metadata.
func (s *SubscriptionService) List(ctx context.Context, filter models.SubscriptionFilter) ([]models.SubscriptionDetails, *models.Pagination, error) {
	plans, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subscription plans")
	}
	return plans, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a plan by ID.
func (s *SubscriptionService) Get(ctx context.Context, id string) (*models.SubscriptionDetails, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subscription plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subscription plan")
	}
	return plan, nil
}

// Create registers a new plan.
func (s *SubscriptionService) Create(ctx context.Context, req SubscriptionRequest) (*models.SubscriptionDetails, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subscription payload")
	}
	plan := &models.SubscriptionDetails{
		Name:            req.Name,
		Price:           req.Price,
		DurationInDays:  req.DurationInDays,
		SessionsAllowed: req.SessionsAllowed,
		Active:          req.Active,
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subscription plan")
	}
	return plan, nil
}

// Update modifies an existing plan.
func (s *SubscriptionService) Update(ctx context.Context, id string, req SubscriptionRequest) (*models.SubscriptionDetails, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subscription payload")
	}
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Name = req.Name
	plan.Price = req.Price
	plan.DurationInDays = req.DurationInDays
	plan.SessionsAllowed = req.SessionsAllowed
	plan.Active = req.Active
	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subscription plan")
	}
	return plan, nil
}

// Deactivate retires a plan.
func (s *SubscriptionService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "subscription plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate subscription plan")
	}
	return nil
}
