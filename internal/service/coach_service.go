package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type coachRepository interface {
	List(ctx context.Context, filter models.CoachFilter) ([]models.CoachCard, int, error)
	FindByID(ctx context.Context, id string) (*models.CoachCard, error)
	ExistsByEmployee(ctx context.Context, employeeID string) (bool, error)
	Create(ctx context.Context, coach *models.Coach) error
	Update(ctx context.Context, coach *models.Coach) error
	Delete(ctx context.Context, id string) error
}

type employeeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

type sportFinder interface {
	FindByID(ctx context.Context, id string) (*models.SportDetail, error)
}

// CreateCoachRequest promotes an existing employee to a coach.
type CreateCoachRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	SportID    string `json:"sportId" validate:"required"`
	SkillLevel string `json:"skillLevel" validate:"required"`
}

// UpdateCoachRequest changes a coach's sport or skill level.
type UpdateCoachRequest struct {
	SportID    string `json:"sportId" validate:"required"`
	SkillLevel string `json:"skillLevel" validate:"required"`
}

// CoachService handles coach use-cases.
type CoachService struct {
	repo         coachRepository
	employees    employeeFinder
	sports       sportFinder
	validator    *validator.Validate
	logger       *zap.Logger
	minSearchLen int
}

// NewCoachService constructs the coach service.
func NewCoachService(repo coachRepository, employees employeeFinder, sports sportFinder, validate *validator.Validate, logger *zap.Logger, minSearchLen int) *CoachService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoachService{repo: repo, employees: employees, sports: sports, validator: validate, logger: logger, minSearchLen: minSearchLen}
}

// List returns coach cards and pagination metadata.
func (s *CoachService) List(ctx context.Context, filter models.CoachFilter) ([]models.CoachCard, *models.Pagination, error) {
	filter.Search = NormalizeSearchTerm(filter.Search, s.minSearchLen)
	cards, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list coaches")
	}
	return cards, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a coach card by ID.
func (s *CoachService) Get(ctx context.Context, id string) (*models.CoachCard, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "coach not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coach")
	}
	return card, nil
}

// Create promotes an employee to a coach for a sport.
func (s *CoachService) Create(ctx context.Context, req CreateCoachRequest) (*models.CoachCard, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid coach payload")
	}
	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "employee does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate employee")
	}
	if _, err := s.sports.FindByID(ctx, req.SportID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "sport does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate sport")
	}
	exists, err := s.repo.ExistsByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate coach employee")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "employee is already a coach")
	}
	coach := &models.Coach{
		EmployeeID: req.EmployeeID,
		SportID:    req.SportID,
		SkillLevel: req.SkillLevel,
	}
	if err := s.repo.Create(ctx, coach); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create coach")
	}
	return s.Get(ctx, coach.ID)
}

// Update modifies a coach's sport assignment or skill level.
func (s *CoachService) Update(ctx context.Context, id string, req UpdateCoachRequest) (*models.CoachCard, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid coach payload")
	}
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "coach not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coach")
	}
	if _, err := s.sports.FindByID(ctx, req.SportID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "sport does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate sport")
	}
	coach := &models.Coach{
		ID:         card.CoachID,
		EmployeeID: card.ID,
		SportID:    req.SportID,
		SkillLevel: req.SkillLevel,
	}
	if err := s.repo.Update(ctx, coach); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update coach")
	}
	return s.Get(ctx, id)
}

// Delete removes a coach record, keeping the employee.
func (s *CoachService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "coach not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete coach")
	}
	return nil
}
