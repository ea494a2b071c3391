package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type branchRepository interface {
	List(ctx context.Context, filter models.BranchFilter) ([]models.Branch, int, error)
	FindByID(ctx context.Context, id string) (*models.Branch, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, branch *models.Branch) error
	Update(ctx context.Context, branch *models.Branch) error
	Delete(ctx context.Context, id string) error
}

// BranchRequest holds payload for creating and updating branches.
type BranchRequest struct {
	Name        string   `json:"name" validate:"required"`
	City        string   `json:"city" validate:"required"`
	Country     string   `json:"country" validate:"required"`
	PhoneNumber string   `json:"phoneNumber" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	CoX         *float64 `json:"coX"`
	CoY         *float64 `json:"coY"`
}

// BranchService handles branch use-cases.
type BranchService struct {
	repo         branchRepository
	validator    *validator.Validate
	logger       *zap.Logger
	minSearchLen int
}

// NewBranchService constructs the branch service.
func NewBranchService(repo branchRepository, validate *validator.Validate, logger *zap.Logger, minSearchLen int) *BranchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BranchService{repo: repo, validator: validate, logger: logger, minSearchLen: minSearchLen}
}

// List returns branches and pagination metadata.
func (s *BranchService) List(ctx context.Context, filter models.BranchFilter) ([]models.Branch, *models.Pagination, error) {
	filter.Search = NormalizeSearchTerm(filter.Search, s.minSearchLen)
	branches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list branches")
	}
	return branches, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a branch by ID.
func (s *BranchService) Get(ctx context.Context, id string) (*models.Branch, error) {
	branch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "branch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load branch")
	}
	return branch, nil
}

// Create registers a new branch.
func (s *BranchService) Create(ctx context.Context, req BranchRequest) (*models.Branch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid branch payload")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate branch name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "branch name already used")
	}
	branch := &models.Branch{
		Name:        req.Name,
		City:        req.City,
		Country:     req.Country,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		CoX:         req.CoX,
		CoY:         req.CoY,
	}
	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create branch")
	}
	return branch, nil
}

// Update modifies an existing branch.
func (s *BranchService) Update(ctx context.Context, id string, req BranchRequest) (*models.Branch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid branch payload")
	}
	branch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "branch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load branch")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate branch name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "branch name already used")
	}
	branch.Name = req.Name
	branch.City = req.City
	branch.Country = req.Country
	branch.PhoneNumber = req.PhoneNumber
	branch.Email = req.Email
	branch.CoX = req.CoX
	branch.CoY = req.CoY
	if err := s.repo.Update(ctx, branch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update branch")
	}
	return branch, nil
}

// Delete removes a branch.
func (s *BranchService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "branch not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete branch")
	}
	return nil
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
