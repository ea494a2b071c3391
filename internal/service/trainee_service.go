package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type traineeRepository interface {
	List(ctx context.Context, filter models.TraineeFilter) ([]models.TraineeCard, int, error)
	FindByID(ctx context.Context, id string) (*models.TraineeDetail, error)
	ExistsBySSN(ctx context.Context, ssn, excludeID string) (bool, error)
	Create(ctx context.Context, trainee *models.Trainee, sportIDs []string) error
	Update(ctx context.Context, trainee *models.Trainee, sportIDs []string) error
	Delete(ctx context.Context, id string) error
}

// TraineeRequest holds payload for creating and updating trainees.
type TraineeRequest struct {
	FirstName    string    `json:"firstName" validate:"required"`
	LastName     string    `json:"lastName" validate:"required"`
	SSN          string    `json:"ssn" validate:"required"`
	ParentNumber string    `json:"parentNumber" validate:"required"`
	GuardianName string    `json:"guardianName" validate:"required"`
	BirthDate    time.Time `json:"birthDate" validate:"required"`
	Gender       string    `json:"gender" validate:"required,oneof=Male Female"`
	BranchID     string    `json:"branchId" validate:"required"`
	SportIDs     []string  `json:"sportIds" validate:"required,min=1,dive,required"`
}

// TraineeService handles trainee use-cases.
type TraineeService struct {
	repo         traineeRepository
	branches     branchFinder
	sports       sportFinder
	validator    *validator.Validate
	logger       *zap.Logger
	minSearchLen int
}

// NewTraineeService constructs the trainee service.
func NewTraineeService(repo traineeRepository, branches branchFinder, sports sportFinder, validate *validator.Validate, logger *zap.Logger, minSearchLen int) *TraineeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TraineeService{repo: repo, branches: branches, sports: sports, validator: validate, logger: logger, minSearchLen: minSearchLen}
}

// List returns trainee cards and pagination metadata.
func (s *TraineeService) List(ctx context.Context, filter models.TraineeFilter) ([]models.TraineeCard, *models.Pagination, error) {
	filter.Search = NormalizeSearchTerm(filter.Search, s.minSearchLen)
	cards, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainees")
	}
	return cards, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a trainee detail including practiced sports.
func (s *TraineeService) Get(ctx context.Context, id string) (*models.TraineeDetail, error) {
	trainee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee")
	}
	return trainee, nil
}

// Create registers a new trainee with their practiced sports.
func (s *TraineeService) Create(ctx context.Context, req TraineeRequest) (*models.TraineeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainee payload")
	}
	if err := s.validateRefs(ctx, req); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsBySSN(ctx, req.SSN, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate ssn")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "ssn already used")
	}
	trainee := &models.Trainee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		SSN:          req.SSN,
		ParentNumber: req.ParentNumber,
		GuardianName: req.GuardianName,
		BirthDate:    req.BirthDate,
		Gender:       req.Gender,
		BranchID:     req.BranchID,
	}
	if err := s.repo.Create(ctx, trainee, req.SportIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trainee")
	}
	return s.Get(ctx, trainee.ID)
}

// Update modifies a trainee and replaces their practiced sports.
func (s *TraineeService) Update(ctx context.Context, id string, req TraineeRequest) (*models.TraineeDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainee payload")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee")
	}
	if err := s.validateRefs(ctx, req); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsBySSN(ctx, req.SSN, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate ssn")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "ssn already used")
	}
	trainee := detail.Trainee
	trainee.FirstName = req.FirstName
	trainee.LastName = req.LastName
	trainee.SSN = req.SSN
	trainee.ParentNumber = req.ParentNumber
	trainee.GuardianName = req.GuardianName
	trainee.BirthDate = req.BirthDate
	trainee.Gender = req.Gender
	trainee.BranchID = req.BranchID
	if err := s.repo.Update(ctx, &trainee, req.SportIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trainee")
	}
	return s.Get(ctx, id)
}

// Delete removes a trainee record.
func (s *TraineeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "trainee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete trainee")
	}
	return nil
}

func (s *TraineeService) validateRefs(ctx context.Context, req TraineeRequest) error {
	if s.branches != nil {
		if _, err := s.branches.FindByID(ctx, req.BranchID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrValidation, "branch does not exist")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate branch")
		}
	}
	if s.sports != nil {
		for _, sportID := range req.SportIDs {
			if _, err := s.sports.FindByID(ctx, sportID); err != nil {
				if err == sql.ErrNoRows {
					return appErrors.Clone(appErrors.ErrValidation, "sport does not exist")
				}
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate sport")
			}
		}
	}
	return nil
}
