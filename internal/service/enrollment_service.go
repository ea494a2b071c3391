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

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	ExistsActive(ctx context.Context, traineeID, groupID, excludeID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
}

type traineeFinder interface {
	FindByID(ctx context.Context, id string) (*models.TraineeDetail, error)
}

type groupCapacityReader interface {
	FindByID(ctx context.Context, id string) (*models.TraineeGroupDetail, error)
}

type subscriptionFinder interface {
	FindByID(ctx context.Context, id string) (*models.SubscriptionDetails, error)
}

// EnrollmentRequest holds payload for creating and updating enrollments.
type EnrollmentRequest struct {
	TraineeID             string    `json:"traineeId" validate:"required"`
	TraineeGroupID        string    `json:"traineeGroupId" validate:"required"`
	EnrollmentDate        time.Time `json:"enrollmentDate" validate:"required"`
	ExpiryDate            time.Time `json:"expiryDate" validate:"required"`
	SessionAllowed        int       `json:"sessionAllowed" validate:"required,min=1"`
	SubscriptionDetailsID *string   `json:"subscriptionDetailsId"`
}

// EnrollmentService handles enrollment use-cases.
type EnrollmentService struct {
	repo          enrollmentRepository
	trainees      traineeFinder
	groups        groupCapacityReader
	subscriptions subscriptionFinder
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, trainees traineeFinder, groups groupCapacityReader, subscriptions subscriptionFinder, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, trainees: trainees, groups: groups, subscriptions: subscriptions, validator: validate, logger: logger}
}

// List returns enrollment details and pagination metadata.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns an enrollment by ID.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// Create enrolls a trainee into a group, enforcing capacity and uniqueness.
func (s *EnrollmentService) Create(ctx context.Context, req EnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsActive(ctx, req.TraineeID, req.TraineeGroupID, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "trainee already enrolled in this group")
	}
	group, err := s.groups.FindByID(ctx, req.TraineeGroupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "trainee group does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee group")
	}
	if group.EnrolledCount >= group.Capacity {
		return nil, appErrors.Clone(appErrors.ErrConflict, "trainee group is at capacity")
	}
	enrollment := &models.Enrollment{
		TraineeID:             req.TraineeID,
		TraineeGroupID:        req.TraineeGroupID,
		EnrollmentDate:        req.EnrollmentDate,
		ExpiryDate:            req.ExpiryDate,
		SessionAllowed:        req.SessionAllowed,
		SubscriptionDetailsID: req.SubscriptionDetailsID,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return enrollment, nil
}

// Update modifies an existing enrollment's period or plan.
func (s *EnrollmentService) Update(ctx context.Context, id string, req EnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	enrollment.EnrollmentDate = req.EnrollmentDate
	enrollment.ExpiryDate = req.ExpiryDate
	enrollment.SessionAllowed = req.SessionAllowed
	enrollment.SubscriptionDetailsID = req.SubscriptionDetailsID
	if err := s.repo.Update(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	return enrollment, nil
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}

func (s *EnrollmentService) validateRequest(ctx context.Context, req EnrollmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if !req.EnrollmentDate.Before(req.ExpiryDate) {
		return appErrors.Clone(appErrors.ErrValidation, "enrollment date must precede expiry date")
	}
	if s.trainees != nil {
		if _, err := s.trainees.FindByID(ctx, req.TraineeID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrValidation, "trainee does not exist")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate trainee")
		}
	}
	if req.SubscriptionDetailsID != nil && s.subscriptions != nil {
		if _, err := s.subscriptions.FindByID(ctx, *req.SubscriptionDetailsID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrValidation, "subscription plan does not exist")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate subscription plan")
		}
	}
	return nil
}
