package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type traineeGroupRepository interface {
	List(ctx context.Context, filter models.TraineeGroupFilter) ([]models.TraineeGroupDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.TraineeGroupDetail, error)
	Options(ctx context.Context) ([]models.TraineeGroupOption, error)
	Create(ctx context.Context, group *models.TraineeGroup, schedules []models.GroupSchedule) error
	Update(ctx context.Context, group *models.TraineeGroup, schedules []models.GroupSchedule) error
	Delete(ctx context.Context, id string) error
}

type coachFinder interface {
	FindByID(ctx context.Context, id string) (*models.CoachCard, error)
}

type occurrencePruner interface {
	DeleteScheduled(ctx context.Context, groupID string, from time.Time) (int, error)
}

// GroupScheduleInput is one weekly slot in a group payload.
type GroupScheduleInput struct {
	DayOfWeek string `json:"dayOfWeek" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// TraineeGroupRequest holds payload for creating and updating groups.
type TraineeGroupRequest struct {
	Name              string               `json:"name" validate:"required"`
	SkillLevel        string               `json:"skillLevel" validate:"required"`
	MaximumCapacity   int                  `json:"maximumCapacity" validate:"required,min=1"`
	DurationInMinutes int                  `json:"durationInMinutes" validate:"required,min=1"`
	Gender            string               `json:"gender" validate:"required,oneof=Male Female Mixed"`
	BranchID          string               `json:"branchId" validate:"required"`
	CoachID           string               `json:"coachId" validate:"required"`
	Schedules         []GroupScheduleInput `json:"schedules" validate:"required,min=1,dive"`
}

// TraineeGroupService handles trainee group use-cases.
type TraineeGroupService struct {
	repo         traineeGroupRepository
	branches     branchFinder
	coaches      coachFinder
	occurrences  occurrencePruner
	validator    *validator.Validate
	logger       *zap.Logger
	minSearchLen int
}

// NewTraineeGroupService constructs the trainee group service. occurrences may
// be nil; without it stale future sessions are left for manual regeneration.
func NewTraineeGroupService(repo traineeGroupRepository, branches branchFinder, coaches coachFinder, occurrences occurrencePruner, validate *validator.Validate, logger *zap.Logger, minSearchLen int) *TraineeGroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TraineeGroupService{repo: repo, branches: branches, coaches: coaches, occurrences: occurrences, validator: validate, logger: logger, minSearchLen: minSearchLen}
}

// List returns group details and pagination metadata.
func (s *TraineeGroupService) List(ctx context.Context, filter models.TraineeGroupFilter) ([]models.TraineeGroupDetail, *models.Pagination, error) {
	filter.Search = NormalizeSearchTerm(filter.Search, s.minSearchLen)
	groups, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainee groups")
	}
	return groups, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a group detail with its schedules.
func (s *TraineeGroupService) Get(ctx context.Context, id string) (*models.TraineeGroupDetail, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee group")
	}
	return group, nil
}

// Options returns the dropdown projection of all groups.
func (s *TraineeGroupService) Options(ctx context.Context) ([]models.TraineeGroupOption, error) {
	options, err := s.repo.Options(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group options")
	}
	return options, nil
}

// Create registers a new group with its weekly schedule.
func (s *TraineeGroupService) Create(ctx context.Context, req TraineeGroupRequest) (*models.TraineeGroupDetail, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	group := &models.TraineeGroup{
		Name:              req.Name,
		SkillLevel:        req.SkillLevel,
		Capacity:          req.MaximumCapacity,
		DurationInMinutes: req.DurationInMinutes,
		Gender:            req.Gender,
		BranchID:          req.BranchID,
		CoachID:           req.CoachID,
	}
	if err := s.repo.Create(ctx, group, scheduleModels(req.Schedules)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trainee group")
	}
	return s.Get(ctx, group.ID)
}

// Update modifies a group and replaces its weekly schedule.
func (s *TraineeGroupService) Update(ctx context.Context, id string, req TraineeGroupRequest) (*models.TraineeGroupDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee group")
	}
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	group := detail.TraineeGroup
	group.Name = req.Name
	group.SkillLevel = req.SkillLevel
	group.Capacity = req.MaximumCapacity
	group.DurationInMinutes = req.DurationInMinutes
	group.Gender = req.Gender
	group.BranchID = req.BranchID
	group.CoachID = req.CoachID
	newSchedules := scheduleModels(req.Schedules)
	scheduleChanged := !sameScheduleSlots(detail.Schedules, newSchedules)
	if err := s.repo.Update(ctx, &group, newSchedules); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trainee group")
	}
	// Replacing the weekly slots invalidates sessions generated from the old
	// ones. Retire the not-yet-held ones; completed and cancelled sessions
	// stay as the attendance record.
	if scheduleChanged && s.occurrences != nil {
		pruned, err := s.occurrences.DeleteScheduled(ctx, id, truncateToDay(time.Now()))
		if err != nil {
			s.logger.Warn("failed to prune scheduled sessions after schedule change",
				zap.String("trainee_group_id", id), zap.Error(err))
		} else if pruned > 0 {
			s.logger.Info("pruned scheduled sessions after schedule change",
				zap.String("trainee_group_id", id), zap.Int("pruned", pruned))
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a group and its schedules.
func (s *TraineeGroupService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "trainee group not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete trainee group")
	}
	return nil
}

func (s *TraineeGroupService) validateRequest(ctx context.Context, req TraineeGroupRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainee group payload")
	}
	for _, slot := range req.Schedules {
		start, err := ParseClock(slot.StartTime)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid start time %q", slot.StartTime))
		}
		end, err := ParseClock(slot.EndTime)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid end time %q", slot.EndTime))
		}
		if !start.Before(end) {
			return appErrors.Clone(appErrors.ErrValidation, "schedule start time must precede end time")
		}
	}
	if s.branches != nil {
		if _, err := s.branches.FindByID(ctx, req.BranchID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrValidation, "branch does not exist")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate branch")
		}
	}
	if s.coaches != nil {
		if _, err := s.coaches.FindByID(ctx, req.CoachID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrValidation, "coach does not exist")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate coach")
		}
	}
	return nil
}

func sameScheduleSlots(current, next []models.GroupSchedule) bool {
	if len(current) != len(next) {
		return false
	}
	slots := make(map[string]int, len(current))
	for _, s := range current {
		slots[s.DayOfWeek+"|"+s.StartTime+"|"+s.EndTime]++
	}
	for _, s := range next {
		key := s.DayOfWeek + "|" + s.StartTime + "|" + s.EndTime
		if slots[key] == 0 {
			return false
		}
		slots[key]--
	}
	return true
}

func scheduleModels(inputs []GroupScheduleInput) []models.GroupSchedule {
	schedules := make([]models.GroupSchedule, 0, len(inputs))
	for _, in := range inputs {
		schedules = append(schedules, models.GroupSchedule{
			DayOfWeek: in.DayOfWeek,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		})
	}
	return schedules
}

// ParseClock parses a wall-clock "HH:MM" string into a time anchored at the zero date.
func ParseClock(value string) (time.Time, error) {
	return time.Parse("15:04", value)
}
