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

type occurrenceRepository interface {
	List(ctx context.Context, filter models.SessionOccurrenceFilter) ([]models.SessionOccurrenceDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.SessionOccurrence, error)
	ExistingDates(ctx context.Context, groupScheduleID string, from, to time.Time) (map[string]struct{}, error)
	BulkCreate(ctx context.Context, occurrences []models.SessionOccurrence) error
	UpdateStatus(ctx context.Context, id string, status models.OccurrenceStatus, attended *int) error
}

type scheduleSource interface {
	FindByID(ctx context.Context, id string) (*models.TraineeGroupDetail, error)
	Schedules(ctx context.Context, groupID string) ([]models.GroupSchedule, error)
	EnrolledCount(ctx context.Context, groupID string) (int, error)
}

// OccurrenceServiceConfig bounds schedule expansion windows.
type OccurrenceServiceConfig struct {
	DefaultDurationDays int
	MaxDurationDays     int
}

// OccurrenceService expands weekly group schedules into dated sessions and
// manages their attendance lifecycle.
type OccurrenceService struct {
	repo      occurrenceRepository
	groups    scheduleSource
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       OccurrenceServiceConfig

	now func() time.Time
}

// NewOccurrenceService constructs the occurrence service.
func NewOccurrenceService(repo occurrenceRepository, groups scheduleSource, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg OccurrenceServiceConfig) *OccurrenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultDurationDays <= 0 {
		cfg.DefaultDurationDays = 30
	}
	if cfg.MaxDurationDays <= 0 {
		cfg.MaxDurationDays = 366
	}
	return &OccurrenceService{repo: repo, groups: groups, metrics: metrics, validator: validate, logger: logger, cfg: cfg, now: time.Now}
}

// List returns occurrence details and pagination metadata.
func (s *OccurrenceService) List(ctx context.Context, filter models.SessionOccurrenceFilter) ([]models.SessionOccurrenceDetail, *models.Pagination, error) {
	occurrences, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list occurrences")
	}
	return occurrences, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a single occurrence.
func (s *OccurrenceService) Get(ctx context.Context, id string) (*models.SessionOccurrence, error) {
	occurrence, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session occurrence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session occurrence")
	}
	return occurrence, nil
}

// Generate expands a group's weekly schedule into dated occurrences covering
// durationInDays days starting at startDate, or at today (UTC) when no start
// is given. Dates already carrying an occurrence for the same schedule slot
// are skipped, so regeneration is idempotent.
func (s *OccurrenceService) Generate(ctx context.Context, req models.GenerateOccurrencesRequest) (*models.GenerateOccurrencesResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	duration := req.DurationInDays
	if duration <= 0 {
		duration = s.cfg.DefaultDurationDays
	}
	if duration > s.cfg.MaxDurationDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, "durationInDays exceeds the allowed maximum")
	}

	if _, err := s.groups.FindByID(ctx, req.TraineeGroupID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee group")
	}

	schedules, err := s.groups.Schedules(ctx, req.TraineeGroupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group schedules")
	}
	if req.GroupScheduleID != "" {
		var match []models.GroupSchedule
		for _, schedule := range schedules {
			if schedule.ID == req.GroupScheduleID {
				match = append(match, schedule)
				break
			}
		}
		if len(match) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "schedule does not belong to the trainee group")
		}
		schedules = match
	}
	if len(schedules) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trainee group has no weekly schedule")
	}

	enrolled, err := s.groups.EnrolledCount(ctx, req.TraineeGroupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrolled trainees")
	}

	startInput := req.StartDate
	if startInput.IsZero() {
		startInput = s.now()
	}
	start := truncateToDay(startInput)
	// end is the last day inside the window: duration of 7 covers exactly one week.
	end := start.AddDate(0, 0, duration-1)

	var created []models.SessionOccurrence
	skipped := 0
	for _, schedule := range schedules {
		weekday, err := models.ParseWeekday(schedule.DayOfWeek)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "group schedule holds an invalid day of week")
		}
		existing, err := s.repo.ExistingDates(ctx, schedule.ID, start, end)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing occurrence dates")
		}
		for day := firstWeekdayOnOrAfter(start, weekday); !day.After(end); day = day.AddDate(0, 0, 7) {
			if _, ok := existing[day.Format("2006-01-02")]; ok {
				skipped++
				continue
			}
			created = append(created, models.SessionOccurrence{
				TraineeGroupID:   req.TraineeGroupID,
				GroupScheduleID:  schedule.ID,
				Date:             day,
				StartTime:        schedule.StartTime,
				EndTime:          schedule.EndTime,
				Status:           models.OccurrenceScheduled,
				ExpectedTrainees: enrolled,
				AttendedTrainees: nil,
			})
		}
	}

	if err := s.repo.BulkCreate(ctx, created); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated occurrences")
	}

	if s.metrics != nil {
		s.metrics.RecordGeneratedOccurrences(len(created))
	}
	s.logger.Info("session occurrences generated",
		zap.String("trainee_group_id", req.TraineeGroupID),
		zap.Int("created", len(created)),
		zap.Int("skipped", skipped),
	)

	return &models.GenerateOccurrencesResult{
		TraineeGroupID: req.TraineeGroupID,
		StartDate:      start,
		EndDate:        end,
		Created:        len(created),
		Skipped:        skipped,
	}, nil
}

// Complete marks a scheduled session as held and records attendance.
func (s *OccurrenceService) Complete(ctx context.Context, id string, req models.CompleteOccurrenceRequest) (*models.SessionOccurrence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid completion payload")
	}
	occurrence, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if occurrence.Status != models.OccurrenceScheduled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only scheduled sessions can be completed")
	}
	if req.AttendedTrainees > occurrence.ExpectedTrainees {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attendedTrainees cannot exceed expectedTrainees")
	}
	attended := req.AttendedTrainees
	if err := s.repo.UpdateStatus(ctx, id, models.OccurrenceCompleted, &attended); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session occurrence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete session")
	}
	return s.Get(ctx, id)
}

// Cancel marks a scheduled session as cancelled. Attendance stays empty.
func (s *OccurrenceService) Cancel(ctx context.Context, id string) (*models.SessionOccurrence, error) {
	occurrence, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if occurrence.Status != models.OccurrenceScheduled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only scheduled sessions can be cancelled")
	}
	if err := s.repo.UpdateStatus(ctx, id, models.OccurrenceCancelled, nil); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session occurrence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel session")
	}
	return s.Get(ctx, id)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstWeekdayOnOrAfter(start time.Time, weekday time.Weekday) time.Time {
	offset := (int(weekday) - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}
