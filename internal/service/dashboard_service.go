package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/academy-adp-api/internal/dto"
	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/internal/repository"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type dashboardRepository interface {
	Counts(ctx context.Context) (*repository.EntityCounts, error)
	TodaySessions(ctx context.Context, day time.Time) ([]models.SessionOccurrenceDetail, error)
	AttendanceRate(ctx context.Context, from, to time.Time) (float64, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL           time.Duration
	AttendanceLookback time.Duration
}

// DashboardService composes the admin dashboard payload with cache support.
// Concurrent cache misses for the same key collapse into one database pass.
type DashboardService struct {
	repo   dashboardRepository
	cache  *CacheService
	logger *zap.Logger
	group  singleflight.Group
	now    func() time.Time
	cfg    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(repo dashboardRepository, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.AttendanceLookback <= 0 {
		cfg.AttendanceLookback = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
		cfg:    cfg,
	}
}

// Admin returns the admin dashboard summary and indicates cache utilisation.
func (s *DashboardService) Admin(ctx context.Context) (*dto.AdminDashboardResponse, bool, error) {
	day := truncateToDay(s.now())
	cacheKey := "dash:admin:" + day.Format("2006-01-02")

	if s.cache != nil {
		var cached dto.AdminDashboardResponse
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			return nil, false, err
		}
		if hit {
			return &cached, true, nil
		}
	}

	value, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		summary, err := s.compose(ctx, day)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, cacheKey, summary, s.cfg.CacheTTL); err != nil {
				s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
		return summary, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value.(*dto.AdminDashboardResponse), false, nil
}

// Invalidate drops cached dashboard payloads after mutating writes.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dash:admin:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) compose(ctx context.Context, day time.Time) (*dto.AdminDashboardResponse, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard counts")
	}
	rate, err := s.repo.AttendanceRate(ctx, day.Add(-s.cfg.AttendanceLookback), day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute attendance rate")
	}
	sessions, err := s.repo.TodaySessions(ctx, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load today sessions")
	}

	today := make([]dto.DashboardSession, 0, len(sessions))
	for _, session := range sessions {
		today = append(today, dto.DashboardSession{
			ID:               session.ID,
			GroupName:        session.GroupName,
			BranchName:       session.BranchName,
			CoachName:        session.CoachName,
			StartTime:        session.StartTime,
			EndTime:          session.EndTime,
			Status:           string(session.Status),
			ExpectedTrainees: session.ExpectedTrainees,
		})
	}

	return &dto.AdminDashboardResponse{
		Counts: dto.DashboardCounts{
			Trainees:          counts.Trainees,
			Coaches:           counts.Coaches,
			Employees:         counts.Employees,
			Branches:          counts.Branches,
			TraineeGroups:     counts.TraineeGroups,
			ActiveEnrollments: counts.ActiveEnrollments,
		},
		AttendanceRate: rate,
		TodaySessions:  today,
	}, nil
}
