package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type mockOccurrenceRepo struct {
	occurrences map[string]models.SessionOccurrence
	existing    map[string]map[string]struct{}
	created     []models.SessionOccurrence
	statusCalls []string
}

func (m *mockOccurrenceRepo) List(ctx context.Context, filter models.SessionOccurrenceFilter) ([]models.SessionOccurrenceDetail, int, error) {
	details := make([]models.SessionOccurrenceDetail, 0, len(m.occurrences))
	for _, o := range m.occurrences {
		details = append(details, models.SessionOccurrenceDetail{SessionOccurrence: o})
	}
	return details, len(details), nil
}

func (m *mockOccurrenceRepo) FindByID(ctx context.Context, id string) (*models.SessionOccurrence, error) {
	if o, ok := m.occurrences[id]; ok {
		return &o, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockOccurrenceRepo) ExistingDates(ctx context.Context, groupScheduleID string, from, to time.Time) (map[string]struct{}, error) {
	if dates, ok := m.existing[groupScheduleID]; ok {
		return dates, nil
	}
	return map[string]struct{}{}, nil
}

func (m *mockOccurrenceRepo) BulkCreate(ctx context.Context, occurrences []models.SessionOccurrence) error {
	m.created = append(m.created, occurrences...)
	return nil
}

func (m *mockOccurrenceRepo) UpdateStatus(ctx context.Context, id string, status models.OccurrenceStatus, attended *int) error {
	o, ok := m.occurrences[id]
	if !ok {
		return sql.ErrNoRows
	}
	o.Status = status
	o.AttendedTrainees = attended
	m.occurrences[id] = o
	m.statusCalls = append(m.statusCalls, id+":"+string(status))
	return nil
}

type mockScheduleSource struct {
	groups    map[string]models.TraineeGroupDetail
	schedules map[string][]models.GroupSchedule
	enrolled  map[string]int
}

func (m *mockScheduleSource) FindByID(ctx context.Context, id string) (*models.TraineeGroupDetail, error) {
	if g, ok := m.groups[id]; ok {
		return &g, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleSource) Schedules(ctx context.Context, groupID string) ([]models.GroupSchedule, error) {
	return m.schedules[groupID], nil
}

func (m *mockScheduleSource) EnrolledCount(ctx context.Context, groupID string) (int, error) {
	return m.enrolled[groupID], nil
}

func newOccurrenceFixture() (*mockOccurrenceRepo, *mockScheduleSource, *OccurrenceService) {
	repo := &mockOccurrenceRepo{occurrences: map[string]models.SessionOccurrence{}, existing: map[string]map[string]struct{}{}}
	groups := &mockScheduleSource{
		groups: map[string]models.TraineeGroupDetail{
			"g1": {TraineeGroup: models.TraineeGroup{ID: "g1", Name: "U12 Football"}},
		},
		schedules: map[string][]models.GroupSchedule{},
		enrolled:  map[string]int{"g1": 14},
	}
	svc := NewOccurrenceService(repo, groups, nil, validator.New(), zap.NewNop(), OccurrenceServiceConfig{})
	return repo, groups, svc
}

func TestOccurrenceGenerateOneWeekWindow(t *testing.T) {
	repo, groups, svc := newOccurrenceFixture()
	groups.schedules["g1"] = []models.GroupSchedule{
		{ID: "s1", TraineeGroupID: "g1", DayOfWeek: models.WeekdayMonday, StartTime: "17:00", EndTime: "18:30"},
		{ID: "s2", TraineeGroupID: "g1", DayOfWeek: models.WeekdayThursday, StartTime: "17:00", EndTime: "18:30"},
	}

	// 2026-09-07 is a Monday.
	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	result, err := svc.Generate(context.Background(), models.GenerateOccurrencesRequest{
		TraineeGroupID: "g1",
		StartDate:      start,
		DurationInDays: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, repo.created, 2)
	assert.Equal(t, time.Monday, repo.created[0].Date.Weekday())
	assert.Equal(t, time.Thursday, repo.created[1].Date.Weekday())
	for _, o := range repo.created {
		assert.False(t, o.Date.Before(start))
		assert.False(t, o.Date.After(start.AddDate(0, 0, 6)))
		assert.Equal(t, models.OccurrenceScheduled, o.Status)
		assert.Equal(t, 14, o.ExpectedTrainees)
		assert.Nil(t, o.AttendedTrainees)
	}
}

func TestOccurrenceGenerateStartsMidWeek(t *testing.T) {
	repo, groups, svc := newOccurrenceFixture()
	groups.schedules["g1"] = []models.GroupSchedule{
		{ID: "s1", TraineeGroupID: "g1", DayOfWeek: models.WeekdayWednesday, StartTime: "09:00", EndTime: "10:00"},
	}

	// 2026-09-10 is a Thursday, so the first Wednesday falls six days later.
	start := time.Date(2026, 9, 10, 15, 30, 0, 0, time.UTC)
	result, err := svc.Generate(context.Background(), models.GenerateOccurrencesRequest{
		TraineeGroupID: "g1",
		StartDate:      start,
		DurationInDays: 14,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	require.Len(t, repo.created, 2)
	assert.Equal(t, "2026-09-16", repo.created[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2026-09-23", repo.created[1].Date.Format("2006-01-02"))
	// Time-of-day on the start date must not shift the window.
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), result.StartDate)
}

func TestOccurrenceGenerateSkipsExistingDates(t *testing.T) {
	repo, groups, svc := newOccurrenceFixture()
	groups.schedules["g1"] = []models.GroupSchedule{
		{ID: "s1", TraineeGroupID: "g1", DayOfWeek: models.WeekdayMonday, StartTime: "17:00", EndTime: "18:30"},
	}
	repo.existing["s1"] = map[string]struct{}{
		"2026-09-07": {},
		"2026-09-14": {},
	}

	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	result, err := svc.Generate(context.Background(), models.GenerateOccurrencesRequest{
		TraineeGroupID: "g1",
		StartDate:      start,
		DurationInDays: 21,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "2026-09-21", repo.created[0].Date.Format("2006-01-02"))
}

func TestOccurrenceGenerateDefaultDuration(t *testing.T) {
	repo, groups, svc := newOccurrenceFixture()
	groups.schedules["g1"] = []models.GroupSchedule{
		{ID: "s1", TraineeGroupID: "g1", DayOfWeek: models.WeekdaySaturday, StartTime: "08:00", EndTime: "09:00"},
	}

	start := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC) // Saturday
	result, err := svc.Generate(context.Background(), models.GenerateOccurrencesRequest{
		TraineeGroupID: "g1",
		StartDate:      start,
	})
	require.NoError(t, err)

	// Default window is 30 days: Saturdays on days 0, 7, 14, 21 and 28.
	assert.Equal(t, 5, result.Created)
	assert.Len(t, repo.created, 5)
}

func TestOccurrenceGenerateDefaultsStartDateToToday(t *testing.T) {
	repo, groups, svc := newOccurrenceFixture()
	groups.schedules["g1"] = []models.GroupSchedule{
		{ID: "s1", TraineeGroupID: "g1", DayOfWeek: models.WeekdayMonday, StartTime: "17:00", EndTime: "18:30"},
	}
	// 2026-09-07 is a Monday.
	svc.now = func() time.Time { return time.Date(2026, 9, 7, 11, 45, 0, 0, time.UTC) }

	result, err := svc.Generate(context.Background(), models.GenerateOccurrencesRequest{
		TraineeGroupID: "g1",
		DurationInDays: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), result.StartDate)
	assert.Equal(t, 1, result.Created)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "2026-09-07", repo.created[0].Date.Format("2006-01-02"))
}

func TestOccurrenceGenerateSingleSchedule(t *testing.T) {
	repo, groups, svc := newOccurrenceFixture()
	groups.schedules["g1"] = []models.GroupSchedule{
		{ID: "s1", TraineeGroupID: "g1", DayOfWeek: models.WeekdayMonday, StartTime: "17:00", EndTime: "18:30"},
		{ID: "s2", TraineeGroupID: "g1", DayOfWeek: models.WeekdayThursday, StartTime: "17:00", EndTime: "18:30"},
	}

	result, err := svc.Generate(context.Background(), models.GenerateOccurrencesRequest{
		TraineeGroupID:  "g1",
		GroupScheduleID: "s2",
		StartDate:       time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		DurationInDays:  7,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "s2", repo.created[0].GroupScheduleID)
	assert.Equal(t, time.Thursday, repo.created[0].Date.Weekday())
}

func TestOccurrenceGenerateForeignSchedule(t *testing.T) {
	_, groups, svc := newOccurrenceFixture()
	groups.schedules["g1"] = []models.GroupSchedule{
		{ID: "s1", TraineeGroupID: "g1", DayOfWeek: models.WeekdayMonday, StartTime: "17:00", EndTime: "18:00"},
	}

	_, err := svc.Generate(context.Background(), models.GenerateOccurrencesRequest{
		TraineeGroupID:  "g1",
		GroupScheduleID: "other-group-slot",
		StartDate:       time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		DurationInDays:  7,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOccurrenceGenerateRejectsOversizedWindow(t *testing.T) {
	_, groups, svc := newOccurrenceFixture()
	groups.schedules["g1"] = []models.GroupSchedule{
		{ID: "s1", TraineeGroupID: "g1", DayOfWeek: models.WeekdayMonday, StartTime: "17:00", EndTime: "18:00"},
	}

	_, err := svc.Generate(context.Background(), models.GenerateOccurrencesRequest{
		TraineeGroupID: "g1",
		StartDate:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		DurationInDays: 1000,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOccurrenceGenerateNoSchedules(t *testing.T) {
	_, _, svc := newOccurrenceFixture()

	_, err := svc.Generate(context.Background(), models.GenerateOccurrencesRequest{
		TraineeGroupID: "g1",
		StartDate:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		DurationInDays: 7,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOccurrenceGenerateUnknownGroup(t *testing.T) {
	_, _, svc := newOccurrenceFixture()

	_, err := svc.Generate(context.Background(), models.GenerateOccurrencesRequest{
		TraineeGroupID: "missing",
		StartDate:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		DurationInDays: 7,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestOccurrenceComplete(t *testing.T) {
	repo, _, svc := newOccurrenceFixture()
	repo.occurrences["o1"] = models.SessionOccurrence{ID: "o1", Status: models.OccurrenceScheduled, ExpectedTrainees: 12}

	updated, err := svc.Complete(context.Background(), "o1", models.CompleteOccurrenceRequest{AttendedTrainees: 10})
	require.NoError(t, err)
	assert.Equal(t, models.OccurrenceCompleted, updated.Status)
	require.NotNil(t, updated.AttendedTrainees)
	assert.Equal(t, 10, *updated.AttendedTrainees)
}

func TestOccurrenceCompleteRejectsOverAttendance(t *testing.T) {
	repo, _, svc := newOccurrenceFixture()
	repo.occurrences["o1"] = models.SessionOccurrence{ID: "o1", Status: models.OccurrenceScheduled, ExpectedTrainees: 12}

	_, err := svc.Complete(context.Background(), "o1", models.CompleteOccurrenceRequest{AttendedTrainees: 13})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.statusCalls)
}

func TestOccurrenceCompleteRejectsNonScheduled(t *testing.T) {
	repo, _, svc := newOccurrenceFixture()
	repo.occurrences["o1"] = models.SessionOccurrence{ID: "o1", Status: models.OccurrenceCancelled}

	_, err := svc.Complete(context.Background(), "o1", models.CompleteOccurrenceRequest{AttendedTrainees: 5})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.statusCalls)
}

func TestOccurrenceCancel(t *testing.T) {
	repo, _, svc := newOccurrenceFixture()
	repo.occurrences["o1"] = models.SessionOccurrence{ID: "o1", Status: models.OccurrenceScheduled}

	updated, err := svc.Cancel(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, models.OccurrenceCancelled, updated.Status)
	assert.Nil(t, updated.AttendedTrainees)
}

func TestOccurrenceCancelRejectsCompleted(t *testing.T) {
	repo, _, svc := newOccurrenceFixture()
	attended := 8
	repo.occurrences["o1"] = models.SessionOccurrence{ID: "o1", Status: models.OccurrenceCompleted, AttendedTrainees: &attended}

	_, err := svc.Cancel(context.Background(), "o1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
