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

type mockGroupRepo struct {
	groups    map[string]models.TraineeGroupDetail
	schedules map[string][]models.GroupSchedule
}

func (m *mockGroupRepo) List(ctx context.Context, filter models.TraineeGroupFilter) ([]models.TraineeGroupDetail, int, error) {
	details := make([]models.TraineeGroupDetail, 0, len(m.groups))
	for _, g := range m.groups {
		details = append(details, g)
	}
	return details, len(details), nil
}

func (m *mockGroupRepo) FindByID(ctx context.Context, id string) (*models.TraineeGroupDetail, error) {
	if g, ok := m.groups[id]; ok {
		return &g, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGroupRepo) Options(ctx context.Context) ([]models.TraineeGroupOption, error) {
	options := make([]models.TraineeGroupOption, 0, len(m.groups))
	for _, g := range m.groups {
		options = append(options, models.TraineeGroupOption{ID: g.ID, Name: g.Name})
	}
	return options, nil
}

func (m *mockGroupRepo) Create(ctx context.Context, group *models.TraineeGroup, schedules []models.GroupSchedule) error {
	if group.ID == "" {
		group.ID = "generated"
	}
	if m.groups == nil {
		m.groups = make(map[string]models.TraineeGroupDetail)
	}
	if m.schedules == nil {
		m.schedules = make(map[string][]models.GroupSchedule)
	}
	m.groups[group.ID] = models.TraineeGroupDetail{TraineeGroup: *group, Schedules: schedules}
	m.schedules[group.ID] = schedules
	return nil
}

func (m *mockGroupRepo) Update(ctx context.Context, group *models.TraineeGroup, schedules []models.GroupSchedule) error {
	if _, ok := m.groups[group.ID]; !ok {
		return sql.ErrNoRows
	}
	m.groups[group.ID] = models.TraineeGroupDetail{TraineeGroup: *group, Schedules: schedules}
	m.schedules[group.ID] = schedules
	return nil
}

func (m *mockGroupRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.groups[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.groups, id)
	return nil
}

type mockBranchFinder struct{ branches map[string]models.Branch }

func (m *mockBranchFinder) FindByID(ctx context.Context, id string) (*models.Branch, error) {
	if b, ok := m.branches[id]; ok {
		return &b, nil
	}
	return nil, sql.ErrNoRows
}

type mockCoachFinder struct{ coaches map[string]models.CoachCard }

func (m *mockCoachFinder) FindByID(ctx context.Context, id string) (*models.CoachCard, error) {
	if c, ok := m.coaches[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type mockSessionPruner struct {
	calls  []time.Time
	pruned int
}

func (m *mockSessionPruner) DeleteScheduled(ctx context.Context, groupID string, from time.Time) (int, error) {
	m.calls = append(m.calls, from)
	return m.pruned, nil
}

func newGroupFixture() (*mockGroupRepo, *TraineeGroupService) {
	repo, _, svc := newGroupFixtureWithPruner()
	return repo, svc
}

func newGroupFixtureWithPruner() (*mockGroupRepo, *mockSessionPruner, *TraineeGroupService) {
	repo := &mockGroupRepo{groups: map[string]models.TraineeGroupDetail{}, schedules: map[string][]models.GroupSchedule{}}
	branches := &mockBranchFinder{branches: map[string]models.Branch{"b1": {ID: "b1", Name: "Downtown"}}}
	coaches := &mockCoachFinder{coaches: map[string]models.CoachCard{"c1": {CoachID: "c1"}}}
	pruner := &mockSessionPruner{pruned: 2}
	svc := NewTraineeGroupService(repo, branches, coaches, pruner, validator.New(), zap.NewNop(), 2)
	return repo, pruner, svc
}

func validGroupRequest() TraineeGroupRequest {
	return TraineeGroupRequest{
		Name:              "U12 Football",
		SkillLevel:        "Beginner",
		MaximumCapacity:   20,
		DurationInMinutes: 90,
		Gender:            "Mixed",
		BranchID:          "b1",
		CoachID:           "c1",
		Schedules: []GroupScheduleInput{
			{DayOfWeek: "MONDAY", StartTime: "17:00", EndTime: "18:30"},
			{DayOfWeek: "THURSDAY", StartTime: "17:00", EndTime: "18:30"},
		},
	}
}

func TestTraineeGroupCreate(t *testing.T) {
	repo, svc := newGroupFixture()

	group, err := svc.Create(context.Background(), validGroupRequest())
	require.NoError(t, err)
	assert.Equal(t, "U12 Football", group.Name)
	assert.Equal(t, 20, group.Capacity)
	assert.Len(t, repo.schedules[group.ID], 2)
}

func TestTraineeGroupCreateRequiresSchedule(t *testing.T) {
	_, svc := newGroupFixture()

	req := validGroupRequest()
	req.Schedules = nil
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTraineeGroupCreateRejectsInvertedSlot(t *testing.T) {
	_, svc := newGroupFixture()

	req := validGroupRequest()
	req.Schedules = []GroupScheduleInput{{DayOfWeek: "MONDAY", StartTime: "18:30", EndTime: "17:00"}}
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTraineeGroupCreateRejectsBadClock(t *testing.T) {
	_, svc := newGroupFixture()

	req := validGroupRequest()
	req.Schedules = []GroupScheduleInput{{DayOfWeek: "MONDAY", StartTime: "25:99", EndTime: "26:00"}}
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTraineeGroupCreateUnknownCoach(t *testing.T) {
	_, svc := newGroupFixture()

	req := validGroupRequest()
	req.CoachID = "missing"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTraineeGroupUpdateReplacesSchedules(t *testing.T) {
	repo, svc := newGroupFixture()
	created, err := svc.Create(context.Background(), validGroupRequest())
	require.NoError(t, err)

	req := validGroupRequest()
	req.Schedules = []GroupScheduleInput{{DayOfWeek: "SATURDAY", StartTime: "08:00", EndTime: "09:30"}}
	updated, err := svc.Update(context.Background(), created.ID, req)
	require.NoError(t, err)
	require.Len(t, repo.schedules[updated.ID], 1)
	assert.Equal(t, "SATURDAY", repo.schedules[updated.ID][0].DayOfWeek)
}

func TestTraineeGroupUpdatePrunesScheduledSessions(t *testing.T) {
	_, pruner, svc := newGroupFixtureWithPruner()
	created, err := svc.Create(context.Background(), validGroupRequest())
	require.NoError(t, err)

	req := validGroupRequest()
	req.Schedules = []GroupScheduleInput{{DayOfWeek: "SATURDAY", StartTime: "08:00", EndTime: "09:30"}}
	_, err = svc.Update(context.Background(), created.ID, req)
	require.NoError(t, err)

	require.Len(t, pruner.calls, 1)
	from := pruner.calls[0]
	assert.Equal(t, time.UTC, from.Location())
	assert.Equal(t, 0, from.Hour())
	assert.False(t, from.Before(time.Now().UTC().AddDate(0, 0, -1)))
}

func TestTraineeGroupUpdateKeepsSessionsWhenSlotsUnchanged(t *testing.T) {
	_, pruner, svc := newGroupFixtureWithPruner()
	created, err := svc.Create(context.Background(), validGroupRequest())
	require.NoError(t, err)

	req := validGroupRequest()
	req.Name = "U12 Football B"
	_, err = svc.Update(context.Background(), created.ID, req)
	require.NoError(t, err)

	assert.Empty(t, pruner.calls)
}

func TestTraineeGroupUpdateMissing(t *testing.T) {
	_, svc := newGroupFixture()

	_, err := svc.Update(context.Background(), "missing", validGroupRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTraineeGroupDeleteMissing(t *testing.T) {
	_, svc := newGroupFixture()

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
