package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type mockSportRepo struct {
	sports map[string]models.Sport
	levels map[string][]models.SkillLevel
}

func (m *mockSportRepo) List(ctx context.Context, filter models.SportFilter) ([]models.Sport, int, error) {
	sports := make([]models.Sport, 0, len(m.sports))
	for _, s := range m.sports {
		sports = append(sports, s)
	}
	return sports, len(sports), nil
}

func (m *mockSportRepo) FindByID(ctx context.Context, id string) (*models.SportDetail, error) {
	sport, ok := m.sports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.SportDetail{Sport: sport, SkillLevels: m.levels[id]}, nil
}

func (m *mockSportRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for id, s := range m.sports {
		if id != excludeID && strings.EqualFold(s.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSportRepo) Create(ctx context.Context, sport *models.Sport, skillLevels []string) error {
	if sport.ID == "" {
		sport.ID = fmt.Sprintf("sport-%d", len(m.sports)+1)
	}
	m.sports[sport.ID] = *sport
	for _, name := range skillLevels {
		m.levels[sport.ID] = append(m.levels[sport.ID], models.SkillLevel{
			ID:      fmt.Sprintf("lvl-%d", len(m.levels[sport.ID])+1),
			SportID: sport.ID,
			Name:    name,
		})
	}
	return nil
}

func (m *mockSportRepo) Update(ctx context.Context, sport *models.Sport, skillLevels []string) error {
	if _, ok := m.sports[sport.ID]; !ok {
		return sql.ErrNoRows
	}
	m.sports[sport.ID] = *sport
	if skillLevels != nil {
		m.levels[sport.ID] = nil
		for _, name := range skillLevels {
			m.levels[sport.ID] = append(m.levels[sport.ID], models.SkillLevel{SportID: sport.ID, Name: name})
		}
	}
	return nil
}

func (m *mockSportRepo) AddSkillLevel(ctx context.Context, sportID, name string) (*models.SkillLevel, error) {
	level := models.SkillLevel{
		ID:        fmt.Sprintf("lvl-%d", len(m.levels[sportID])+1),
		SportID:   sportID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	m.levels[sportID] = append(m.levels[sportID], level)
	return &level, nil
}

func (m *mockSportRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.sports[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.sports, id)
	delete(m.levels, id)
	return nil
}

func newSportFixture() (*mockSportRepo, *SportService) {
	repo := &mockSportRepo{
		sports: map[string]models.Sport{
			"s1": {ID: "s1", Name: "Football", Category: models.SportCategoryTeam},
		},
		levels: map[string][]models.SkillLevel{
			"s1": {
				{ID: "l1", SportID: "s1", Name: "Beginner"},
				{ID: "l2", SportID: "s1", Name: "Intermediate"},
			},
		},
	}
	return repo, NewSportService(repo, validator.New(), zap.NewNop(), 2)
}

func TestSportCreate(t *testing.T) {
	repo, svc := newSportFixture()

	sport, err := svc.Create(context.Background(), SportRequest{
		Name:        "Swimming",
		Category:    "Individual",
		SkillLevels: []string{"Beginner", "Advanced"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Swimming", sport.Name)
	assert.Len(t, sport.SkillLevels, 2)
	assert.Len(t, repo.sports, 2)
}

func TestSportCreateDuplicateName(t *testing.T) {
	_, svc := newSportFixture()

	_, err := svc.Create(context.Background(), SportRequest{Name: "football", Category: "Team"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSportAddSkillLevel(t *testing.T) {
	_, svc := newSportFixture()

	level, err := svc.AddSkillLevel(context.Background(), "s1", SkillLevelRequest{Name: "Advanced"})
	require.NoError(t, err)
	assert.Equal(t, "s1", level.SportID)
	assert.Equal(t, "Advanced", level.Name)

	detail, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, detail.SkillLevels, 3)
}

func TestSportAddSkillLevelDuplicate(t *testing.T) {
	_, svc := newSportFixture()

	_, err := svc.AddSkillLevel(context.Background(), "s1", SkillLevelRequest{Name: "beginner"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSportAddSkillLevelUnknownSport(t *testing.T) {
	_, svc := newSportFixture()

	_, err := svc.AddSkillLevel(context.Background(), "missing", SkillLevelRequest{Name: "Beginner"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSportUpdateMissing(t *testing.T) {
	_, svc := newSportFixture()

	_, err := svc.Update(context.Background(), "missing", SportRequest{Name: "Tennis", Category: "Individual"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
