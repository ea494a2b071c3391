package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/internal/repository"
	appErrors "github.com/noah-isme/academy-adp-api/pkg/errors"
)

type mockDashboardRepo struct {
	countsCalls int32
	gate        chan struct{}
	sessions    []models.SessionOccurrenceDetail
}

func (m *mockDashboardRepo) Counts(ctx context.Context) (*repository.EntityCounts, error) {
	atomic.AddInt32(&m.countsCalls, 1)
	if m.gate != nil {
		<-m.gate
	}
	return &repository.EntityCounts{Trainees: 120, Coaches: 8, Employees: 25, Branches: 3, TraineeGroups: 14, ActiveEnrollments: 96}, nil
}

func (m *mockDashboardRepo) TodaySessions(ctx context.Context, day time.Time) ([]models.SessionOccurrenceDetail, error) {
	return m.sessions, nil
}

func (m *mockDashboardRepo) AttendanceRate(ctx context.Context, from, to time.Time) (float64, error) {
	return 0.87, nil
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string][]byte{}
	return nil
}

func newDashboardFixture(repo *mockDashboardRepo, withCache bool) (*memoryCacheRepo, *DashboardService) {
	var store *memoryCacheRepo
	var cache *CacheService
	if withCache {
		store = newMemoryCacheRepo()
		cache = NewCacheService(store, nil, time.Minute, zap.NewNop(), true)
	}
	svc := NewDashboardService(repo, cache, zap.NewNop(), DashboardServiceConfig{CacheTTL: time.Minute})
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC) }
	return store, svc
}

func TestDashboardAdminCacheMissThenHit(t *testing.T) {
	repo := &mockDashboardRepo{sessions: []models.SessionOccurrenceDetail{
		{SessionOccurrence: models.SessionOccurrence{ID: "o1", ExpectedTrainees: 14}, GroupName: "U12 Football"},
	}}
	_, svc := newDashboardFixture(repo, true)

	first, cached, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 120, first.Counts.Trainees)
	assert.Equal(t, 0.87, first.AttendanceRate)
	require.Len(t, first.TodaySessions, 1)
	assert.Equal(t, "U12 Football", first.TodaySessions[0].GroupName)

	second, cached, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.Counts, second.Counts)
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.countsCalls))
}

func TestDashboardAdminWithoutCache(t *testing.T) {
	repo := &mockDashboardRepo{}
	_, svc := newDashboardFixture(repo, false)

	_, cached, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = svc.Admin(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int32(2), atomic.LoadInt32(&repo.countsCalls))
}

func TestDashboardInvalidateForcesRecompute(t *testing.T) {
	repo := &mockDashboardRepo{}
	_, svc := newDashboardFixture(repo, true)

	_, _, err := svc.Admin(context.Background())
	require.NoError(t, err)
	svc.Invalidate(context.Background())

	_, cached, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int32(2), atomic.LoadInt32(&repo.countsCalls))
}

func TestDashboardConcurrentMissesCollapse(t *testing.T) {
	repo := &mockDashboardRepo{gate: make(chan struct{})}
	_, svc := newDashboardFixture(repo, false)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Admin(context.Background())
			assert.NoError(t, err)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(repo.gate)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.countsCalls))
}
