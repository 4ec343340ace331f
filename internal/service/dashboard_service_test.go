package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

type memoryCacheRepo struct {
	entries map[string][]byte
	sets    int
	deletes int
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	delete(m.entries, pattern)
	m.deletes++
	return nil
}

type mockDashboardRepo struct {
	blocks     []dto.BlockOccupancy
	unassigned int
	active     int
	queries    int
}

func (m *mockDashboardRepo) BlockOccupancies(ctx context.Context) ([]dto.BlockOccupancy, error) {
	m.queries++
	return m.blocks, nil
}

func (m *mockDashboardRepo) CountUnassigned(ctx context.Context) (int, error) {
	return m.unassigned, nil
}

func (m *mockDashboardRepo) CountActivePlacements(ctx context.Context) (int, error) {
	return m.active, nil
}

func TestDashboardOccupancyAggregates(t *testing.T) {
	repo := &mockDashboardRepo{
		blocks: []dto.BlockOccupancy{
			{BlockID: "b1", BlockCode: "A", TotalCapacity: 40, Occupied: 32},
			{BlockID: "b2", BlockCode: "B", TotalCapacity: 24, Occupied: 10},
		},
		unassigned: 7,
		active:     42,
	}
	svc := NewDashboardService(repo, nil, zap.NewNop(), DashboardServiceConfig{})

	summary, cached, err := svc.Occupancy(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 64, summary.TotalCapacity)
	assert.Equal(t, 42, summary.TotalOccupied)
	assert.Equal(t, 7, summary.UnassignedCount)
	assert.Equal(t, 42, summary.ActivePlacements)
}

func TestDashboardOccupancyUsesCache(t *testing.T) {
	repo := &mockDashboardRepo{
		blocks: []dto.BlockOccupancy{{BlockID: "b1", BlockCode: "A", TotalCapacity: 40, Occupied: 32}},
	}
	cacheRepo := &memoryCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(repo, cache, zap.NewNop(), DashboardServiceConfig{CacheTTL: time.Minute})

	_, cached, err := svc.Occupancy(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	summary, cached, err := svc.Occupancy(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 40, summary.TotalCapacity)
	assert.Equal(t, 1, repo.queries)
}

func TestDashboardInvalidateOccupancy(t *testing.T) {
	repo := &mockDashboardRepo{
		blocks: []dto.BlockOccupancy{{BlockID: "b1", BlockCode: "A", TotalCapacity: 40, Occupied: 32}},
	}
	cacheRepo := &memoryCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(repo, cache, zap.NewNop(), DashboardServiceConfig{CacheTTL: time.Minute})

	_, _, err := svc.Occupancy(context.Background())
	require.NoError(t, err)
	svc.InvalidateOccupancy(context.Background())

	_, cached, err := svc.Occupancy(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, repo.queries)
}
