package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/dto"
	appErrors "github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/errors"
)

const occupancyCacheKey = "dash:occupancy"

type dashboardRepository interface {
	BlockOccupancies(ctx context.Context) ([]dto.BlockOccupancy, error)
	CountUnassigned(ctx context.Context) (int, error)
	CountActivePlacements(ctx context.Context) (int, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the occupancy overview shown to admins.
type DashboardService struct {
	repo   dashboardRepository
	cache  *CacheService
	logger *zap.Logger
	cfg    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(repo dashboardRepository, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger, cfg: cfg}
}

// Occupancy returns the occupancy summary and indicates cache utilisation.
func (s *DashboardService) Occupancy(ctx context.Context) (*dto.OccupancySummary, bool, error) {
	if s.cache != nil {
		var cached dto.OccupancySummary
		hit, err := s.cache.Get(ctx, occupancyCacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	summary, err := s.composeOccupancy(ctx)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, occupancyCacheKey, summary, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("occupancy cache write failed", zap.Error(err))
		}
	}
	return summary, false, nil
}

// InvalidateOccupancy drops the cached summary. Called after placement
// mutations so the dashboard never serves stale counts beyond the TTL.
func (s *DashboardService) InvalidateOccupancy(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, occupancyCacheKey); err != nil {
		s.logger.Warn("occupancy cache invalidate failed", zap.Error(err))
	}
}

func (s *DashboardService) composeOccupancy(ctx context.Context) (*dto.OccupancySummary, error) {
	blocks, err := s.repo.BlockOccupancies(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block occupancy")
	}
	unassigned, err := s.repo.CountUnassigned(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unassigned students")
	}
	active, err := s.repo.CountActivePlacements(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count placements")
	}

	summary := &dto.OccupancySummary{
		UnassignedCount:  unassigned,
		ActivePlacements: active,
		Blocks:           blocks,
	}
	for _, b := range blocks {
		summary.TotalCapacity += b.TotalCapacity
		summary.TotalOccupied += b.Occupied
	}
	return summary, nil
}
