package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/luct-reporting-api/internal/models"
	appErrors "github.com/noah-isme/luct-reporting-api/pkg/errors"
)

const (
	dashboardCacheKey = "monitoring:dashboard"
	recentLimit       = 10
)

type monitoringStore interface {
	DashboardCounts(ctx context.Context) (*models.DashboardCounts, error)
	RecentReports(ctx context.Context, limit int) ([]models.RecentReport, error)
	StreamStats(ctx context.Context) ([]models.StreamStats, error)
}

type recentRatings interface {
	ListRecent(ctx context.Context, limit int) ([]models.RatingView, error)
}

// MonitoringService builds the PL dashboard and activity feeds.
type MonitoringService struct {
	repo    monitoringStore
	ratings recentRatings
	cache   *CacheService
	logger  *zap.Logger
}

// NewMonitoringService constructs the service.
func NewMonitoringService(repo monitoringStore, ratings recentRatings, cache *CacheService, logger *zap.Logger) *MonitoringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonitoringService{repo: repo, ratings: ratings, cache: cache, logger: logger}
}

// Dashboard returns portal totals. The boolean reports whether the cache served them.
func (s *MonitoringService) Dashboard(ctx context.Context) (*models.DashboardCounts, bool, error) {
	var cached models.DashboardCounts
	if hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}
	counts, err := s.repo.DashboardCounts(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to load dashboard")
	}
	_ = s.cache.Set(ctx, dashboardCacheKey, counts, 0)
	return counts, false, nil
}

// Recent returns the latest reports and ratings.
func (s *MonitoringService) Recent(ctx context.Context) (*models.RecentActivity, error) {
	reports, err := s.repo.RecentReports(ctx, recentLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load recent reports")
	}
	ratings, err := s.ratings.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load recent ratings")
	}
	if reports == nil {
		reports = []models.RecentReport{}
	}
	if ratings == nil {
		ratings = []models.RatingView{}
	}
	return &models.RecentActivity{Reports: reports, Ratings: ratings}, nil
}

// StreamStats returns per-stream totals.
func (s *MonitoringService) StreamStats(ctx context.Context) ([]models.StreamStats, error) {
	stats, err := s.repo.StreamStats(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load stream statistics")
	}
	if stats == nil {
		stats = []models.StreamStats{}
	}
	return stats, nil
}
