package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/taskora/taskora-backend/internal/db"
	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/types"
)

// ============================================
// Analytics Service
// ============================================

// Dashboard aggregates are cached in Redis for a short TTL; staleness up to
// the TTL is accepted.
const dashboardCacheTTL = 60 * time.Second

type AnalyticsService interface {
	OrgDashboard(ctx context.Context, userID, orgID string) (*repository.OrgDashboard, error)
	ProjectDashboard(ctx context.Context, userID, projectID string) (*repository.ProjectDashboard, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	redis         *db.RedisDB
	permission    PermissionService
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository, redis *db.RedisDB, permission PermissionService) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		redis:         redis,
		permission:    permission,
	}
}

func (s *analyticsService) OrgDashboard(ctx context.Context, userID, orgID string) (*repository.OrgDashboard, error) {
	if _, err := s.permission.RequireOrgRole(ctx, userID, orgID, types.OrgRoleMember); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:org:%s", orgID)
	if s.redis != nil {
		var cached repository.OrgDashboard
		if err := s.redis.GetCache(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	dashboard, err := s.analyticsRepo.OrgDashboard(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.SetCache(ctx, cacheKey, dashboard, dashboardCacheTTL); err != nil {
			log.Printf("[Analytics] Failed to cache org dashboard: %v", err)
		}
	}
	return dashboard, nil
}

func (s *analyticsService) ProjectDashboard(ctx context.Context, userID, projectID string) (*repository.ProjectDashboard, error) {
	if _, err := s.permission.RequireProjectAccess(ctx, userID, projectID, types.AccessView); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:project:%s", projectID)
	if s.redis != nil {
		var cached repository.ProjectDashboard
		if err := s.redis.GetCache(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	dashboard, err := s.analyticsRepo.ProjectDashboard(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.SetCache(ctx, cacheKey, dashboard, dashboardCacheTTL); err != nil {
			log.Printf("[Analytics] Failed to cache project dashboard: %v", err)
		}
	}
	return dashboard, nil
}
