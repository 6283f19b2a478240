package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/taskora/taskora-backend/internal/db"
	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/socket"
)

// Scheduler handles scheduled background jobs
type Scheduler struct {
	cron        *cron.Cron
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	orgRepo     repository.OrganizationRepository
	analytics   repository.AnalyticsRepository
	redis       *db.RedisDB
	broadcaster *socket.Broadcaster
}

// NewScheduler creates a new scheduler
func NewScheduler(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	analytics repository.AnalyticsRepository,
	redis *db.RedisDB,
	broadcaster *socket.Broadcaster,
) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		orgRepo:     orgRepo,
		analytics:   analytics,
		redis:       redis,
		broadcaster: broadcaster,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every hour - overdue task sweep
	s.cron.AddFunc("0 * * * *", func() {
		log.Println("[Cron] Running overdue task check...")
		s.checkOverdueTasks()
	})

	// Run every day at 3 AM - purge expired refresh tokens
	s.cron.AddFunc("0 3 * * *", func() {
		log.Println("[Cron] Running refresh token cleanup...")
		s.cleanupExpiredTokens()
	})

	// Run every 10 minutes - warm analytics cache for active orgs
	s.cron.AddFunc("*/10 * * * *", func() {
		s.warmAnalyticsCache()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// checkOverdueTasks notifies assignees of tasks past their due date
func (s *Scheduler) checkOverdueTasks() {
	ctx := context.Background()

	tasks, err := s.taskRepo.FindOverdue(ctx)
	if err != nil {
		log.Printf("[Cron] Error finding overdue tasks: %v", err)
		return
	}

	notified := 0
	for _, task := range tasks {
		if task.AssigneeID == nil {
			continue
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastTaskOverdue(*task.AssigneeID, task.ID, task.Key)
			notified++
		}
	}

	if len(tasks) > 0 {
		log.Printf("[Cron] Overdue check complete: %d overdue, %d assignees notified", len(tasks), notified)
	}
}

// cleanupExpiredTokens removes refresh tokens past their expiry
func (s *Scheduler) cleanupExpiredTokens() {
	ctx := context.Background()

	deleted, err := s.userRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		log.Printf("[Cron] Error deleting expired refresh tokens: %v", err)
		return
	}

	if deleted > 0 {
		log.Printf("[Cron] Deleted %d expired refresh tokens", deleted)
	}
}

// warmAnalyticsCache precomputes org dashboards for recently active orgs
func (s *Scheduler) warmAnalyticsCache() {
	if s.redis == nil {
		return
	}

	ctx := context.Background()

	orgIDs, err := s.orgRepo.FindActiveIDs(ctx, 24*time.Hour)
	if err != nil {
		log.Printf("[Cron] Error finding active orgs: %v", err)
		return
	}

	for _, orgID := range orgIDs {
		dashboard, err := s.analytics.OrgDashboard(ctx, orgID)
		if err != nil {
			log.Printf("[Cron] Error computing dashboard for org %s: %v", orgID, err)
			continue
		}
		cacheKey := fmt.Sprintf("dashboard:org:%s", orgID)
		if err := s.redis.SetCache(ctx, cacheKey, dashboard, 60*time.Second); err != nil {
			log.Printf("[Cron] Error caching dashboard for org %s: %v", orgID, err)
		}
	}
}
