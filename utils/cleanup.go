package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"epi-compliance-backend/config"
	"epi-compliance-backend/db/models"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Retry configuration
const maxRetries = 3
const retryDelay = 2 * time.Minute

// DashboardCacheResource is the resource prefix of every cached dashboard key.
const DashboardCacheResource = "epi_dashboard"

// CleanupExpiredFiles removes a generated report file once it is older than the TTL
func CleanupExpiredFiles(filePath string, ttl time.Duration) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("error checking file: %v", err)
	}

	if time.Since(info.ModTime()) > ttl {
		if err := os.Remove(filePath); err != nil {
			return fmt.Errorf("error deleting expired file: %v", err)
		}
		config.Logger.Info("Expired report file deleted", zap.String("path", filePath))
	}
	return nil
}

// CleanupFinishedImportJobs deletes done import jobs (and their items) older
// than the retention window. Running jobs are never touched.
func CleanupFinishedImportJobs(deps *CleanupDeps, retention time.Duration) error {
	cutoff := time.Now().Add(-retention)

	var jobs []models.ImportJob
	if err := deps.DB.
		Where("status = ? AND finished_at IS NOT NULL AND finished_at < ?", models.ImportJobDone, cutoff).
		Find(&jobs).Error; err != nil {
		return fmt.Errorf("error listing expired import jobs: %v", err)
	}

	for _, job := range jobs {
		if err := deps.DB.Where("job_id = ?", job.ID).Delete(&models.ImportItem{}).Error; err != nil {
			return fmt.Errorf("error deleting items of job %s: %v", job.ID, err)
		}
		if err := deps.DB.Delete(&job).Error; err != nil {
			return fmt.Errorf("error deleting job %s: %v", job.ID, err)
		}
	}

	if len(jobs) > 0 {
		config.Logger.Info("Expired import jobs purged", zap.Int("count", len(jobs)))
	}
	return nil
}

// CleanupAllExpired handles the cleanup of report files, finished import jobs
// and dashboard cache entries.
func CleanupAllExpired(deps *CleanupDeps, fileTTL time.Duration) error {
	files, err := os.ReadDir(reportDir)
	if err == nil {
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			filePath := fmt.Sprintf("%s/%s", reportDir, file.Name())
			if err := CleanupExpiredFiles(filePath, fileTTL); err != nil {
				config.Logger.Warn("Error cleaning up report file", zap.Error(err))
			}
		}
	}

	if err := CleanupFinishedImportJobs(deps, deps.JobRetention); err != nil {
		return err
	}

	if err := InvalidateCache(context.Background(), deps.Redis, DashboardCacheResource); err != nil {
		return fmt.Errorf("error cleaning up dashboard cache: %v", err)
	}

	return nil
}

// CleanupDeps carries what the scheduled cleanup needs.
type CleanupDeps struct {
	DB           *gorm.DB
	Redis        *redis.Client
	JobRetention time.Duration
}

// RunScheduledCleanup runs cleanup tasks daily at 1 AM with retries.
func RunScheduledCleanup(deps *CleanupDeps) {
	c := cron.New()

	c.AddFunc("0 1 * * *", func() {
		config.Logger.Info("running scheduled cleanup task...")

		var retries int
		for retries < maxRetries {
			err := CleanupAllExpired(deps, 24*time.Hour)
			if err == nil {
				config.Logger.Info("cleanup successful")
				return
			}
			config.Logger.Warn("cleanup failed", zap.Int("attempt", retries+1), zap.Error(err))
			retries++
			time.Sleep(retryDelay)
		}

		config.Logger.Error("cleanup task failed after retries", zap.Int("retries", retries))
	})

	c.Start()
}
