package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"forems-backend/db/models"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Retry configuration
const maxRetries = 3
const retryDelay = 2 * time.Minute

// Contract payments stuck in PENDING beyond this window are cancelled so a
// fresh reference can be minted on the next initiation.
const stalePaymentWindow = 30 * 24 * time.Hour

// CleanupExpiredFiles removes generated files older than the TTL
func CleanupExpiredFiles(filePath string, ttl time.Duration) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("error checking file: %v", err)
	}

	if time.Since(info.ModTime()) > ttl {
		err := os.Remove(filePath)
		if err != nil {
			return fmt.Errorf("error deleting expired file: %v", err)
		}
	}
	return nil
}

// CancelStalePendingPayments moves long-pending contract payments to CANCELLED.
// The guard on the current status keeps SUCCESSFUL rows untouched.
func CancelStalePendingPayments(db *gorm.DB) (int64, error) {
	cutoff := time.Now().Add(-stalePaymentWindow)

	res := db.Model(&models.Application{}).
		Where("contract_payment_status = ? AND contract_payment_initiated_at < ?",
			models.PendingContractPayment, cutoff).
		Update("contract_payment_status", models.CancelledContractPayment)

	return res.RowsAffected, res.Error
}

// CleanupAllExpired handles the cleanup of generated files, stale payments and Redis cache entries
func CleanupAllExpired(fileTTL time.Duration, db *gorm.DB, redisClient *redis.Client) error {
	files, err := os.ReadDir("./public/files")
	if err == nil {
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			filePath := fmt.Sprintf("./public/files/%s", file.Name())
			if err := CleanupExpiredFiles(filePath, fileTTL); err != nil {
				log.Println("Error cleaning up file:", err)
			}
		}
	}

	cancelled, err := CancelStalePendingPayments(db)
	if err != nil {
		return fmt.Errorf("error cancelling stale pending payments: %v", err)
	}
	if cancelled > 0 {
		log.Printf("cancelled %d stale pending contract payments", cancelled)
	}

	// Drop cached ranked listings so the next dashboard read recomputes
	iter := redisClient.Scan(context.Background(), 0, "applications:ranked:*", 0).Iterator()
	for iter.Next(context.Background()) {
		if err := redisClient.Del(context.Background(), iter.Val()).Err(); err != nil {
			log.Printf("error deleting cache key %s: %v", iter.Val(), err)
		}
	}
	return iter.Err()
}

// RunScheduledCleanup runs cleanup tasks daily at 1 AM with retries
func RunScheduledCleanup(db *gorm.DB, redisClient *redis.Client) {
	c := cron.New()

	c.AddFunc("0 1 * * *", func() {
		log.Println("running scheduled cleanup task...")

		var retries int
		var cleanupSuccess bool

		for retries < maxRetries {
			err := CleanupAllExpired(24*time.Hour, db, redisClient)
			if err == nil {
				cleanupSuccess = true
				break
			}
			log.Printf("cleanup failed: %v", err)
			retries++
			time.Sleep(retryDelay)
		}

		if !cleanupSuccess {
			log.Printf("cleanup task failed after %d retries. please check the system.", retries)
		}
	})

	c.Start()

	// Keep the goroutine alive so cron jobs execute
	select {}
}
