package jobs

import (
	"context"
	"time"

	"remino/cmd/internal/utils"

	"github.com/labstack/gommon/log"
)

const CleanInterval = 1 * time.Hour

type TokenRepository interface {
	DeleteExpired(before int64) (int64, error)
}

// TokenCleaner forgets revoked tokens that would be rejected anyway for being expired.
type TokenCleaner struct {
	tokenRepo TokenRepository
}

func NewTokenCleaner(repo TokenRepository) *TokenCleaner {
	return &TokenCleaner{tokenRepo: repo}
}

func (c *TokenCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(CleanInterval)
	defer ticker.Stop()

	log.Info("Revoked token cleaner cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping revoked token cleaner...")
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *TokenCleaner) cleanup() {
	now := utils.NowUTC()

	n, err := c.tokenRepo.DeleteExpired(now)
	if err != nil {
		log.Errorf("Cleaner: failed to delete expired revoked tokens: %v", err)
		return
	}

	log.Debugf("Cleaner: swept %d revoked tokens expired before %d", n, now)
}
