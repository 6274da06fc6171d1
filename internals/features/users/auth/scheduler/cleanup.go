package scheduler

import (
	"context"
	"log"
	"time"

	authRepo "edudbt_backend/internals/features/users/auth/repository"
)

// StartTokenCleanupScheduler purges expired blacklist entries and spent
// password resets every interval until ctx is cancelled.
func StartTokenCleanupScheduler(ctx context.Context, repo authRepo.TokenRepository, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			RunTokenCleanup(ctx, repo)
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] token cleanup stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

func RunTokenCleanup(ctx context.Context, repo authRepo.TokenRepository) {
	log.Println("[CLEANUP] Running token_blacklist / password_resets cleanup...")
	bl, pr, err := repo.CleanupExpired(ctx, time.Now().UTC(), false)
	if err != nil {
		log.Printf("[CLEANUP ERROR] token cleanup failed: %v", err)
		return
	}
	if bl+pr == 0 {
		log.Println("[CLEANUP] Nothing to delete")
		return
	}
	log.Printf("[CLEANUP] %d blacklisted tokens, %d password resets deleted", bl, pr)
}
