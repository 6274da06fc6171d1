package scheduler

import (
	"context"
	"log"
	"time"

	chatRepo "edudbt_backend/internals/features/assistant/chatbot/repository"
)

// StartChatCleanupScheduler deletes expired chat sessions every interval until ctx is cancelled.
func StartChatCleanupScheduler(ctx context.Context, repo chatRepo.ChatRepository, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			RunChatCleanup(ctx, repo)
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] chat cleanup stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

func RunChatCleanup(ctx context.Context, repo chatRepo.ChatRepository) int64 {
	n, err := repo.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("[CLEANUP ERROR] chat cleanup failed: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d expired chat sessions deleted", n)
	}
	return n
}
