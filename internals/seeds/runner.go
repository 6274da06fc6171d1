package seeds

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edudbt_backend/internals/configs"
	userRepo "edudbt_backend/internals/features/users/user/repository"
	"edudbt_backend/internals/seeds/learning/contents"
	"edudbt_backend/internals/seeds/learning/quizzes"
	"edudbt_backend/internals/seeds/users/admin"
)

// RunAllSeeds is idempotent: rows that already exist are skipped.
func RunAllSeeds(ctx context.Context, db *gorm.DB, cfg *configs.Config, dataDir string) error {
	//* User
	if err := admin.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	var author uuid.UUID
	if u, err := userRepo.NewUserRepository(db).FindByEmail(ctx, strings.ToLower(strings.TrimSpace(cfg.AdminEmail))); err == nil {
		author = u.ID
	} else if !errors.Is(err, userRepo.ErrNotFound) {
		return err
	}

	//* Learning
	n, err := contents.SeedContentsFromJSON(ctx, db, author, filepath.Join(dataDir, "learning/contents/data_contents.json"))
	if err != nil {
		return err
	}
	log.Printf("[SEED] %d content items inserted", n)

	n, err = quizzes.SeedQuizzesFromJSON(ctx, db, author, filepath.Join(dataDir, "learning/quizzes/data_quizzes.json"))
	if err != nil {
		return err
	}
	log.Printf("[SEED] %d quizzes inserted", n)
	return nil
}
