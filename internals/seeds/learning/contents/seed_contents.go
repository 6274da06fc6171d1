package contents

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"edudbt_backend/internals/features/learning/content/dto"
	"edudbt_backend/internals/features/learning/content/repository"
	"edudbt_backend/internals/features/learning/content/service"
	helper "edudbt_backend/internals/helpers"
)

// SeedContentsFromJSON inserts articles whose slug does not exist yet.
func SeedContentsFromJSON(ctx context.Context, db *gorm.DB, author uuid.UUID, filePath string) (int, error) {
	log.Println("📥 Reading file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", filePath, err)
	}
	var inputs []dto.CreateContentRequest
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	repo := repository.NewContentRepository(db)
	svc := service.NewContentService(repo)
	created := 0
	for _, in := range inputs {
		in.Normalize()
		if err := helper.Validate(&in); err != nil {
			log.Printf("❌ Invalid content '%s': %v", in.Title, err)
			continue
		}
		slug := in.Slug
		if slug == "" {
			slug = in.Title
		}
		slug = helper.Slugify(slug, 200)
		if _, err := repo.FindBySlug(ctx, slug); err == nil {
			log.Printf("ℹ️ Content '%s' already exists, skipped.", slug)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return created, err
		}

		if _, err := svc.Create(ctx, author, in); err != nil {
			log.Printf("❌ Failed to insert '%s': %v", in.Title, err)
			continue
		}
		created++
		log.Printf("✅ Inserted content '%s'", slug)
	}
	return created, nil
}
