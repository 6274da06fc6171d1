package quizzes

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"edudbt_backend/internals/features/learning/quizzes/dto"
	"edudbt_backend/internals/features/learning/quizzes/model"
	"edudbt_backend/internals/features/learning/quizzes/repository"
	"edudbt_backend/internals/features/learning/quizzes/service"
	helper "edudbt_backend/internals/helpers"
	"edudbt_backend/internals/infra/events"
)

// SeedQuizzesFromJSON inserts quizzes (with their questions) whose title is new.
func SeedQuizzesFromJSON(ctx context.Context, db *gorm.DB, author uuid.UUID, filePath string) (int, error) {
	log.Println("📥 Reading file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", filePath, err)
	}
	var inputs []dto.CreateQuizRequest
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	svc := service.NewQuizService(repository.NewQuizRepository(db), repository.NewAttemptRepository(db), events.Nop{}, nil)
	created := 0
	for _, in := range inputs {
		in.Normalize()
		if err := helper.Validate(&in); err != nil {
			log.Printf("❌ Invalid quiz '%s': %v", in.Title, err)
			continue
		}

		var n int64
		if err := db.WithContext(ctx).Model(&model.QuizModel{}).Where("quiz_title = ?", in.Title).Count(&n).Error; err != nil {
			return created, err
		}
		if n > 0 {
			log.Printf("ℹ️ Quiz '%s' already exists, skipped.", in.Title)
			continue
		}

		q, err := svc.CreateQuiz(ctx, author, in)
		if err != nil {
			log.Printf("❌ Failed to insert quiz '%s': %v", in.Title, err)
			continue
		}
		created++
		log.Printf("✅ Inserted quiz '%s' (%d questions)", q.QuizTitle, len(in.Questions))
	}
	return created, nil
}
