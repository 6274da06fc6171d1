package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"edudbt_backend/internals/configs"
	chatModel "edudbt_backend/internals/features/assistant/chatbot/model"
	contentModel "edudbt_backend/internals/features/learning/content/model"
	quizModel "edudbt_backend/internals/features/learning/quizzes/model"
	applicationModel "edudbt_backend/internals/features/scholarships/applications/model"
	authModel "edudbt_backend/internals/features/users/auth/model"
	notificationModel "edudbt_backend/internals/features/users/notifications/model"
	userModel "edudbt_backend/internals/features/users/user/model"
)

func ConnectDB(cfg *configs.Config) (*gorm.DB, error) {
	log.Println("🔌 Connecting to PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseURL,
		PreferSimpleProtocol: true, // 👍 works behind PgBouncer transaction pooling
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(cfg.IsProduction()),
		TranslateError: true, // unique violations -> gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Println("✅ DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(context.Background(), db); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.TokenBlacklistModel{},
		&authModel.PasswordResetModel{},
		&notificationModel.NotificationModel{},
		&contentModel.ContentModel{},
		&quizModel.QuizModel{},
		&quizModel.QuizQuestionModel{},
		&quizModel.QuizAttemptModel{},
		&chatModel.ChatHistoryModel{},
		&applicationModel.ApplicationModel{},
	}
}

func Migrate(db *gorm.DB) error {
	log.Println("[MIGRATE] Running auto migration...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_contents_published_featured ON contents (content_is_featured, content_published_at DESC) WHERE content_is_published AND content_deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_contents_tags ON contents USING GIN (content_tags)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_questions_quiz_order ON quiz_questions (quiz_question_quiz_id, quiz_question_order)`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("migrate index: %w", err)
		}
	}
	log.Println("[MIGRATE] Done.")
	return nil
}

func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
