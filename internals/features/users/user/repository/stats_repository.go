package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStats aggregates what the dashboard shows next to the profile.
type UserStats struct {
	QuizzesAttempted  int64            `json:"quizzes_attempted"`
	QuizzesPassed     int64            `json:"quizzes_passed"`
	AveragePercentage float64          `json:"average_percentage"`
	BestPercentage    float64          `json:"best_percentage"`
	ChatSessions      int64            `json:"chat_sessions"`
	Applications      map[string]int64 `json:"applications"`
}

type StatsRepository interface {
	ForUser(ctx context.Context, userID uuid.UUID, now time.Time) (*UserStats, error)
}

type gormStatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &gormStatsRepository{db: db}
}

func (r *gormStatsRepository) ForUser(ctx context.Context, userID uuid.UUID, now time.Time) (*UserStats, error) {
	db := r.db.WithContext(ctx)
	out := &UserStats{Applications: map[string]int64{}}

	var quiz struct {
		Attempted int64
		Passed    int64
		Average   float64
		Best      float64
	}
	if err := db.Raw(`
		SELECT COUNT(*) AS attempted,
		       COUNT(*) FILTER (WHERE quiz_attempt_passed) AS passed,
		       COALESCE(ROUND(AVG(quiz_attempt_percentage), 2), 0) AS average,
		       COALESCE(MAX(quiz_attempt_percentage), 0) AS best
		FROM quiz_attempts
		WHERE quiz_attempt_user_id = ? AND quiz_attempt_status = 'completed'`, userID).
		Scan(&quiz).Error; err != nil {
		return nil, err
	}
	out.QuizzesAttempted = quiz.Attempted
	out.QuizzesPassed = quiz.Passed
	out.AveragePercentage = quiz.Average
	out.BestPercentage = quiz.Best

	if err := db.Table("chat_histories").
		Where("chat_user_id = ? AND chat_expires_at > ?", userID, now).
		Count(&out.ChatSessions).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Total  int64
	}
	if err := db.Table("applications").
		Select("application_status AS status, COUNT(*) AS total").
		Where("application_user_id = ? AND application_deleted_at IS NULL", userID).
		Group("application_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out.Applications[r.Status] = r.Total
	}
	return out, nil
}
