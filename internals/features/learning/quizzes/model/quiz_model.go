package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	DefaultPassingScore = 60
)

type QuizModel struct {
	QuizID               uuid.UUID      `gorm:"column:quiz_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"quiz_id"`
	QuizTitle            string         `gorm:"column:quiz_title;type:varchar(200);not null" json:"quiz_title"`
	QuizDescription      string         `gorm:"column:quiz_description;type:text" json:"quiz_description"`
	QuizCategory         string         `gorm:"column:quiz_category;type:varchar(20);not null;index" json:"quiz_category"`
	QuizDifficulty       string         `gorm:"column:quiz_difficulty;type:varchar(10);not null;default:'easy'" json:"quiz_difficulty"`
	QuizTimeLimitMinutes int            `gorm:"column:quiz_time_limit_minutes;not null;default:0" json:"quiz_time_limit_minutes"`
	QuizPassingScore     float64        `gorm:"column:quiz_passing_score;type:numeric(5,2);not null;default:60" json:"quiz_passing_score"`
	QuizIsActive         bool           `gorm:"column:quiz_is_active;not null;default:true" json:"quiz_is_active"`
	QuizCreatedBy        *uuid.UUID     `gorm:"column:quiz_created_by;type:uuid" json:"quiz_created_by,omitempty"`
	QuizCreatedAt        time.Time      `gorm:"column:quiz_created_at;autoCreateTime" json:"quiz_created_at"`
	QuizUpdatedAt        time.Time      `gorm:"column:quiz_updated_at;autoUpdateTime" json:"quiz_updated_at"`
	QuizDeletedAt        gorm.DeletedAt `gorm:"column:quiz_deleted_at;index" json:"-"`

	Questions []QuizQuestionModel `gorm:"foreignKey:QuizQuestionQuizID;references:QuizID" json:"-"`
}

func (QuizModel) TableName() string { return "quizzes" }
