package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizAttemptStatus string

const (
	QuizAttemptInProgress QuizAttemptStatus = "in_progress"
	QuizAttemptCompleted  QuizAttemptStatus = "completed"
)

// QuizAttemptAnswerItem is one graded answer stored inside the attempt row.
type QuizAttemptAnswerItem struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	MarksObtained  float64   `json:"marks_obtained"`
}

type QuizAttemptModel struct {
	QuizAttemptID               uuid.UUID                                  `gorm:"column:quiz_attempt_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"quiz_attempt_id"`
	QuizAttemptUserID           uuid.UUID                                  `gorm:"column:quiz_attempt_user_id;type:uuid;not null;index:idx_quiz_attempts_user_quiz,priority:1" json:"quiz_attempt_user_id"`
	QuizAttemptQuizID           uuid.UUID                                  `gorm:"column:quiz_attempt_quiz_id;type:uuid;not null;index:idx_quiz_attempts_user_quiz,priority:2" json:"quiz_attempt_quiz_id"`
	QuizAttemptStatus           QuizAttemptStatus                          `gorm:"column:quiz_attempt_status;type:varchar(12);not null;default:'in_progress'" json:"quiz_attempt_status"`
	QuizAttemptAnswers          datatypes.JSONSlice[QuizAttemptAnswerItem] `gorm:"column:quiz_attempt_answers;type:jsonb;not null;default:'[]'" json:"quiz_attempt_answers"`
	QuizAttemptScore            float64                                    `gorm:"column:quiz_attempt_score;type:numeric(8,2);not null;default:0" json:"quiz_attempt_score"`
	QuizAttemptTotalMarks       float64                                    `gorm:"column:quiz_attempt_total_marks;type:numeric(8,2);not null;default:0" json:"quiz_attempt_total_marks"`
	QuizAttemptPercentage       float64                                    `gorm:"column:quiz_attempt_percentage;type:numeric(5,2);not null;default:0" json:"quiz_attempt_percentage"`
	QuizAttemptPassed           bool                                       `gorm:"column:quiz_attempt_passed;not null;default:false" json:"quiz_attempt_passed"`
	QuizAttemptTimeTakenSeconds int                                        `gorm:"column:quiz_attempt_time_taken_seconds;not null;default:0" json:"quiz_attempt_time_taken_seconds"`
	QuizAttemptStartedAt        time.Time                                  `gorm:"column:quiz_attempt_started_at;not null" json:"quiz_attempt_started_at"`
	QuizAttemptCompletedAt      *time.Time                                 `gorm:"column:quiz_attempt_completed_at" json:"quiz_attempt_completed_at,omitempty"`
}

func (QuizAttemptModel) TableName() string { return "quiz_attempts" }

func (m *QuizAttemptModel) IsCompleted() bool { return m.QuizAttemptStatus == QuizAttemptCompleted }
