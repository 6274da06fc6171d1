package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizQuestionType string

const (
	QuizQuestionTypeMultipleChoice QuizQuestionType = "multiple_choice"
	QuizQuestionTypeTrueFalse      QuizQuestionType = "true_false"
	QuizQuestionTypeShortAnswer    QuizQuestionType = "short_answer"
)

// QuestionOption is one entry of a choice question's jsonb option list.
type QuestionOption struct {
	Key       string `json:"key"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizQuestionModel struct {
	QuizQuestionID            uuid.UUID                           `gorm:"column:quiz_question_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"quiz_question_id"`
	QuizQuestionQuizID        uuid.UUID                           `gorm:"column:quiz_question_quiz_id;type:uuid;not null;index" json:"quiz_question_quiz_id"`
	QuizQuestionOrder         int                                 `gorm:"column:quiz_question_order;not null;default:0" json:"quiz_question_order"`
	QuizQuestionType          QuizQuestionType                    `gorm:"column:quiz_question_type;type:varchar(20);not null" json:"quiz_question_type"`
	QuizQuestionText          string                              `gorm:"column:quiz_question_text;type:text;not null" json:"quiz_question_text"`
	QuizQuestionOptions       datatypes.JSONSlice[QuestionOption] `gorm:"column:quiz_question_options;type:jsonb;not null;default:'[]'" json:"quiz_question_options"`
	QuizQuestionCorrectAnswer *string                             `gorm:"column:quiz_question_correct_answer;type:text" json:"quiz_question_correct_answer,omitempty"`
	QuizQuestionMarks         float64                             `gorm:"column:quiz_question_marks;type:numeric(6,2);not null;default:1" json:"quiz_question_marks"`
	QuizQuestionExplanation   *string                             `gorm:"column:quiz_question_explanation;type:text" json:"quiz_question_explanation,omitempty"`
	QuizQuestionCreatedAt     time.Time                           `gorm:"column:quiz_question_created_at;autoCreateTime" json:"quiz_question_created_at"`
	QuizQuestionUpdatedAt     time.Time                           `gorm:"column:quiz_question_updated_at;autoUpdateTime" json:"quiz_question_updated_at"`
}

func (QuizQuestionModel) TableName() string { return "quiz_questions" }

// ------------------------
// Helpers
// ------------------------

func (m *QuizQuestionModel) IsChoice() bool {
	return m.QuizQuestionType == QuizQuestionTypeMultipleChoice || m.QuizQuestionType == QuizQuestionTypeTrueFalse
}

// CorrectOption returns the option flagged is_correct, if any.
func (m *QuizQuestionModel) CorrectOption() (QuestionOption, bool) {
	for _, op := range m.QuizQuestionOptions {
		if op.IsCorrect {
			return op, true
		}
	}
	return QuestionOption{}, false
}

// CorrectAnswerText is what gets revealed after grading.
func (m *QuizQuestionModel) CorrectAnswerText() string {
	if m.IsChoice() {
		if op, ok := m.CorrectOption(); ok {
			return op.Text
		}
		return ""
	}
	if m.QuizQuestionCorrectAnswer != nil {
		return *m.QuizQuestionCorrectAnswer
	}
	return ""
}

// ValidateShape mirrors the checks a question must pass before it is stored.
func (m *QuizQuestionModel) ValidateShape() error {
	if strings.TrimSpace(m.QuizQuestionText) == "" {
		return errors.New("question text is required")
	}
	if m.QuizQuestionMarks < 1 {
		return errors.New("marks must be at least 1")
	}
	switch m.QuizQuestionType {
	case QuizQuestionTypeMultipleChoice, QuizQuestionTypeTrueFalse:
		if len(m.QuizQuestionOptions) < 2 {
			return errors.New("at least 2 options are required")
		}
		correct := 0
		seen := map[string]struct{}{}
		for _, op := range m.QuizQuestionOptions {
			if strings.TrimSpace(op.Text) == "" || strings.TrimSpace(op.Key) == "" {
				return errors.New("option key and text must not be empty")
			}
			k := strings.ToLower(strings.TrimSpace(op.Key))
			if _, dup := seen[k]; dup {
				return errors.New("option keys must be unique")
			}
			seen[k] = struct{}{}
			if op.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return errors.New("exactly one option must have is_correct=true")
		}
		if m.QuizQuestionType == QuizQuestionTypeTrueFalse && len(m.QuizQuestionOptions) != 2 {
			return errors.New("true_false questions have exactly 2 options")
		}
	case QuizQuestionTypeShortAnswer:
		if m.QuizQuestionCorrectAnswer == nil || strings.TrimSpace(*m.QuizQuestionCorrectAnswer) == "" {
			return errors.New("short_answer questions need correct_answer")
		}
	default:
		return errors.New("question_type must be multiple_choice, true_false or short_answer")
	}
	return nil
}
