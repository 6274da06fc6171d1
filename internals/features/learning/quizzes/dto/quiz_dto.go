package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"edudbt_backend/internals/features/learning/quizzes/model"
)

/* =========================
   Requests
========================= */

type OptionRequest struct {
	Key       string `json:"key" validate:"max=10"`
	Text      string `json:"text" validate:"required,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	QuestionType  string          `json:"question_type" validate:"required,oneof=multiple_choice true_false short_answer"`
	Text          string          `json:"question_text" validate:"required,max=2000"`
	Options       []OptionRequest `json:"options" validate:"max=10,dive"`
	CorrectAnswer *string         `json:"correct_answer" validate:"omitempty,max=500"`
	Marks         float64         `json:"marks" validate:"gte=0,lte=100"`
	Explanation   *string         `json:"explanation" validate:"omitempty,max=2000"`
	Order         int             `json:"order_index" validate:"gte=0"`
}

func (r *QuestionRequest) Normalize() {
	r.QuestionType = strings.ToLower(strings.TrimSpace(r.QuestionType))
	r.Text = strings.TrimSpace(r.Text)
	for i := range r.Options {
		r.Options[i].Text = strings.TrimSpace(r.Options[i].Text)
		r.Options[i].Key = strings.ToLower(strings.TrimSpace(r.Options[i].Key))
		if r.Options[i].Key == "" && i < 26 {
			r.Options[i].Key = string(rune('a' + i))
		}
	}
	if r.Marks == 0 {
		r.Marks = 1
	}
}

// ToModel builds the row; order falls back to fallbackOrder when the request leaves it at 0.
func (r QuestionRequest) ToModel(quizID uuid.UUID, fallbackOrder int) model.QuizQuestionModel {
	opts := make([]model.QuestionOption, 0, len(r.Options))
	for _, o := range r.Options {
		opts = append(opts, model.QuestionOption{Key: o.Key, Text: o.Text, IsCorrect: o.IsCorrect})
	}
	order := r.Order
	if order == 0 {
		order = fallbackOrder
	}
	q := model.QuizQuestionModel{
		QuizQuestionQuizID:      quizID,
		QuizQuestionOrder:       order,
		QuizQuestionType:        model.QuizQuestionType(r.QuestionType),
		QuizQuestionText:        r.Text,
		QuizQuestionOptions:     datatypes.JSONSlice[model.QuestionOption](opts),
		QuizQuestionMarks:       r.Marks,
		QuizQuestionExplanation: r.Explanation,
	}
	if r.CorrectAnswer != nil {
		v := strings.TrimSpace(*r.CorrectAnswer)
		q.QuizQuestionCorrectAnswer = &v
	}
	if !q.IsChoice() {
		q.QuizQuestionOptions = datatypes.JSONSlice[model.QuestionOption]{}
	}
	return q
}

type CreateQuizRequest struct {
	Title            string            `json:"title" validate:"required,min=3,max=200"`
	Description      string            `json:"description" validate:"max=2000"`
	Category         string            `json:"category" validate:"required,oneof=aadhaar dbt scholarship general"`
	Difficulty       string            `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TimeLimitMinutes int               `json:"time_limit_minutes" validate:"gte=0,lte=240"`
	PassingScore     *float64          `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	IsActive         *bool             `json:"is_active"`
	Questions        []QuestionRequest `json:"questions" validate:"max=100,dive"`
}

func (r *CreateQuizRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	for i := range r.Questions {
		r.Questions[i].Normalize()
	}
}

type UpdateQuizRequest struct {
	Title            *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description      *string  `json:"description" validate:"omitempty,max=2000"`
	Category         *string  `json:"category" validate:"omitempty,oneof=aadhaar dbt scholarship general"`
	Difficulty       *string  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TimeLimitMinutes *int     `json:"time_limit_minutes" validate:"omitempty,gte=0,lte=240"`
	PassingScore     *float64 `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	IsActive         *bool    `json:"is_active"`
}

// UpdateQuestionRequest replaces the listed fields; options are replaced as a whole.
type UpdateQuestionRequest struct {
	QuestionType  *string          `json:"question_type" validate:"omitempty,oneof=multiple_choice true_false short_answer"`
	Text          *string          `json:"question_text" validate:"omitempty,min=1,max=2000"`
	Options       *[]OptionRequest `json:"options" validate:"omitempty,max=10,dive"`
	CorrectAnswer *string          `json:"correct_answer" validate:"omitempty,max=500"`
	Marks         *float64         `json:"marks" validate:"omitempty,gt=0,lte=100"`
	Explanation   *string          `json:"explanation" validate:"omitempty,max=2000"`
	Order         *int             `json:"order_index" validate:"omitempty,gte=0"`
}

type AnswerItem struct {
	QuestionID     string `json:"question_id" validate:"required,uuid"`
	SelectedAnswer string `json:"selected_answer" validate:"max=1000"`
}

type SubmitQuizRequest struct {
	AttemptID        string       `json:"attempt_id" validate:"omitempty,uuid"`
	Answers          []AnswerItem `json:"answers" validate:"max=200,dive"`
	TimeTakenSeconds int          `json:"time_taken_seconds" validate:"gte=0"`
}

/* =========================
   Responses
========================= */

type QuizResponse struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Difficulty       string    `json:"difficulty"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	PassingScore     float64   `json:"passing_score"`
	IsActive         bool      `json:"is_active"`
	QuestionCount    int64     `json:"question_count"`
	TotalMarks       float64   `json:"total_marks"`
	CreatedAt        time.Time `json:"created_at"`
}

func FromQuiz(q *model.QuizModel, count int64, totalMarks float64) QuizResponse {
	return QuizResponse{
		ID:               q.QuizID,
		Title:            q.QuizTitle,
		Description:      q.QuizDescription,
		Category:         q.QuizCategory,
		Difficulty:       q.QuizDifficulty,
		TimeLimitMinutes: q.QuizTimeLimitMinutes,
		PassingScore:     q.QuizPassingScore,
		IsActive:         q.QuizIsActive,
		QuestionCount:    count,
		TotalMarks:       totalMarks,
		CreatedAt:        q.QuizCreatedAt,
	}
}

type OptionResponse struct {
	Key       string `json:"key"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

type QuestionResponse struct {
	ID            uuid.UUID        `json:"id"`
	Order         int              `json:"order_index"`
	QuestionType  string           `json:"question_type"`
	Text          string           `json:"question_text"`
	Options       []OptionResponse `json:"options"`
	Marks         float64          `json:"marks"`
	CorrectAnswer *string          `json:"correct_answer,omitempty"`
	Explanation   *string          `json:"explanation,omitempty"`
}

// FromQuestion hides the answer key unless withKey is set.
func FromQuestion(q *model.QuizQuestionModel, withKey bool) QuestionResponse {
	opts := make([]OptionResponse, 0, len(q.QuizQuestionOptions))
	for _, o := range q.QuizQuestionOptions {
		or := OptionResponse{Key: o.Key, Text: o.Text}
		if withKey {
			v := o.IsCorrect
			or.IsCorrect = &v
		}
		opts = append(opts, or)
	}
	out := QuestionResponse{
		ID:           q.QuizQuestionID,
		Order:        q.QuizQuestionOrder,
		QuestionType: string(q.QuizQuestionType),
		Text:         q.QuizQuestionText,
		Options:      opts,
		Marks:        q.QuizQuestionMarks,
	}
	if withKey {
		out.CorrectAnswer = q.QuizQuestionCorrectAnswer
		out.Explanation = q.QuizQuestionExplanation
	}
	return out
}

func FromQuestions(rows []model.QuizQuestionModel, withKey bool) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromQuestion(&rows[i], withKey))
	}
	return out
}

type QuestionResult struct {
	QuestionID     uuid.UUID `json:"question_id"`
	QuestionText   string    `json:"question_text,omitempty"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	MarksObtained  float64   `json:"marks_obtained"`
	Marks          float64   `json:"marks,omitempty"`
	CorrectAnswer  string    `json:"correct_answer,omitempty"`
	Explanation    *string   `json:"explanation,omitempty"`
}

type AttemptResponse struct {
	ID               uuid.UUID        `json:"id"`
	QuizID           uuid.UUID        `json:"quiz_id"`
	Status           string           `json:"status"`
	Score            float64          `json:"score"`
	TotalMarks       float64          `json:"total_marks"`
	Percentage       float64          `json:"percentage"`
	Passed           bool             `json:"passed"`
	TimeTakenSeconds int              `json:"time_taken_seconds"`
	StartedAt        time.Time        `json:"started_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	Results          []QuestionResult `json:"results,omitempty"`
}

func FromAttempt(a *model.QuizAttemptModel) AttemptResponse {
	return AttemptResponse{
		ID:               a.QuizAttemptID,
		QuizID:           a.QuizAttemptQuizID,
		Status:           string(a.QuizAttemptStatus),
		Score:            a.QuizAttemptScore,
		TotalMarks:       a.QuizAttemptTotalMarks,
		Percentage:       a.QuizAttemptPercentage,
		Passed:           a.QuizAttemptPassed,
		TimeTakenSeconds: a.QuizAttemptTimeTakenSeconds,
		StartedAt:        a.QuizAttemptStartedAt,
		CompletedAt:      a.QuizAttemptCompletedAt,
	}
}

func FromAttempts(rows []model.QuizAttemptModel) []AttemptResponse {
	out := make([]AttemptResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromAttempt(&rows[i]))
	}
	return out
}

// WithResults joins the stored answers back to their questions so the key can be revealed.
func WithResults(a *model.QuizAttemptModel, questions []model.QuizQuestionModel) AttemptResponse {
	out := FromAttempt(a)
	byID := make(map[uuid.UUID]*model.QuizQuestionModel, len(questions))
	for i := range questions {
		byID[questions[i].QuizQuestionID] = &questions[i]
	}
	out.Results = make([]QuestionResult, 0, len(a.QuizAttemptAnswers))
	for _, ans := range a.QuizAttemptAnswers {
		r := QuestionResult{
			QuestionID:     ans.QuestionID,
			SelectedAnswer: ans.SelectedAnswer,
			IsCorrect:      ans.IsCorrect,
			MarksObtained:  ans.MarksObtained,
		}
		if q, ok := byID[ans.QuestionID]; ok {
			r.QuestionText = q.QuizQuestionText
			r.Marks = q.QuizQuestionMarks
			r.CorrectAnswer = q.CorrectAnswerText()
			r.Explanation = q.QuizQuestionExplanation
		}
		out.Results = append(out.Results, r)
	}
	return out
}

type StartQuizResponse struct {
	AttemptID uuid.UUID          `json:"attempt_id"`
	StartedAt time.Time          `json:"started_at"`
	Quiz      QuizResponse       `json:"quiz"`
	Questions []QuestionResponse `json:"questions"`
}
