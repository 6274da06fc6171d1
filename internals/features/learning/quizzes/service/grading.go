package service

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"edudbt_backend/internals/features/learning/quizzes/model"
)

// Submitted is one answer as sent by the student.
type Submitted struct {
	QuestionID     uuid.UUID
	SelectedAnswer string
}

type Grade struct {
	Answers    []model.QuizAttemptAnswerItem
	Score      float64
	TotalMarks float64
	Percentage float64
	Passed     bool
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsCorrect compares trimmed, case-insensitive. Choice questions accept the
// option key or its text; short answers compare against correct_answer.
func IsCorrect(q *model.QuizQuestionModel, selected string) bool {
	selected = strings.TrimSpace(selected)
	if selected == "" {
		return false
	}
	if q.IsChoice() {
		op, ok := q.CorrectOption()
		if !ok {
			return false
		}
		return strings.EqualFold(selected, strings.TrimSpace(op.Key)) ||
			strings.EqualFold(selected, strings.TrimSpace(op.Text))
	}
	if q.QuizQuestionCorrectAnswer == nil {
		return false
	}
	return strings.EqualFold(selected, strings.TrimSpace(*q.QuizQuestionCorrectAnswer))
}

// GradeAnswers scores every question once. Unanswered questions earn 0,
// answers to unknown questions are ignored and the last answer per question wins.
func GradeAnswers(questions []model.QuizQuestionModel, submitted []Submitted, passingScore float64) Grade {
	selected := make(map[uuid.UUID]string, len(submitted))
	for _, s := range submitted {
		selected[s.QuestionID] = s.SelectedAnswer
	}

	g := Grade{Answers: make([]model.QuizAttemptAnswerItem, 0, len(questions))}
	for i := range questions {
		q := &questions[i]
		g.TotalMarks += q.QuizQuestionMarks

		ans := model.QuizAttemptAnswerItem{QuestionID: q.QuizQuestionID, SelectedAnswer: strings.TrimSpace(selected[q.QuizQuestionID])}
		if IsCorrect(q, ans.SelectedAnswer) {
			ans.IsCorrect = true
			ans.MarksObtained = q.QuizQuestionMarks
			g.Score += q.QuizQuestionMarks
		}
		g.Answers = append(g.Answers, ans)
	}

	g.Score = round2(g.Score)
	g.TotalMarks = round2(g.TotalMarks)
	if g.TotalMarks > 0 {
		g.Percentage = round2(g.Score / g.TotalMarks * 100)
	}
	g.Passed = g.Percentage >= passingScore
	return g
}
