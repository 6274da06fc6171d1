package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"edudbt_backend/internals/features/learning/quizzes/model"
)

func choice(text string, marks float64, correctKey string) model.QuizQuestionModel {
	opts := []model.QuestionOption{
		{Key: "a", Text: "Option A"},
		{Key: "b", Text: "Option B"},
		{Key: "c", Text: "Option C"},
	}
	for i := range opts {
		opts[i].IsCorrect = opts[i].Key == correctKey
	}
	return model.QuizQuestionModel{
		QuizQuestionID:      uuid.New(),
		QuizQuestionType:    model.QuizQuestionTypeMultipleChoice,
		QuizQuestionText:    text,
		QuizQuestionOptions: datatypes.JSONSlice[model.QuestionOption](opts),
		QuizQuestionMarks:   marks,
	}
}

func shortAnswer(text, answer string, marks float64) model.QuizQuestionModel {
	return model.QuizQuestionModel{
		QuizQuestionID:            uuid.New(),
		QuizQuestionType:          model.QuizQuestionTypeShortAnswer,
		QuizQuestionText:          text,
		QuizQuestionCorrectAnswer: &answer,
		QuizQuestionMarks:         marks,
	}
}

func TestIsCorrect(t *testing.T) {
	q := choice("Which is right?", 1, "b")
	assert.True(t, IsCorrect(&q, "b"))
	assert.True(t, IsCorrect(&q, " B "))
	assert.True(t, IsCorrect(&q, "option b"))
	assert.False(t, IsCorrect(&q, "a"))
	assert.False(t, IsCorrect(&q, ""))

	sa := shortAnswer("Full form of DBT?", "Direct Benefit Transfer", 1)
	assert.True(t, IsCorrect(&sa, "  direct benefit transfer "))
	assert.False(t, IsCorrect(&sa, "direct benefit"))
}

func TestGradeAnswers(t *testing.T) {
	q1 := choice("q1", 2, "a")
	q2 := choice("q2", 1, "c")
	q3 := shortAnswer("q3", "NPCI", 1)
	questions := []model.QuizQuestionModel{q1, q2, q3}

	g := GradeAnswers(questions, []Submitted{
		{QuestionID: q1.QuizQuestionID, SelectedAnswer: "a"},
		{QuestionID: q2.QuizQuestionID, SelectedAnswer: "b"},
		{QuestionID: uuid.New(), SelectedAnswer: "ignored"},
	}, 60)

	assert.Equal(t, 2.0, g.Score)
	assert.Equal(t, 4.0, g.TotalMarks)
	assert.Equal(t, 50.0, g.Percentage)
	assert.False(t, g.Passed)
	assert.Len(t, g.Answers, 3)
	assert.True(t, g.Answers[0].IsCorrect)
	assert.Equal(t, 2.0, g.Answers[0].MarksObtained)
	assert.False(t, g.Answers[1].IsCorrect)
	assert.Equal(t, "", g.Answers[2].SelectedAnswer)
	assert.Zero(t, g.Answers[2].MarksObtained)
}

func TestGradeAnswersRoundsAndPassesAtThreshold(t *testing.T) {
	qs := []model.QuizQuestionModel{choice("a", 1, "a"), choice("b", 1, "a"), choice("c", 1, "a")}
	g := GradeAnswers(qs, []Submitted{
		{QuestionID: qs[0].QuizQuestionID, SelectedAnswer: "a"},
		{QuestionID: qs[1].QuizQuestionID, SelectedAnswer: "a"},
	}, 66.67)
	assert.Equal(t, 66.67, g.Percentage)
	assert.True(t, g.Passed)

	empty := GradeAnswers(nil, nil, 60)
	assert.Zero(t, empty.Percentage)
	assert.False(t, empty.Passed)
}
