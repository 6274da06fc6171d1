package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/learning/quizzes/dto"
	"edudbt_backend/internals/features/learning/quizzes/model"
	"edudbt_backend/internals/features/learning/quizzes/repository"
	notificationRepo "edudbt_backend/internals/features/users/notifications/repository"
	notificationService "edudbt_backend/internals/features/users/notifications/service"
	helper "edudbt_backend/internals/helpers"
	"edudbt_backend/internals/infra/events"
)

type fixture struct {
	svc           *QuizService
	quizzes       *repository.MemoryQuizRepository
	attempts      *repository.MemoryAttemptRepository
	events        *events.Recorder
	notifications *notificationRepo.MemoryNotificationRepository
}

func newFixture() *fixture {
	f := &fixture{
		quizzes:       repository.NewMemoryQuizRepository(),
		attempts:      repository.NewMemoryAttemptRepository(),
		events:        &events.Recorder{},
		notifications: notificationRepo.NewMemoryNotificationRepository(),
	}
	f.svc = NewQuizService(f.quizzes, f.attempts, f.events, notificationService.NewNotificationService(f.notifications))
	return f
}

func codeOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return 0
}

// twelveQuestionQuiz: 12 questions, 1 mark each, 60% to pass.
func (f *fixture) twelveQuestionQuiz(t *testing.T) (*model.QuizModel, []model.QuizQuestionModel) {
	t.Helper()
	req := dto.CreateQuizRequest{Title: "DBT basics", Category: "dbt"}
	for i := 0; i < 12; i++ {
		if i%3 == 2 {
			ans := "NPCI"
			req.Questions = append(req.Questions, dto.QuestionRequest{
				QuestionType: "short_answer", Text: fmt.Sprintf("Question %d", i+1), CorrectAnswer: &ans,
			})
			continue
		}
		req.Questions = append(req.Questions, dto.QuestionRequest{
			QuestionType: "multiple_choice",
			Text:         fmt.Sprintf("Question %d", i+1),
			Options: []dto.OptionRequest{
				{Text: "Yes", IsCorrect: true},
				{Text: "No"},
			},
		})
	}
	req.Normalize()
	q, err := f.svc.CreateQuiz(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	questions, err := f.quizzes.Questions(context.Background(), q.QuizID)
	require.NoError(t, err)
	require.Len(t, questions, 12)
	return q, questions
}

func allCorrect(questions []model.QuizQuestionModel) []dto.AnswerItem {
	out := make([]dto.AnswerItem, 0, len(questions))
	for i := range questions {
		out = append(out, dto.AnswerItem{QuestionID: questions[i].QuizQuestionID.String(), SelectedAnswer: questions[i].CorrectAnswerText()})
	}
	return out
}

func TestSubmitAllCorrect(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, questions := f.twelveQuestionQuiz(t)
	assert.Equal(t, 60.0, q.QuizPassingScore)
	user := uuid.New()

	res, err := f.svc.Submit(ctx, user, q.QuizID, dto.SubmitQuizRequest{Answers: allCorrect(questions), TimeTakenSeconds: 300})
	require.NoError(t, err)
	assert.Equal(t, 12.0, res.Score)
	assert.Equal(t, 12.0, res.TotalMarks)
	assert.Equal(t, 100.0, res.Percentage)
	assert.True(t, res.Passed)
	assert.Equal(t, "completed", res.Status)
	require.Len(t, res.Results, 12)
	assert.NotEmpty(t, res.Results[0].CorrectAnswer)

	assert.Equal(t, []string{events.QuizAttemptCompleted}, f.events.Types())
	unread, err := f.notifications.CountUnread(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestSubmitTwiceReturnsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, questions := f.twelveQuestionQuiz(t)
	user := uuid.New()

	started, err := f.svc.Start(ctx, user, q.QuizID)
	require.NoError(t, err)
	for _, qq := range started.Questions {
		for _, o := range qq.Options {
			assert.Nil(t, o.IsCorrect)
		}
		assert.Nil(t, qq.CorrectAnswer)
	}

	half := allCorrect(questions)[:6]
	req := dto.SubmitQuizRequest{AttemptID: started.AttemptID.String(), Answers: half}
	first, err := f.svc.Submit(ctx, user, q.QuizID, req)
	require.NoError(t, err)
	assert.Equal(t, 6.0, first.Score)
	assert.Equal(t, 50.0, first.Percentage)
	assert.False(t, first.Passed)

	req.Answers = allCorrect(questions)
	_, err = f.svc.Submit(ctx, user, q.QuizID, req)
	assert.Equal(t, fiber.StatusConflict, codeOf(err))

	stored, err := f.attempts.FindByID(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 6.0, stored.QuizAttemptScore)
	assert.Len(t, f.events.Events(), 1)

	unread, _ := f.notifications.CountUnread(ctx, user)
	assert.Zero(t, unread)
}

func TestSubmitRejectsForeignAttempt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, questions := f.twelveQuestionQuiz(t)

	started, err := f.svc.Start(ctx, uuid.New(), q.QuizID)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, uuid.New(), q.QuizID, dto.SubmitQuizRequest{AttemptID: started.AttemptID.String(), Answers: allCorrect(questions)})
	assert.Equal(t, fiber.StatusNotFound, codeOf(err))
}

func TestInactiveQuizHiddenFromStudents(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, _ := f.twelveQuestionQuiz(t)
	inactive := false
	_, err := f.svc.UpdateQuiz(ctx, q.QuizID, dto.UpdateQuizRequest{IsActive: &inactive})
	require.NoError(t, err)

	student := authz.Principal{UserID: uuid.New(), Role: "student"}
	_, err = f.svc.Detail(ctx, q.QuizID, student)
	assert.Equal(t, fiber.StatusNotFound, codeOf(err))
	_, err = f.svc.Start(ctx, student.UserID, q.QuizID)
	assert.Equal(t, fiber.StatusNotFound, codeOf(err))

	admin := authz.Principal{UserID: uuid.New(), Role: "admin"}
	got, err := f.svc.Detail(ctx, q.QuizID, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.QuestionCount)
	assert.Equal(t, 12.0, got.TotalMarks)

	rows, total, err := f.svc.List(ctx, repository.QuizFilter{}, helper.NewPaging(1, 10, 10, 100))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)
}

func TestCreateQuizValidatesQuestionShape(t *testing.T) {
	f := newFixture()
	req := dto.CreateQuizRequest{
		Title:    "Broken",
		Category: "general",
		Questions: []dto.QuestionRequest{
			{QuestionType: "multiple_choice", Text: "Two correct", Options: []dto.OptionRequest{{Text: "A", IsCorrect: true}, {Text: "B", IsCorrect: true}}},
			{QuestionType: "short_answer", Text: "No key"},
		},
	}
	req.Normalize()
	_, err := f.svc.CreateQuiz(context.Background(), uuid.New(), req)
	var ve *helper.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "questions[0]")
	assert.Contains(t, ve.Fields, "questions[1]")
}

func TestAttemptVisibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q, questions := f.twelveQuestionQuiz(t)
	owner := authz.Principal{UserID: uuid.New(), Role: "student"}

	res, err := f.svc.Submit(ctx, owner.UserID, q.QuizID, dto.SubmitQuizRequest{Answers: allCorrect(questions)})
	require.NoError(t, err)

	got, err := f.svc.Attempt(ctx, owner, res.ID)
	require.NoError(t, err)
	assert.Len(t, got.Results, 12)

	_, err = f.svc.Attempt(ctx, authz.Principal{UserID: uuid.New(), Role: "student"}, res.ID)
	assert.Equal(t, fiber.StatusNotFound, codeOf(err))

	_, err = f.svc.Attempt(ctx, authz.Principal{UserID: uuid.New(), Role: "admin"}, res.ID)
	assert.NoError(t, err)

	rows, total, err := f.svc.Attempts(ctx, owner.UserID, &q.QuizID, helper.NewPaging(1, 10, 10, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)
}
