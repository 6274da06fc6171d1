package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/learning/quizzes/dto"
	"edudbt_backend/internals/features/learning/quizzes/model"
	"edudbt_backend/internals/features/learning/quizzes/repository"
	notificationModel "edudbt_backend/internals/features/users/notifications/model"
	notificationService "edudbt_backend/internals/features/users/notifications/service"
	helper "edudbt_backend/internals/helpers"
	"edudbt_backend/internals/infra/events"
)

var (
	errQuizNotFound     = fiber.NewError(fiber.StatusNotFound, "Quiz not found")
	errQuestionNotFound = fiber.NewError(fiber.StatusNotFound, "Question not found")
	errAttemptNotFound  = fiber.NewError(fiber.StatusNotFound, "Attempt not found")
	errAlreadySubmitted = fiber.NewError(fiber.StatusConflict, "Attempt already submitted")
)

type QuizService struct {
	quizzes  repository.QuizRepository
	attempts repository.AttemptRepository
	events   events.Publisher
	notifier notificationService.Notifier
	now      func() time.Time
}

func NewQuizService(quizzes repository.QuizRepository, attempts repository.AttemptRepository, publisher events.Publisher, notifier notificationService.Notifier) *QuizService {
	return &QuizService{
		quizzes:  quizzes,
		attempts: attempts,
		events:   publisher,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *QuizService) loadQuiz(ctx context.Context, id uuid.UUID) (*model.QuizModel, error) {
	q, err := s.quizzes.FindQuiz(ctx, id)
	if errors.Is(err, repository.ErrQuizNotFound) {
		return nil, errQuizNotFound
	}
	return q, err
}

// visibleQuiz hides inactive quizzes from everyone without quiz:manage.
func (s *QuizService) visibleQuiz(ctx context.Context, id uuid.UUID, p authz.Principal) (*model.QuizModel, error) {
	q, err := s.loadQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.QuizIsActive && !authz.Can(p, authz.QuizManage) {
		return nil, errQuizNotFound
	}
	return q, nil
}

func (s *QuizService) summarize(ctx context.Context, rows []model.QuizModel) ([]dto.QuizResponse, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, q := range rows {
		ids = append(ids, q.QuizID)
	}
	stats, err := s.quizzes.QuestionStats(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuizResponse, 0, len(rows))
	for i := range rows {
		st := stats[rows[i].QuizID]
		out = append(out, dto.FromQuiz(&rows[i], st.QuestionCount, st.TotalMarks))
	}
	return out, nil
}

func (s *QuizService) List(ctx context.Context, f repository.QuizFilter, p helper.Paging) ([]dto.QuizResponse, int64, error) {
	rows, total, err := s.quizzes.ListQuizzes(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.summarize(ctx, rows)
	return out, total, err
}

func (s *QuizService) Detail(ctx context.Context, id uuid.UUID, p authz.Principal) (*dto.QuizResponse, error) {
	q, err := s.visibleQuiz(ctx, id, p)
	if err != nil {
		return nil, err
	}
	out, err := s.summarize(ctx, []model.QuizModel{*q})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *QuizService) Questions(ctx context.Context, quizID uuid.UUID, p authz.Principal) ([]model.QuizQuestionModel, error) {
	if _, err := s.visibleQuiz(ctx, quizID, p); err != nil {
		return nil, err
	}
	return s.quizzes.Questions(ctx, quizID)
}

func (s *QuizService) Start(ctx context.Context, userID, quizID uuid.UUID) (*dto.StartQuizResponse, error) {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !q.QuizIsActive {
		return nil, errQuizNotFound
	}
	questions, err := s.quizzes.Questions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Quiz has no questions yet")
	}

	a := &model.QuizAttemptModel{
		QuizAttemptUserID:    userID,
		QuizAttemptQuizID:    quizID,
		QuizAttemptStatus:    model.QuizAttemptInProgress,
		QuizAttemptAnswers:   datatypes.JSONSlice[model.QuizAttemptAnswerItem]{},
		QuizAttemptStartedAt: s.now(),
	}
	if err := s.attempts.Create(ctx, a); err != nil {
		return nil, err
	}

	var total float64
	for _, qq := range questions {
		total += qq.QuizQuestionMarks
	}
	return &dto.StartQuizResponse{
		AttemptID: a.QuizAttemptID,
		StartedAt: a.QuizAttemptStartedAt,
		Quiz:      dto.FromQuiz(q, int64(len(questions)), round2(total)),
		Questions: dto.FromQuestions(questions, false),
	}, nil
}

// Submit grades and stores the attempt exactly once.
func (s *QuizService) Submit(ctx context.Context, userID, quizID uuid.UUID, req dto.SubmitQuizRequest) (*dto.AttemptResponse, error) {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !q.QuizIsActive {
		return nil, errQuizNotFound
	}
	questions, err := s.quizzes.Questions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	submitted := make([]Submitted, 0, len(req.Answers))
	for i, a := range req.Answers {
		id, err := uuid.Parse(a.QuestionID)
		if err != nil {
			return nil, helper.FieldError(fmt.Sprintf("answers[%d].question_id", i), "must be a valid UUID")
		}
		submitted = append(submitted, Submitted{QuestionID: id, SelectedAnswer: a.SelectedAnswer})
	}

	grade := GradeAnswers(questions, submitted, q.QuizPassingScore)
	now := s.now()

	var attempt *model.QuizAttemptModel
	if req.AttemptID != "" {
		attemptID, err := uuid.Parse(req.AttemptID)
		if err != nil {
			return nil, helper.FieldError("attempt_id", "must be a valid UUID")
		}
		attempt, err = s.attempts.FindByID(ctx, attemptID)
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return nil, errAttemptNotFound
		}
		if err != nil {
			return nil, err
		}
		if attempt.QuizAttemptUserID != userID || attempt.QuizAttemptQuizID != quizID {
			return nil, errAttemptNotFound
		}
		if attempt.IsCompleted() {
			return nil, errAlreadySubmitted
		}
	} else {
		attempt = &model.QuizAttemptModel{
			QuizAttemptUserID:    userID,
			QuizAttemptQuizID:    quizID,
			QuizAttemptStartedAt: now,
		}
	}

	attempt.QuizAttemptAnswers = datatypes.JSONSlice[model.QuizAttemptAnswerItem](grade.Answers)
	attempt.QuizAttemptScore = grade.Score
	attempt.QuizAttemptTotalMarks = grade.TotalMarks
	attempt.QuizAttemptPercentage = grade.Percentage
	attempt.QuizAttemptPassed = grade.Passed
	attempt.QuizAttemptTimeTakenSeconds = req.TimeTakenSeconds
	if req.TimeTakenSeconds == 0 && req.AttemptID != "" {
		attempt.QuizAttemptTimeTakenSeconds = int(now.Sub(attempt.QuizAttemptStartedAt).Seconds())
	}
	attempt.QuizAttemptCompletedAt = &now

	if req.AttemptID != "" {
		ok, err := s.attempts.Complete(ctx, attempt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errAlreadySubmitted
		}
		attempt.QuizAttemptStatus = model.QuizAttemptCompleted
	} else {
		// A single INSERT of an already completed row.
		attempt.QuizAttemptStatus = model.QuizAttemptCompleted
		if err := s.attempts.Create(ctx, attempt); err != nil {
			return nil, err
		}
	}

	events.Emit(ctx, s.events, events.New(events.QuizAttemptCompleted, userID.String(), map[string]any{
		"attempt_id":  attempt.QuizAttemptID,
		"quiz_id":     quizID,
		"user_id":     userID,
		"score":       attempt.QuizAttemptScore,
		"total_marks": attempt.QuizAttemptTotalMarks,
		"percentage":  attempt.QuizAttemptPercentage,
		"passed":      attempt.QuizAttemptPassed,
	}))
	if attempt.QuizAttemptPassed && s.notifier != nil {
		s.notifier.Notify(ctx, userID, notificationModel.NotificationTypeQuiz,
			"Quiz passed: "+q.QuizTitle,
			fmt.Sprintf("You scored %.2f%% (%.2f/%.2f). Well done!", attempt.QuizAttemptPercentage, attempt.QuizAttemptScore, attempt.QuizAttemptTotalMarks))
	}

	out := dto.WithResults(attempt, questions)
	return &out, nil
}

func (s *QuizService) Attempts(ctx context.Context, userID uuid.UUID, quizID *uuid.UUID, p helper.Paging) ([]model.QuizAttemptModel, int64, error) {
	return s.attempts.List(ctx, repository.AttemptFilter{UserID: userID, QuizID: quizID}, p)
}

// Attempt returns one attempt to its owner or a reviewer; completed attempts include results.
func (s *QuizService) Attempt(ctx context.Context, p authz.Principal, attemptID uuid.UUID) (*dto.AttemptResponse, error) {
	a, err := s.attempts.FindByID(ctx, attemptID)
	if errors.Is(err, repository.ErrAttemptNotFound) {
		return nil, errAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessOwned(p, a.QuizAttemptUserID, authz.QuizManage) {
		return nil, errAttemptNotFound
	}
	if !a.IsCompleted() {
		out := dto.FromAttempt(a)
		return &out, nil
	}
	questions, err := s.quizzes.Questions(ctx, a.QuizAttemptQuizID)
	if err != nil {
		return nil, err
	}
	out := dto.WithResults(a, questions)
	return &out, nil
}

/* =========================
   Admin
========================= */

func validateQuestion(field string, q *model.QuizQuestionModel) error {
	if err := q.ValidateShape(); err != nil {
		return helper.FieldError(field, err.Error())
	}
	return nil
}

func (s *QuizService) CreateQuiz(ctx context.Context, author uuid.UUID, req dto.CreateQuizRequest) (*model.QuizModel, error) {
	q := &model.QuizModel{
		QuizTitle:            req.Title,
		QuizDescription:      req.Description,
		QuizCategory:         req.Category,
		QuizDifficulty:       req.Difficulty,
		QuizTimeLimitMinutes: req.TimeLimitMinutes,
		QuizPassingScore:     model.DefaultPassingScore,
		QuizIsActive:         true,
	}
	if q.QuizDifficulty == "" {
		q.QuizDifficulty = model.DifficultyEasy
	}
	if req.PassingScore != nil {
		q.QuizPassingScore = *req.PassingScore
	}
	if req.IsActive != nil {
		q.QuizIsActive = *req.IsActive
	}
	if author != uuid.Nil {
		a := author
		q.QuizCreatedBy = &a
	}

	ve := &helper.ValidationErrors{}
	for i, qr := range req.Questions {
		m := qr.ToModel(uuid.Nil, i+1)
		if err := m.ValidateShape(); err != nil {
			ve.Add(fmt.Sprintf("questions[%d]", i), err.Error())
			continue
		}
		q.Questions = append(q.Questions, m)
	}
	if !ve.Empty() {
		return nil, ve
	}

	if err := s.quizzes.CreateQuiz(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, id uuid.UUID, req dto.UpdateQuizRequest) (*model.QuizModel, error) {
	q, err := s.loadQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		q.QuizTitle = *req.Title
	}
	if req.Description != nil {
		q.QuizDescription = *req.Description
	}
	if req.Category != nil {
		q.QuizCategory = *req.Category
	}
	if req.Difficulty != nil {
		q.QuizDifficulty = *req.Difficulty
	}
	if req.TimeLimitMinutes != nil {
		q.QuizTimeLimitMinutes = *req.TimeLimitMinutes
	}
	if req.PassingScore != nil {
		q.QuizPassingScore = *req.PassingScore
	}
	if req.IsActive != nil {
		q.QuizIsActive = *req.IsActive
	}
	if err := s.quizzes.SaveQuiz(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	err := s.quizzes.DeleteQuiz(ctx, id)
	if errors.Is(err, repository.ErrQuizNotFound) {
		return errQuizNotFound
	}
	return err
}

func (s *QuizService) AddQuestion(ctx context.Context, quizID uuid.UUID, req dto.QuestionRequest) (*model.QuizQuestionModel, error) {
	if _, err := s.loadQuiz(ctx, quizID); err != nil {
		return nil, err
	}
	next, err := s.quizzes.NextQuestionOrder(ctx, quizID)
	if err != nil {
		return nil, err
	}
	m := req.ToModel(quizID, next)
	if err := validateQuestion("question", &m); err != nil {
		return nil, err
	}
	if err := s.quizzes.AddQuestion(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *QuizService) UpdateQuestion(ctx context.Context, id uuid.UUID, req dto.UpdateQuestionRequest) (*model.QuizQuestionModel, error) {
	m, err := s.quizzes.FindQuestion(ctx, id)
	if errors.Is(err, repository.ErrQuestionNotFound) {
		return nil, errQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.QuestionType != nil {
		m.QuizQuestionType = model.QuizQuestionType(*req.QuestionType)
	}
	if req.Text != nil {
		m.QuizQuestionText = *req.Text
	}
	if req.Options != nil {
		qr := dto.QuestionRequest{Options: *req.Options}
		qr.Normalize()
		opts := make([]model.QuestionOption, 0, len(qr.Options))
		for _, o := range qr.Options {
			opts = append(opts, model.QuestionOption{Key: o.Key, Text: o.Text, IsCorrect: o.IsCorrect})
		}
		m.QuizQuestionOptions = datatypes.JSONSlice[model.QuestionOption](opts)
	}
	if req.CorrectAnswer != nil {
		v := *req.CorrectAnswer
		m.QuizQuestionCorrectAnswer = &v
	}
	if req.Marks != nil {
		m.QuizQuestionMarks = *req.Marks
	}
	if req.Explanation != nil {
		v := *req.Explanation
		m.QuizQuestionExplanation = &v
	}
	if req.Order != nil {
		m.QuizQuestionOrder = *req.Order
	}
	if !m.IsChoice() {
		m.QuizQuestionOptions = datatypes.JSONSlice[model.QuestionOption]{}
	}

	if err := validateQuestion("question", m); err != nil {
		return nil, err
	}
	if err := s.quizzes.SaveQuestion(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *QuizService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	err := s.quizzes.DeleteQuestion(ctx, id)
	if errors.Is(err, repository.ErrQuestionNotFound) {
		return errQuestionNotFound
	}
	return err
}
