package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/learning/quizzes/dto"
	"edudbt_backend/internals/features/learning/quizzes/repository"
	"edudbt_backend/internals/features/learning/quizzes/service"
	helper "edudbt_backend/internals/helpers"
)

type QuizController struct {
	svc *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{svc: svc}
}

func (qc *QuizController) list(c *fiber.Ctx, includeInactive bool) error {
	f := repository.QuizFilter{
		Category:        strings.ToLower(strings.TrimSpace(c.Query("category"))),
		Difficulty:      strings.ToLower(strings.TrimSpace(c.Query("difficulty"))),
		IncludeInactive: includeInactive,
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := qc.svc.List(c.UserContext(), f, p)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "Quizzes fetched", rows, helper.BuildPagination(total, p))
}

// GET /api/quizzes
func (qc *QuizController) List(c *fiber.Ctx) error { return qc.list(c, false) }

// GET /api/quizzes/admin/all
func (qc *QuizController) ListAll(c *fiber.Ctx) error { return qc.list(c, true) }

// GET /api/quizzes/:id
func (qc *QuizController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	q, err := qc.svc.Detail(c.UserContext(), id, helper.GetPrincipal(c))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Quiz fetched", q)
}

// GET /api/quizzes/:id/questions
func (qc *QuizController) Questions(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	p := helper.GetPrincipal(c)
	rows, err := qc.svc.Questions(c.UserContext(), id, p)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Questions fetched", dto.FromQuestions(rows, authz.Can(p, authz.QuizManage) && c.QueryBool("with_key", false)))
}

// POST /api/quizzes/:id/start
func (qc *QuizController) Start(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := qc.svc.Start(c.UserContext(), userID, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Quiz started", res)
}

// POST /api/quizzes/:id/submit
func (qc *QuizController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.SubmitQuizRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := qc.svc.Submit(c.UserContext(), userID, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Quiz submitted", res)
}

func (qc *QuizController) attempts(c *fiber.Ctx, quizID *uuid.UUID) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := qc.svc.Attempts(c.UserContext(), userID, quizID, p)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "Attempts fetched", dto.FromAttempts(rows), helper.BuildPagination(total, p))
}

// GET /api/quizzes/attempts/me
func (qc *QuizController) MyAttempts(c *fiber.Ctx) error {
	return qc.attempts(c, nil)
}

// GET /api/quizzes/:id/attempts
func (qc *QuizController) QuizAttempts(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return qc.attempts(c, &id)
}

// GET /api/quizzes/attempts/:attemptId
func (qc *QuizController) Attempt(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "attemptId")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := qc.svc.Attempt(c.UserContext(), helper.GetPrincipal(c), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Attempt fetched", res)
}

/* =========================
   Admin
========================= */

// POST /api/quizzes
func (qc *QuizController) Create(c *fiber.Ctx) error {
	author, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateQuizRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	q, err := qc.svc.CreateQuiz(c.UserContext(), author, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var total float64
	for _, qq := range q.Questions {
		total += qq.QuizQuestionMarks
	}
	return helper.JsonCreated(c, "Quiz created", fiber.Map{
		"quiz":      dto.FromQuiz(q, int64(len(q.Questions)), total),
		"questions": dto.FromQuestions(q.Questions, true),
	})
}

// PUT /api/quizzes/:id
func (qc *QuizController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateQuizRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	if _, err := qc.svc.UpdateQuiz(c.UserContext(), id, req); err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := qc.svc.Detail(c.UserContext(), id, helper.GetPrincipal(c))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Quiz updated", res)
}

// DELETE /api/quizzes/:id
func (qc *QuizController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := qc.svc.DeleteQuiz(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Quiz deleted", fiber.Map{"id": id})
}

// POST /api/quizzes/:id/questions
func (qc *QuizController) AddQuestion(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.QuestionRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	q, err := qc.svc.AddQuestion(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Question added", dto.FromQuestion(q, true))
}

// PUT /api/quizzes/questions/:questionId
func (qc *QuizController) UpdateQuestion(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "questionId")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateQuestionRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	q, err := qc.svc.UpdateQuestion(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Question updated", dto.FromQuestion(q, true))
}

// DELETE /api/quizzes/questions/:questionId
func (qc *QuizController) DeleteQuestion(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "questionId")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := qc.svc.DeleteQuestion(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Question deleted", fiber.Map{"id": id})
}
