package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/features/admin/reports/repository"
	helper "edudbt_backend/internals/helpers"
)

type ReportController struct {
	repo repository.ReportRepository
}

func NewReportController(repo repository.ReportRepository) *ReportController {
	return &ReportController{repo: repo}
}

// GET /api/reports/summary
func (rc *ReportController) Summary(c *fiber.Ctx) error {
	s, err := rc.repo.Summary(c.UserContext(), time.Now().UTC())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Report generated", fiber.Map{
		"summary":        s,
		"quiz_pass_rate": s.Quizzes.PassRate(),
	})
}
