package controller

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/features/scholarships/applications/dto"
	"edudbt_backend/internals/features/scholarships/applications/model"
	"edudbt_backend/internals/features/scholarships/applications/repository"
	"edudbt_backend/internals/features/scholarships/applications/service"
	helper "edudbt_backend/internals/helpers"
)

type ApplicationController struct {
	svc *service.ApplicationService
}

func NewApplicationController(svc *service.ApplicationService) *ApplicationController {
	return &ApplicationController{svc: svc}
}

// POST /api/applications
func (ac *ApplicationController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.ApplicationRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ac.svc.Create(c.UserContext(), userID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Application draft created", dto.FromModel(m))
}

func (ac *ApplicationController) list(c *fiber.Ctx, f repository.ApplicationFilter) error {
	f.Status = model.ApplicationStatus(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ac.svc.List(c.UserContext(), f, p)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "Applications fetched", dto.FromModels(rows), helper.BuildPagination(total, p))
}

// GET /api/applications
func (ac *ApplicationController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return ac.list(c, repository.ApplicationFilter{UserID: &userID})
}

// GET /api/applications/admin/all?status=submitted
func (ac *ApplicationController) ListAll(c *fiber.Ctx) error {
	return ac.list(c, repository.ApplicationFilter{})
}

// GET /api/applications/:id
func (ac *ApplicationController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ac.svc.Get(c.UserContext(), helper.GetPrincipal(c), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Application fetched", dto.FromModel(m))
}

// PUT /api/applications/:id
func (ac *ApplicationController) Update(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.ApplicationRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ac.svc.Update(c.UserContext(), userID, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Application updated", dto.FromModel(m))
}

// DELETE /api/applications/:id
func (ac *ApplicationController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := ac.svc.Delete(c.UserContext(), userID, id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Application deleted", fiber.Map{"id": id})
}

// POST /api/applications/:id/documents (multipart: file, type)
func (ac *ApplicationController) UploadDocument(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"file": {"file is required"}})
	}
	if fh.Size > service.MaxDocumentBytes {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "File must be 5MB or smaller")
	}
	f, err := fh.Open()
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, service.MaxDocumentBytes+1))
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	m, err := ac.svc.AddDocument(c.UserContext(), userID, id, service.Upload{
		Type:     strings.ToLower(strings.TrimSpace(c.FormValue("type"))),
		FileName: fh.Filename,
		Data:     data,
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Document uploaded", dto.FromModel(m))
}

// DELETE /api/applications/:id/documents/:index
func (ac *ApplicationController) RemoveDocument(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	idx, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Document not found")
	}
	m, err := ac.svc.RemoveDocument(c.UserContext(), userID, id, idx)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Document removed", dto.FromModel(m))
}

// POST /api/applications/:id/submit
func (ac *ApplicationController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ac.svc.Submit(c.UserContext(), userID, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Application submitted", dto.FromModel(m))
}

// PUT /api/applications/:id/status
func (ac *ApplicationController) UpdateStatus(c *fiber.Ctx) error {
	reviewer, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.StatusRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := ac.svc.Review(c.UserContext(), reviewer, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Application status updated", dto.FromModel(m))
}
