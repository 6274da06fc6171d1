package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/features/learning/content/dto"
	"edudbt_backend/internals/features/learning/content/repository"
	"edudbt_backend/internals/features/learning/content/service"
	helper "edudbt_backend/internals/helpers"
)

type ContentController struct {
	svc *service.ContentService
}

func NewContentController(svc *service.ContentService) *ContentController {
	return &ContentController{svc: svc}
}

func filterFromQuery(c *fiber.Ctx) repository.ContentFilter {
	return repository.ContentFilter{
		Category: strings.ToLower(strings.TrimSpace(c.Query("category"))),
		Tag:      strings.TrimSpace(c.Query("tag")),
		Language: strings.ToLower(strings.TrimSpace(c.Query("language"))),
		Query:    strings.TrimSpace(c.Query("q")),
		Sort:     strings.ToLower(strings.TrimSpace(c.Query("sort"))),
	}
}

func (cc *ContentController) list(c *fiber.Ctx, f repository.ContentFilter) error {
	p := helper.ResolvePaging(c, 12, 50)
	rows, total, err := cc.svc.List(c.UserContext(), f, p)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "Content fetched", dto.FromModels(rows), helper.BuildPagination(total, p))
}

// GET /api/content
func (cc *ContentController) List(c *fiber.Ctx) error {
	return cc.list(c, filterFromQuery(c))
}

// GET /api/content/admin/all
func (cc *ContentController) ListAll(c *fiber.Ctx) error {
	f := filterFromQuery(c)
	f.IncludeDrafts = true
	return cc.list(c, f)
}

// GET /api/content/featured?limit=6
func (cc *ContentController) Featured(c *fiber.Ctx) error {
	rows, err := cc.svc.Featured(c.UserContext(), c.QueryInt("limit", service.DefaultFeatured))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Featured content fetched", dto.FromModels(rows))
}

// GET /api/content/categories
func (cc *ContentController) Categories(c *fiber.Ctx) error {
	rows, err := cc.svc.Categories(c.UserContext())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Categories fetched", rows)
}

// GET /api/content/:idOrSlug
func (cc *ContentController) Get(c *fiber.Ctx) error {
	m, err := cc.svc.Get(c.UserContext(), c.Params("idOrSlug"), helper.GetPrincipal(c))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Content fetched", dto.FromModel(m))
}

// POST /api/content
func (cc *ContentController) Create(c *fiber.Ctx) error {
	author, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateContentRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := cc.svc.Create(c.UserContext(), author, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Content created", dto.FromModel(m))
}

// PUT /api/content/:id
func (cc *ContentController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateContentRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := cc.svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Content updated", dto.FromModel(m))
}

// DELETE /api/content/:id
func (cc *ContentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := cc.svc.Delete(c.UserContext(), id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Content deleted", fiber.Map{"id": id})
}
