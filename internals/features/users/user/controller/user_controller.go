package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/features/users/user/dto"
	"edudbt_backend/internals/features/users/user/repository"
	"edudbt_backend/internals/features/users/user/service"
	helper "edudbt_backend/internals/helpers"
)

type UserController struct {
	svc *service.UserService
}

func NewUserController(svc *service.UserService) *UserController {
	return &UserController{svc: svc}
}

// GET /api/user/profile
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	u, err := uc.svc.Profile(c.UserContext(), userID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Profile fetched", dto.FromModel(u))
}

// PUT /api/user/profile
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateProfileRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	u, err := uc.svc.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Profile updated", dto.FromModel(u))
}

// PUT /api/user/password
func (uc *UserController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := uc.svc.ChangePassword(c.UserContext(), userID, req); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Password changed successfully", nil)
}

// POST /api/user/aadhaar
func (uc *UserController) LinkAadhaar(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.LinkAadhaarRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	u, err := uc.svc.LinkAadhaar(c.UserContext(), userID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Aadhaar linked", dto.FromModel(u))
}

// DELETE /api/user/aadhaar
func (uc *UserController) UnlinkAadhaar(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	u, err := uc.svc.UnlinkAadhaar(c.UserContext(), userID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Aadhaar unlinked", dto.FromModel(u))
}

// PUT /api/user/bank-details
func (uc *UserController) UpdateBankDetails(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.BankDetailsRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	u, err := uc.svc.UpdateBankDetails(c.UserContext(), userID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Bank details saved", dto.FromModel(u))
}

// GET /api/user/stats
func (uc *UserController) GetStats(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	st, err := uc.svc.Stats(c.UserContext(), userID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Stats fetched", st)
}

/* =========================
   Admin
========================= */

// GET /api/user/admin/users?search=&role=&active=
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	f := repository.UserFilter{
		Search: c.Query("search"),
		Role:   strings.ToLower(strings.TrimSpace(c.Query("role"))),
	}
	switch strings.ToLower(c.Query("active")) {
	case "true", "1":
		t := true
		f.Active = &t
	case "false", "0":
		v := false
		f.Active = &v
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := uc.svc.List(c.UserContext(), f, p)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "Users fetched", dto.FromModels(rows), helper.BuildPagination(total, p))
}

// PUT /api/user/admin/users/:id/status
func (uc *UserController) SetStatus(c *fiber.Ctx) error {
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.AdminStatusRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	u, err := uc.svc.SetActive(c.UserContext(), actor, id, *req.IsActive)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "User status updated", dto.FromModel(u))
}

// PUT /api/user/admin/users/:id/role
func (uc *UserController) SetRole(c *fiber.Ctx) error {
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.AdminRoleRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	u, err := uc.svc.SetRole(c.UserContext(), actor, id, req.Role)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "User role updated", dto.FromModel(u))
}
