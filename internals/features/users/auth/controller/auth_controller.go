package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"edudbt_backend/internals/features/users/auth/dto"
	"edudbt_backend/internals/features/users/auth/service"
	userDto "edudbt_backend/internals/features/users/user/dto"
	helper "edudbt_backend/internals/helpers"
	authMiddleware "edudbt_backend/internals/middlewares/auth"
)

type AuthController struct {
	svc          *service.AuthService
	secureCookie bool
}

func NewAuthController(svc *service.AuthService, secureCookie bool) *AuthController {
	return &AuthController{svc: svc, secureCookie: secureCookie}
}

func (ac *AuthController) setAccessCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   ac.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := ac.svc.Register(c.UserContext(), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	ac.setAccessCookie(c, res.AccessToken, res.ExpiresAt)
	return helper.JsonCreated(c, "Registration successful", res)
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := ac.svc.Login(c.UserContext(), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	ac.setAccessCookie(c, res.AccessToken, res.ExpiresAt)
	return helper.JsonOK(c, "Login successful", res)
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := ac.svc.LoginGoogle(c.UserContext(), req.IDToken)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	ac.setAccessCookie(c, res.AccessToken, res.ExpiresAt)
	return helper.JsonOK(c, "Login successful", res)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	u, err := ac.svc.Me(c.UserContext(), userID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", userDto.FromModel(u))
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	token, err := authMiddleware.ExtractBearerToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	if err := ac.svc.Logout(c.UserContext(), token); err != nil {
		return helper.JsonFromError(c, err)
	}
	c.ClearCookie("access_token")
	return helper.JsonOK(c, "Logged out", nil)
}

// POST /api/auth/forgot-password
func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := ac.svc.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "If the email is registered, a reset link has been sent", nil)
}

// POST /api/auth/reset-password
func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := ac.svc.ResetPassword(c.UserContext(), req); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Password reset successfully", nil)
}
