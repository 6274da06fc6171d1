package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authRepo "edudbt_backend/internals/features/users/auth/repository"
	"edudbt_backend/internals/features/users/auth/service"
	notificationRepo "edudbt_backend/internals/features/users/notifications/repository"
	notificationService "edudbt_backend/internals/features/users/notifications/service"
	userRepo "edudbt_backend/internals/features/users/user/repository"
	helper "edudbt_backend/internals/helpers"
	"edudbt_backend/internals/infra/events"
	"edudbt_backend/internals/infra/mailer"
)

func newApp(users *userRepo.MemoryUserRepository) *fiber.App {
	svc := service.NewAuthService(
		service.Config{JWTSecret: "secret", TokenTTL: time.Hour},
		users, authRepo.NewMemoryTokenRepository(), nil, &mailer.Console{}, events.Nop{},
		notificationService.NewNotificationService(notificationRepo.NewMemoryNotificationRepository()),
	)
	ctrl := NewAuthController(svc, false)
	app := fiber.New()
	app.Post("/register", ctrl.Register)
	return app
}

func post(t *testing.T, app *fiber.App, body string) (*http.Response, helper.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out helper.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func userCount(t *testing.T, users *userRepo.MemoryUserRepository) int64 {
	_, total, err := users.List(context.Background(), userRepo.UserFilter{}, helper.NewPaging(1, 10, 10, 10))
	require.NoError(t, err)
	return total
}

func TestRegisterValidationCreatesNothing(t *testing.T) {
	users := userRepo.NewMemoryUserRepository()
	app := newApp(users)

	resp, body := post(t, app, `{"user_name":"a!","email":"not-an-email","password":"weak","full_name":"","phone_number":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body.ErrorCode)
	for _, field := range []string{"user_name", "email", "password", "full_name", "phone_number"} {
		assert.NotEmpty(t, body.Errors[field], field)
	}
	assert.Zero(t, userCount(t, users))
}

func TestRegisterSuccessAndDuplicate(t *testing.T) {
	users := userRepo.NewMemoryUserRepository()
	app := newApp(users)
	payload := `{"user_name":"asha_k","email":"Asha@Example.in","password":"Secret123","full_name":"Asha Kumari","phone_number":"+91 9876543210"}`

	resp, _ := post(t, app, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 1, userCount(t, users))

	resp, body := post(t, app, payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"email already registered"}, body.Errors["email"])
	assert.EqualValues(t, 1, userCount(t, users))
}
