package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/constants"
	helper "edudbt_backend/internals/helpers"
)

const testSecret = "test-secret"

type fakeStore struct {
	blacklisted map[string]bool
	active      map[uuid.UUID]bool
	roles       map[uuid.UUID]string
}

func (f *fakeStore) IsBlacklisted(_ context.Context, token string) (bool, error) {
	return f.blacklisted[token], nil
}

func (f *fakeStore) FindUserStatus(_ context.Context, id uuid.UUID) (UserStatus, error) {
	a, ok := f.active[id]
	if !ok {
		return UserStatus{}, ErrUserNotFound
	}
	role, ok := f.roles[id]
	if !ok {
		role = constants.RoleStudent
	}
	return UserStatus{IsActive: a, Role: role}, nil
}

func sign(t *testing.T, id uuid.UUID, role string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":        id.String(),
		"user_name": "asha_k",
		"role":      role,
		"exp":       exp.Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newApp(store TokenStore, guards ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{AuthMiddleware(store, testSecret)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p := helper.GetPrincipal(c)
		return c.SendString(p.UserID.String() + "|" + p.Role)
	})
	app.Get("/me", handlers...)
	return app
}

func do(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestAuthMiddleware(t *testing.T) {
	active := uuid.New()
	inactive := uuid.New()
	store := &fakeStore{
		blacklisted: map[string]bool{},
		active:      map[uuid.UUID]bool{active: true, inactive: false},
	}
	app := newApp(store)

	t.Run("valid token stores locals", func(t *testing.T) {
		code, body := do(t, app, sign(t, active, constants.RoleStudent, time.Now().Add(time.Hour)))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, active.String()+"|student", body)
	})

	t.Run("missing token", func(t *testing.T) {
		code, _ := do(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("expired token", func(t *testing.T) {
		code, _ := do(t, app, sign(t, active, constants.RoleStudent, time.Now().Add(-time.Hour)))
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": active.String(), "exp": time.Now().Add(time.Hour).Unix()})
		s, err := tok.SignedString([]byte("other"))
		require.NoError(t, err)
		code, _ := do(t, app, s)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("blacklisted token", func(t *testing.T) {
		tok := sign(t, active, constants.RoleStudent, time.Now().Add(2*time.Hour))
		store.blacklisted[tok] = true
		code, _ := do(t, app, tok)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("inactive user", func(t *testing.T) {
		code, _ := do(t, app, sign(t, inactive, constants.RoleStudent, time.Now().Add(time.Hour)))
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("unknown user", func(t *testing.T) {
		code, _ := do(t, app, sign(t, uuid.New(), constants.RoleStudent, time.Now().Add(time.Hour)))
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestAuthMiddlewareCookieFallback(t *testing.T) {
	id := uuid.New()
	app := newApp(&fakeStore{active: map[uuid.UUID]bool{id: true}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: sign(t, id, constants.RoleAdmin, time.Now().Add(time.Hour))})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission(t *testing.T) {
	student := uuid.New()
	admin := uuid.New()
	store := &fakeStore{
		active: map[uuid.UUID]bool{student: true, admin: true},
		roles:  map[uuid.UUID]string{admin: constants.RoleAdmin},
	}
	app := newApp(store, RequirePermission(authz.ContentWrite))

	code, _ := do(t, app, sign(t, student, constants.RoleStudent, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusForbidden, code)

	adminToken := sign(t, admin, constants.RoleAdmin, time.Now().Add(time.Hour))
	code, _ = do(t, app, adminToken)
	assert.Equal(t, http.StatusOK, code)

	t.Run("demoted admin token loses permissions", func(t *testing.T) {
		store.roles[admin] = constants.RoleStudent
		code, _ := do(t, app, adminToken)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("role claim in the token is not trusted", func(t *testing.T) {
		code, _ := do(t, app, sign(t, student, constants.RoleAdmin, time.Now().Add(time.Hour)))
		assert.Equal(t, http.StatusForbidden, code)
	})
}

func TestOptionalAuth(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{active: map[uuid.UUID]bool{id: true}}
	app := fiber.New()
	app.Get("/chat", OptionalAuth(store, testSecret), func(c *fiber.Ctx) error {
		p := helper.GetPrincipal(c)
		if p.Authenticated() {
			return c.SendString("user")
		}
		return c.SendString("anonymous")
	})

	for name, tc := range map[string]struct {
		header string
		want   string
	}{
		"no token":      {"", "anonymous"},
		"garbage token": {"Bearer nope", "anonymous"},
		"valid token":   {"Bearer " + sign(t, id, constants.RoleStudent, time.Now().Add(time.Hour)), "user"},
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/chat", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			b, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tc.want, string(b))
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		tok, err := ExtractBearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString(err.Error())
		}
		return c.SendString(tok)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer   \"abc.def\"")
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "abc.def", string(b))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
