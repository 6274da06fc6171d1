package helper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerLike struct {
	UserName string `json:"user_name" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	Phone    string `json:"phone_number" validate:"omitempty,indian_phone"`
}

func TestValidateFieldMessages(t *testing.T) {
	err := Validate(registerLike{UserName: "ab", Email: "nope", Password: "weak", Phone: "12345"})
	require.Error(t, err)

	var ve *ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "user_name")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")
	assert.Contains(t, ve.Fields, "phone_number")
	assert.Equal(t, []string{"must be at least 3 characters"}, ve.Fields["user_name"])
}

func TestValidateOK(t *testing.T) {
	err := Validate(registerLike{UserName: "ravi_kumar", Email: "ravi@example.in", Password: "Secret123", Phone: "+91 9876543210"})
	assert.NoError(t, err)
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("Abcdefg1"))
	assert.False(t, IsStrongPassword("abcdefg1"))
	assert.False(t, IsStrongPassword("ABCDEFG1"))
	assert.False(t, IsStrongPassword("Abcdefgh"))
	assert.False(t, IsStrongPassword("Ab1"))
}

func TestAadhaar(t *testing.T) {
	assert.True(t, IsValidAadhaar("234567890124"))
	assert.True(t, IsValidAadhaar("2345 6789 0124"))
	assert.True(t, IsValidAadhaar("4987-6543-2102"))
	assert.False(t, IsValidAadhaar("234567890123"), "bad check digit")
	assert.False(t, IsValidAadhaar("123456789012"), "leading 1")
	assert.False(t, IsValidAadhaar("23456789012"), "too short")
	assert.False(t, IsValidAadhaar("23456789012a"))

	assert.Equal(t, "XXXX-XXXX-0124", MaskAadhaar("2345 6789 0124"))
	assert.Equal(t, "XXXXXXXX4321", MaskAccount("123456784321"))
	assert.Equal(t, "XXX", MaskAccount("123"))

	h1 := KeyedHash("pepper", "234567890124")
	assert.Len(t, h1, 64)
	assert.Equal(t, h1, KeyedHash("pepper", "234567890124"))
	assert.NotEqual(t, h1, KeyedHash("other", "234567890124"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "how-to-link-aadhaar-with-bank", Slugify("  How to link Aadhaar with Bank? ", 0))
	assert.Equal(t, "pre-matric-scholarship", Slugify("Pré-Matric   Scholarship", 0))
	assert.Equal(t, "item", Slugify("!!!", 0))
	assert.Equal(t, "abc", Slugify("abc-def", 4))
}

func TestEnsureUniqueSlug(t *testing.T) {
	taken := map[string]bool{"dbt-basics": true, "dbt-basics-2": true}
	slug, err := EnsureUniqueSlug(context.Background(), "dbt-basics", 0, func(_ context.Context, s string) (bool, error) {
		return taken[s], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "dbt-basics-3", slug)

	_, err = EnsureUniqueSlug(context.Background(), "x", 0, func(context.Context, string) (bool, error) {
		return false, errors.New("db down")
	})
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	p := NewPaging(0, 0, 10, 50)
	assert.Equal(t, Paging{Page: 1, PerPage: 10, Offset: 0, Limit: 10}, p)

	p = NewPaging(3, 500, 10, 50)
	assert.Equal(t, 50, p.PerPage)
	assert.Equal(t, 100, p.Offset)

	pg := BuildPagination(101, NewPaging(2, 50, 10, 50))
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	assert.Equal(t, 1, BuildPagination(0, NewPaging(1, 10, 10, 0)).TotalPages)
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestJsonFromError(t *testing.T) {
	app := fiber.New()
	app.Get("/validation", func(c *fiber.Ctx) error {
		return JsonFromError(c, FieldError("email", "email already registered"))
	})
	app.Get("/notfound", func(c *fiber.Ctx) error {
		return JsonFromError(c, fiber.NewError(fiber.StatusNotFound, "Quiz not found"))
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return JsonFromError(c, errors.New("connection refused"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/validation", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "VALIDATION_ERROR", body["error_code"])
	assert.Equal(t, []any{"email already registered"}, body["errors"].(map[string]any)["email"])

	resp, err = app.Test(httptest.NewRequest("GET", "/notfound", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "Quiz not found", decodeBody(t, resp.Body)["message"])

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	body = decodeBody(t, resp.Body)
	assert.Equal(t, "internal server error", body["message"])
	assert.Equal(t, "connection refused", body["error"])
}

func TestGetUserIDFromToken(t *testing.T) {
	id := uuid.New()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		switch c.Query("mode") {
		case "ok":
			c.Locals(LocalUserID, id.String())
			c.Locals(LocalUserRole, "student")
		case "bad":
			c.Locals(LocalUserID, "not-a-uuid")
		}
		got, err := GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		p := GetPrincipal(c)
		if p.Role != "student" || p.UserID != got {
			return fiber.ErrTeapot
		}
		return c.SendString(got.String())
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/?mode=ok", nil))
	assert.Equal(t, 200, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, id.String(), string(b))

	resp, _ = app.Test(httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, 401, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest("GET", "/?mode=bad", nil))
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", h)
	assert.NoError(t, CheckPasswordHash(h, "Secret123"))
	assert.Error(t, CheckPasswordHash(h, "secret123"))
}
