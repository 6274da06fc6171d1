package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/features/users/auth/dto"
	authRepo "edudbt_backend/internals/features/users/auth/repository"
	notificationRepo "edudbt_backend/internals/features/users/notifications/repository"
	notificationService "edudbt_backend/internals/features/users/notifications/service"
	userModel "edudbt_backend/internals/features/users/user/model"
	userRepo "edudbt_backend/internals/features/users/user/repository"
	helper "edudbt_backend/internals/helpers"
	"edudbt_backend/internals/infra/events"
	"edudbt_backend/internals/infra/mailer"
)

type fakeGoogle struct {
	ident *GoogleIdentity
	err   error
}

func (f fakeGoogle) Verify(string) (*GoogleIdentity, error) { return f.ident, f.err }

type fixture struct {
	svc    *AuthService
	users  *userRepo.MemoryUserRepository
	tokens *authRepo.MemoryTokenRepository
	mail   *mailer.Console
	events *events.Recorder
}

func newFixture(google GoogleVerifier) *fixture {
	f := &fixture{
		users:  userRepo.NewMemoryUserRepository(),
		tokens: authRepo.NewMemoryTokenRepository(),
		mail:   &mailer.Console{},
		events: &events.Recorder{},
	}
	notifier := notificationService.NewNotificationService(notificationRepo.NewMemoryNotificationRepository())
	f.svc = NewAuthService(Config{JWTSecret: "secret", TokenTTL: time.Hour, FrontendURL: "http://localhost:5173"},
		f.users, f.tokens, google, f.mail, f.events, notifier)
	return f
}

func registerReq() dto.RegisterRequest {
	return dto.RegisterRequest{
		UserName: "asha_k",
		Email:    "asha@example.in",
		Password: "Secret123",
		FullName: "Asha Kumari",
	}
}

func codeOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return 0
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)
	assert.Equal(t, "student", res.User.Role)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, []string{events.UserRegistered}, f.events.Types())

	stored, err := f.users.FindByEmail(ctx, "asha@example.in")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", stored.Password)

	for _, ident := range []string{"asha@example.in", "ASHA@example.in", "asha_k"} {
		res, err = f.svc.Login(ctx, dto.LoginRequest{Identifier: ident, Password: "Secret123"})
		require.NoError(t, err, ident)
		assert.NotNil(t, res.User.LastLoginAt)
	}

	_, err = f.svc.Login(ctx, dto.LoginRequest{Identifier: "asha_k", Password: "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, codeOf(err))
	_, err = f.svc.Login(ctx, dto.LoginRequest{Identifier: "nobody", Password: "Secret123"})
	assert.Equal(t, fiber.StatusUnauthorized, codeOf(err))
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registerReq())
	var ve *helper.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"email already registered"}, ve.Fields["email"])
	assert.Equal(t, []string{"username already taken"}, ve.Fields["user_name"])

	req := registerReq()
	req.UserName = "someone_else"
	_, err = f.svc.Register(ctx, req)
	require.ErrorAs(t, err, &ve)
	assert.NotContains(t, ve.Fields, "user_name")
}

// racingUsers inserts a rival account right before the real insert.
type racingUsers struct {
	*userRepo.MemoryUserRepository
	rival *userModel.UserModel
}

func (r *racingUsers) Create(ctx context.Context, u *userModel.UserModel) error {
	if rival := r.rival; rival != nil {
		r.rival = nil
		if err := r.MemoryUserRepository.Create(ctx, rival); err != nil {
			return err
		}
	}
	return r.MemoryUserRepository.Create(ctx, u)
}

func TestRegisterRaceReportsCollidingField(t *testing.T) {
	users := &racingUsers{
		MemoryUserRepository: userRepo.NewMemoryUserRepository(),
		rival:                &userModel.UserModel{UserName: "asha_k", Email: "other@example.in", IsActive: true},
	}
	notifier := notificationService.NewNotificationService(notificationRepo.NewMemoryNotificationRepository())
	svc := NewAuthService(Config{JWTSecret: "secret", TokenTTL: time.Hour}, users,
		authRepo.NewMemoryTokenRepository(), nil, &mailer.Console{}, &events.Recorder{}, notifier)

	_, err := svc.Register(context.Background(), registerReq())
	var ve *helper.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"username already taken"}, ve.Fields["user_name"])
	assert.NotContains(t, ve.Fields, "email")
}

func TestLoginInactiveUser(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	res, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	u, err := f.users.FindByID(ctx, res.User.ID)
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, f.users.Save(ctx, u))

	_, err = f.svc.Login(ctx, dto.LoginRequest{Identifier: "asha_k", Password: "Secret123"})
	assert.Equal(t, fiber.StatusForbidden, codeOf(err))
}

func TestLogoutBlacklistsUntilExpiry(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	res, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, res.AccessToken))
	black, err := f.tokens.IsBlacklisted(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.True(t, black)

	bl, _, err := f.tokens.CleanupExpired(ctx, time.Now(), true)
	require.NoError(t, err)
	assert.Zero(t, bl, "token is still valid, keep it blacklisted")

	bl, _, err = f.tokens.CleanupExpired(ctx, res.ExpiresAt.Add(time.Second), false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, bl)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, "unknown@example.in"))
	assert.Empty(t, f.mail.Sent())

	u, err := f.users.FindByEmail(ctx, "asha@example.in")
	require.NoError(t, err)
	u.FullName = `Asha <img src=x onerror="alert(1)">`
	require.NoError(t, f.users.Save(ctx, u))

	require.NoError(t, f.svc.ForgotPassword(ctx, "asha@example.in"))
	require.Len(t, f.mail.Sent(), 1)
	assert.Contains(t, f.events.Types(), events.PasswordResetRequested)
	assert.NotContains(t, f.mail.Sent()[0].HTML, "<img")
	assert.Contains(t, f.mail.Sent()[0].HTML, "Asha &lt;img")

	text := f.mail.Sent()[0].Text
	start := strings.Index(text, "http://")
	require.GreaterOrEqual(t, start, 0)
	link, err := url.Parse(strings.Fields(text[start:])[0])
	require.NoError(t, err)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	err = f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: "bogus", NewPassword: "NewSecret1"})
	assert.Equal(t, fiber.StatusBadRequest, codeOf(err))

	require.NoError(t, f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, NewPassword: "NewSecret1"}))
	_, err = f.svc.Login(ctx, dto.LoginRequest{Identifier: "asha_k", Password: "NewSecret1"})
	assert.NoError(t, err)

	// single use
	err = f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, NewPassword: "Another1x"})
	assert.Equal(t, fiber.StatusBadRequest, codeOf(err))
}

func TestResetPasswordExpired(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerReq())
	require.NoError(t, err)
	require.NoError(t, f.svc.ForgotPassword(ctx, "asha@example.in"))

	text := f.mail.Sent()[0].Text
	token := text[strings.Index(text, "token=")+len("token=") : strings.Index(text, "token=")+len("token=")+64]

	f.svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	err = f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: token, NewPassword: "NewSecret1"})
	assert.Equal(t, fiber.StatusBadRequest, codeOf(err))
}

func TestLoginGoogle(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a student account", func(t *testing.T) {
		f := newFixture(fakeGoogle{ident: &GoogleIdentity{Subject: "g-1", Email: "Meera.S@gmail.com", EmailVerified: true, Name: "Meera S"}})
		res, err := f.svc.LoginGoogle(ctx, "id-token")
		require.NoError(t, err)
		assert.Equal(t, "meera_s", res.User.UserName)
		assert.Equal(t, "meera.s@gmail.com", res.User.Email)
		assert.Equal(t, "student", res.User.Role)

		again, err := f.svc.LoginGoogle(ctx, "id-token")
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, again.User.ID)
	})

	t.Run("links an existing email", func(t *testing.T) {
		f := newFixture(fakeGoogle{ident: &GoogleIdentity{Subject: "g-2", Email: "asha@example.in", EmailVerified: true, Name: "Asha"}})
		reg, err := f.svc.Register(ctx, registerReq())
		require.NoError(t, err)
		res, err := f.svc.LoginGoogle(ctx, "id-token")
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, res.User.ID)
	})

	t.Run("unverified email cannot take over an account", func(t *testing.T) {
		f := newFixture(fakeGoogle{ident: &GoogleIdentity{Subject: "g-3", Email: "asha@example.in", Name: "Asha"}})
		reg, err := f.svc.Register(ctx, registerReq())
		require.NoError(t, err)

		_, err = f.svc.LoginGoogle(ctx, "id-token")
		assert.Equal(t, fiber.StatusUnauthorized, codeOf(err))

		stored, err := f.users.FindByID(ctx, reg.User.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.GoogleID)
	})

	t.Run("unverified email creates nothing", func(t *testing.T) {
		f := newFixture(fakeGoogle{ident: &GoogleIdentity{Subject: "g-4", Email: "new@gmail.com", Name: "New"}})
		_, err := f.svc.LoginGoogle(ctx, "id-token")
		assert.Equal(t, fiber.StatusUnauthorized, codeOf(err))
		_, err = f.users.FindByEmail(ctx, "new@gmail.com")
		assert.ErrorIs(t, err, userRepo.ErrNotFound)
	})

	t.Run("rejects invalid tokens", func(t *testing.T) {
		f := newFixture(fakeGoogle{err: errors.New("bad audience")})
		_, err := f.svc.LoginGoogle(ctx, "id-token")
		assert.Equal(t, fiber.StatusUnauthorized, codeOf(err))
	})
}
