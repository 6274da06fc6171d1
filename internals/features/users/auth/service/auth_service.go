package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"edudbt_backend/internals/constants"
	"edudbt_backend/internals/features/users/auth/dto"
	authModel "edudbt_backend/internals/features/users/auth/model"
	authRepo "edudbt_backend/internals/features/users/auth/repository"
	notificationModel "edudbt_backend/internals/features/users/notifications/model"
	notificationService "edudbt_backend/internals/features/users/notifications/service"
	userDto "edudbt_backend/internals/features/users/user/dto"
	userModel "edudbt_backend/internals/features/users/user/model"
	userRepo "edudbt_backend/internals/features/users/user/repository"
	helper "edudbt_backend/internals/helpers"
	"edudbt_backend/internals/infra/events"
	"edudbt_backend/internals/infra/mailer"
)

const resetTokenTTL = time.Hour

type Config struct {
	JWTSecret   string
	TokenTTL    time.Duration
	FrontendURL string
}

type AuthService struct {
	cfg      Config
	users    userRepo.UserRepository
	tokens   authRepo.TokenRepository
	google   GoogleVerifier
	mail     mailer.Mailer
	events   events.Publisher
	notifier notificationService.Notifier
	now      func() time.Time
}

func NewAuthService(
	cfg Config,
	users userRepo.UserRepository,
	tokens authRepo.TokenRepository,
	google GoogleVerifier,
	mail mailer.Mailer,
	publisher events.Publisher,
	notifier notificationService.Notifier,
) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		cfg:      cfg,
		users:    users,
		tokens:   tokens,
		google:   google,
		mail:     mail,
		events:   publisher,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) issue(u *userModel.UserModel) (*dto.AuthResponse, error) {
	token, exp, err := GenerateAccessToken(u, s.cfg.JWTSecret, s.cfg.TokenTTL, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &dto.AuthResponse{
		User:        userDto.FromModel(u),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
	}, nil
}

/* ==========================
   REGISTER
========================== */

func (s *AuthService) takenFields(ctx context.Context, email, userName string) (*helper.ValidationErrors, error) {
	ve := &helper.ValidationErrors{}
	if taken, err := s.users.EmailTaken(ctx, email); err != nil {
		return nil, err
	} else if taken {
		ve.Add("email", "email already registered")
	}
	if taken, err := s.users.UserNameTaken(ctx, userName); err != nil {
		return nil, err
	} else if taken {
		ve.Add("user_name", "username already taken")
	}
	return ve, nil
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	ve, err := s.takenFields(ctx, req.Email, req.UserName)
	if err != nil {
		return nil, err
	}
	if !ve.Empty() {
		return nil, ve
	}

	hash, err := helper.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	lang := req.Language
	if lang == "" {
		lang = userModel.LanguageEnglish
	}
	u := &userModel.UserModel{
		UserName: req.UserName,
		Email:    req.Email,
		Password: hash,
		FullName: req.FullName,
		Role:     constants.RoleStudent,
		IsActive: true,
		Language: lang,
	}
	if req.PhoneNumber != "" {
		u.PhoneNumber = &req.PhoneNumber
	}

	if err := s.users.Create(ctx, u); err != nil {
		if !errors.Is(err, userRepo.ErrDuplicate) {
			return nil, err
		}
		// lost a race with another registration
		ve, err := s.takenFields(ctx, req.Email, req.UserName)
		if err != nil {
			return nil, err
		}
		if ve.Empty() {
			ve.Add("email", "email already registered")
		}
		return nil, ve
	}
	log.Printf("[REGISTER] user=%s user_name=%s", u.ID, u.UserName)

	events.Emit(ctx, s.events, events.New(events.UserRegistered, u.ID.String(), map[string]any{
		"user_id":   u.ID,
		"user_name": u.UserName,
		"language":  u.Language,
	}))
	s.notifier.Notify(ctx, u.ID, notificationModel.NotificationTypeInfo,
		"Welcome to EduDBT", "Start by linking your Aadhaar and adding your bank details to get DBT ready.")

	return s.issue(u)
}

/* ==========================
   LOGIN
========================== */

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	u, err := s.users.FindByIdentifier(ctx, req.Identifier)
	if errors.Is(err, userRepo.ErrNotFound) {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid email/username or password")
	}
	if err != nil {
		return nil, err
	}
	if err := helper.CheckPasswordHash(u.Password, req.Password); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid email/username or password")
	}
	return s.completeLogin(ctx, u)
}

func (s *AuthService) completeLogin(ctx context.Context, u *userModel.UserModel) (*dto.AuthResponse, error) {
	if !u.IsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "Your account has been deactivated. Please contact support.")
	}
	now := s.now()
	u.LastLoginAt = &now
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	ident, err := s.google.Verify(idToken)
	if err != nil {
		log.Println("[GOOGLE] verify failed:", err)
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid Google ID Token")
	}

	u, err := s.users.FindByGoogleID(ctx, ident.Subject)
	if err == nil {
		return s.completeLogin(ctx, u)
	}
	if !errors.Is(err, userRepo.ErrNotFound) {
		return nil, err
	}

	// linking or creating an account needs an email Google has verified
	if ident.Email == "" || !ident.EmailVerified {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Google account email is not verified")
	}

	// same email registered with a password: attach the Google account
	u, err = s.users.FindByEmail(ctx, ident.Email)
	if err == nil {
		u.GoogleID = &ident.Subject
		return s.completeLogin(ctx, u)
	}
	if !errors.Is(err, userRepo.ErrNotFound) {
		return nil, err
	}

	userName, err := s.availableUserName(ctx, ident.Email)
	if err != nil {
		return nil, err
	}
	random, err := randomToken(24)
	if err != nil {
		return nil, err
	}
	hash, err := helper.HashPassword(random)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(ident.Name)
	if name == "" {
		name = userName
	}
	u = &userModel.UserModel{
		UserName: userName,
		Email:    strings.ToLower(ident.Email),
		Password: hash,
		GoogleID: &ident.Subject,
		FullName: name,
		Role:     constants.RoleStudent,
		IsActive: true,
		Language: userModel.LanguageEnglish,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	events.Emit(ctx, s.events, events.New(events.UserRegistered, u.ID.String(), map[string]any{
		"user_id":   u.ID,
		"user_name": u.UserName,
		"provider":  "google",
	}))
	return s.completeLogin(ctx, u)
}

var reNonUserName = regexp.MustCompile(`[^a-z0-9_]+`)

// availableUserName derives a free user_name from the email's local part.
func (s *AuthService) availableUserName(ctx context.Context, email string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	base = strings.Trim(reNonUserName.ReplaceAllString(base, "_"), "_")
	if len(base) < 3 {
		base = "student_" + base
	}
	if len(base) > 24 {
		base = base[:24]
	}
	candidate := base
	for i := 2; i < 100; i++ {
		taken, err := s.users.UserNameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
	suffix, err := randomToken(3)
	if err != nil {
		return "", err
	}
	return base + "_" + suffix, nil
}

/* ==========================
   ME / LOGOUT
========================== */

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, userRepo.ErrNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return u, err
}

// Logout blacklists the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	exp, ok := tokenExpiry(token)
	if !ok {
		exp = s.now().Add(s.cfg.TokenTTL)
	}
	return s.tokens.Blacklist(ctx, token, exp)
}

/* ==========================
   PASSWORD RESET
========================== */

// ForgotPassword never reveals whether the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, userRepo.ErrNotFound) {
		log.Printf("[FORGOT] unknown email %q", email)
		return nil
	}
	if err != nil {
		return err
	}
	if !u.IsActive {
		return nil
	}

	token, err := randomToken(32)
	if err != nil {
		return err
	}
	pr := &authModel.PasswordResetModel{
		UserID:    u.ID,
		TokenHash: hashToken(token),
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.tokens.CreatePasswordReset(ctx, pr); err != nil {
		return err
	}

	link := s.cfg.FrontendURL + "/reset-password?token=" + token
	msg := mailer.Message{
		ToName:  u.FullName,
		ToEmail: u.Email,
		Subject: "Reset your password",
		Text: fmt.Sprintf("Hello %s,\n\nUse the link below to set a new password. It is valid for 1 hour.\n\n%s\n\nIf you did not ask for this, ignore this email.",
			u.FullName, link),
		HTML: fmt.Sprintf(`<p>Hello %s,</p><p>Use the link below to set a new password. It is valid for 1 hour.</p><p><a href="%s">Reset password</a></p><p>If you did not ask for this, ignore this email.</p>`,
			html.EscapeString(u.FullName), html.EscapeString(link)),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		log.Printf("[FORGOT] send mail to %s failed: %v", u.Email, err)
	}

	events.Emit(ctx, s.events, events.New(events.PasswordResetRequested, u.ID.String(), map[string]any{
		"user_id":    u.ID,
		"expires_at": pr.ExpiresAt,
	}))
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	invalid := fiber.NewError(fiber.StatusBadRequest, "Invalid or expired reset token")

	pr, err := s.tokens.FindPasswordReset(ctx, hashToken(req.Token))
	if errors.Is(err, authRepo.ErrNotFound) {
		return invalid
	}
	if err != nil {
		return err
	}
	if !pr.Usable(s.now()) {
		return invalid
	}

	u, err := s.users.FindByID(ctx, pr.UserID)
	if errors.Is(err, userRepo.ErrNotFound) {
		return invalid
	}
	if err != nil {
		return err
	}

	ok, err := s.tokens.ConsumePasswordReset(ctx, pr.ID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return invalid
	}

	hash, err := helper.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	if err := s.users.Save(ctx, u); err != nil {
		return err
	}
	s.notifier.Notify(ctx, u.ID, notificationModel.NotificationTypeSecurity,
		"Password changed", "Your password was reset. If this was not you, contact support immediately.")
	return nil
}
