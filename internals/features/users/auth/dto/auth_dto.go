package dto

import (
	"strings"
	"time"

	userDto "edudbt_backend/internals/features/users/user/dto"
)

type RegisterRequest struct {
	UserName    string `json:"user_name" validate:"required,min=3,max=30,username"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,strong_password"`
	FullName    string `json:"full_name" validate:"required,min=2,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,indian_phone"`
	Language    string `json:"language" validate:"omitempty,oneof=en hi"`
}

func (r *RegisterRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
}

// LoginRequest accepts identifier, or email / user_name as aliases.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Email      string `json:"email" validate:"-"`
	UserName   string `json:"user_name" validate:"-"`
	Password   string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Identifier = strings.TrimSpace(r.Identifier)
	if r.Identifier == "" {
		r.Identifier = strings.TrimSpace(r.Email)
	}
	if r.Identifier == "" {
		r.Identifier = strings.TrimSpace(r.UserName)
	}
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Normalize() { r.Email = strings.ToLower(strings.TrimSpace(r.Email)) }

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strong_password"`
}

func (r *ResetPasswordRequest) Normalize() { r.Token = strings.TrimSpace(r.Token) }

type AuthResponse struct {
	User        userDto.UserResponse `json:"user"`
	AccessToken string               `json:"access_token"`
	TokenType   string               `json:"token_type"`
	ExpiresAt   time.Time            `json:"expires_at"`
}
