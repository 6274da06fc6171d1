package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"edudbt_backend/internals/features/users/user/model"
	"edudbt_backend/internals/features/users/user/repository"
)

/* =========================
   Requests
========================= */

type UpdateProfileRequest struct {
	FullName    *string        `json:"full_name" validate:"omitempty,min=2,max=100"`
	PhoneNumber *string        `json:"phone_number" validate:"omitempty,indian_phone"`
	DateOfBirth *string        `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string        `json:"gender" validate:"omitempty,oneof=male female other"`
	State       *string        `json:"state" validate:"omitempty,max=60"`
	District    *string        `json:"district" validate:"omitempty,max=60"`
	Institution *string        `json:"institution" validate:"omitempty,max=160"`
	Course      *string        `json:"course" validate:"omitempty,max=120"`
	Language    *string        `json:"language" validate:"omitempty,oneof=en hi"`
	Preferences map[string]any `json:"preferences"`
}

func (r *UpdateProfileRequest) Normalize() {
	for _, p := range []*string{r.FullName, r.PhoneNumber, r.DateOfBirth, r.State, r.District, r.Institution, r.Course} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if r.Gender != nil {
		*r.Gender = strings.ToLower(strings.TrimSpace(*r.Gender))
	}
	if r.Language != nil {
		*r.Language = strings.ToLower(strings.TrimSpace(*r.Language))
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type LinkAadhaarRequest struct {
	AadhaarNumber string `json:"aadhaar_number" validate:"required,aadhaar"`
}

func (r *LinkAadhaarRequest) Normalize() {
	r.AadhaarNumber = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(r.AadhaarNumber))
}

type BankDetailsRequest struct {
	AccountHolder string `json:"account_holder" validate:"required,min=2,max=100"`
	AccountNumber string `json:"account_number" validate:"required,digits,min=9,max=18"`
	IFSC          string `json:"ifsc" validate:"required,ifsc"`
	BankName      string `json:"bank_name" validate:"required,max=100"`
	AadhaarSeeded bool   `json:"aadhaar_seeded"`
	DBTEnabled    bool   `json:"dbt_enabled"`
}

func (r *BankDetailsRequest) Normalize() {
	r.AccountHolder = strings.TrimSpace(r.AccountHolder)
	r.AccountNumber = strings.ReplaceAll(strings.TrimSpace(r.AccountNumber), " ", "")
	r.IFSC = strings.ToUpper(strings.TrimSpace(r.IFSC))
	r.BankName = strings.TrimSpace(r.BankName)
}

type AdminStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type AdminRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin"`
}

func (r *AdminRoleRequest) Normalize() { r.Role = strings.ToLower(strings.TrimSpace(r.Role)) }

/* =========================
   Responses
========================= */

type Readiness struct {
	AadhaarLinked bool `json:"aadhaar_linked"`
	BankAdded     bool `json:"bank_added"`
	AadhaarSeeded bool `json:"aadhaar_seeded"`
	DBTEnabled    bool `json:"dbt_enabled"`
}

type BankResponse struct {
	AccountHolder string     `json:"account_holder"`
	AccountMasked string     `json:"account_masked"`
	IFSC          string     `json:"ifsc"`
	BankName      string     `json:"bank_name"`
	AadhaarSeeded bool       `json:"aadhaar_seeded"`
	DBTEnabled    bool       `json:"dbt_enabled"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type UserResponse struct {
	ID              uuid.UUID      `json:"id"`
	UserName        string         `json:"user_name"`
	Email           string         `json:"email"`
	Role            string         `json:"role"`
	IsActive        bool           `json:"is_active"`
	FullName        string         `json:"full_name"`
	PhoneNumber     *string        `json:"phone_number,omitempty"`
	DateOfBirth     *string        `json:"date_of_birth,omitempty"`
	Gender          *string        `json:"gender,omitempty"`
	State           *string        `json:"state,omitempty"`
	District        *string        `json:"district,omitempty"`
	Institution     *string        `json:"institution,omitempty"`
	Course          *string        `json:"course,omitempty"`
	Language        string         `json:"language"`
	Preferences     map[string]any `json:"preferences"`
	AadhaarLinked   bool           `json:"aadhaar_linked"`
	AadhaarMasked   *string        `json:"aadhaar_masked,omitempty"`
	AadhaarLinkedAt *time.Time     `json:"aadhaar_linked_at,omitempty"`
	Bank            *BankResponse  `json:"bank,omitempty"`
	Readiness       Readiness      `json:"readiness"`
	LastLoginAt     *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ReadinessOf(u *model.UserModel) Readiness {
	return Readiness{
		AadhaarLinked: u.AadhaarLinked,
		BankAdded:     u.HasBankDetails(),
		AadhaarSeeded: u.BankAadhaarSeeded,
		DBTEnabled:    u.BankDBTEnabled,
	}
}

func FromModel(u *model.UserModel) UserResponse {
	out := UserResponse{
		ID:              u.ID,
		UserName:        u.UserName,
		Email:           u.Email,
		Role:            u.Role,
		IsActive:        u.IsActive,
		FullName:        u.FullName,
		PhoneNumber:     u.PhoneNumber,
		Gender:          u.Gender,
		State:           u.State,
		District:        u.District,
		Institution:     u.Institution,
		Course:          u.Course,
		Language:        u.Language,
		Preferences:     map[string]any(u.Preferences),
		AadhaarLinked:   u.AadhaarLinked,
		AadhaarMasked:   u.AadhaarMasked,
		AadhaarLinkedAt: u.AadhaarLinkedAt,
		Readiness:       ReadinessOf(u),
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
	}
	if out.Preferences == nil {
		out.Preferences = map[string]any{}
	}
	if u.DateOfBirth != nil {
		s := u.DateOfBirth.Format("2006-01-02")
		out.DateOfBirth = &s
	}
	if u.HasBankDetails() {
		out.Bank = &BankResponse{
			AccountHolder: deref(u.BankAccountHolder),
			AccountMasked: deref(u.BankAccountMasked),
			IFSC:          deref(u.BankIFSC),
			BankName:      deref(u.BankName),
			AadhaarSeeded: u.BankAadhaarSeeded,
			DBTEnabled:    u.BankDBTEnabled,
			UpdatedAt:     u.BankUpdatedAt,
		}
	}
	return out
}

func FromModels(rows []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type StatsResponse struct {
	*repository.UserStats
	Readiness Readiness `json:"readiness"`
}
