package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"edudbt_backend/internals/constants"
	"edudbt_backend/internals/features/users/user/dto"
	"edudbt_backend/internals/features/users/user/model"
	"edudbt_backend/internals/features/users/user/repository"
	helper "edudbt_backend/internals/helpers"
)

type UserService struct {
	users         repository.UserRepository
	stats         repository.StatsRepository
	aadhaarPepper string
	now           func() time.Time
}

func NewUserService(users repository.UserRepository, stats repository.StatsRepository, aadhaarPepper string) *UserService {
	return &UserService{
		users:         users,
		stats:         stats,
		aadhaarPepper: aadhaarPepper,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) load(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return u, err
}

func (s *UserService) Profile(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	return s.load(ctx, id)
}

func optional(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) (*model.UserModel, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = optional(req.PhoneNumber)
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			u.DateOfBirth = nil
		} else {
			dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				return nil, helper.FieldError("date_of_birth", "must be a date in 2006-01-02 format")
			}
			if dob.After(s.now()) {
				return nil, helper.FieldError("date_of_birth", "must not be in the future")
			}
			u.DateOfBirth = &dob
		}
	}
	if req.Gender != nil {
		u.Gender = optional(req.Gender)
	}
	if req.State != nil {
		u.State = optional(req.State)
	}
	if req.District != nil {
		u.District = optional(req.District)
	}
	if req.Institution != nil {
		u.Institution = optional(req.Institution)
	}
	if req.Course != nil {
		u.Course = optional(req.Course)
	}
	if req.Language != nil {
		u.Language = *req.Language
	}
	if req.Preferences != nil {
		u.Preferences = datatypes.JSONMap(req.Preferences)
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, req dto.ChangePasswordRequest) error {
	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := helper.CheckPasswordHash(u.Password, req.CurrentPassword); err != nil {
		return helper.FieldError("current_password", "current password is incorrect")
	}
	if req.CurrentPassword == req.NewPassword {
		return helper.FieldError("new_password", "must differ from the current password")
	}
	hash, err := helper.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	return s.users.Save(ctx, u)
}

// LinkAadhaar records a self-declared Aadhaar number: only the mask and a keyed hash are kept.
func (s *UserService) LinkAadhaar(ctx context.Context, id uuid.UUID, req dto.LinkAadhaarRequest) (*model.UserModel, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	number := helper.NormalizeAadhaar(req.AadhaarNumber)
	hash := helper.KeyedHash(s.aadhaarPepper, number)

	taken, err := s.users.AadhaarLinkedElsewhere(ctx, hash, u.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fiber.NewError(fiber.StatusConflict, "This Aadhaar number is already linked to another account")
	}

	masked := helper.MaskAadhaar(number)
	now := s.now()
	u.AadhaarLinked = true
	u.AadhaarMasked = &masked
	u.AadhaarHash = &hash
	u.AadhaarLinkedAt = &now
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	log.Printf("[AADHAAR] user=%s linked %s", u.ID, masked)
	return u, nil
}

// UnlinkAadhaar also switches DBT off, since DBT requires a linked Aadhaar.
func (s *UserService) UnlinkAadhaar(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.AadhaarLinked {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Aadhaar is not linked")
	}
	u.AadhaarLinked = false
	u.AadhaarMasked = nil
	u.AadhaarHash = nil
	u.AadhaarLinkedAt = nil
	u.BankDBTEnabled = false
	u.BankAadhaarSeeded = false
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdateBankDetails(ctx context.Context, id uuid.UUID, req dto.BankDetailsRequest) (*model.UserModel, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if (req.DBTEnabled || req.AadhaarSeeded) && !u.AadhaarLinked {
		field := "dbt_enabled"
		if !req.DBTEnabled {
			field = "aadhaar_seeded"
		}
		return nil, helper.FieldError(field, "link your Aadhaar before enabling this")
	}

	masked := helper.MaskAccount(req.AccountNumber)
	hash := helper.KeyedHash(s.aadhaarPepper, req.AccountNumber)
	now := s.now()
	u.BankAccountHolder = &req.AccountHolder
	u.BankAccountMasked = &masked
	u.BankAccountHash = &hash
	u.BankIFSC = &req.IFSC
	u.BankName = &req.BankName
	u.BankAadhaarSeeded = req.AadhaarSeeded
	u.BankDBTEnabled = req.DBTEnabled
	u.BankUpdatedAt = &now
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Stats(ctx context.Context, id uuid.UUID) (*dto.StatsResponse, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	st, err := s.stats.ForUser(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{UserStats: st, Readiness: dto.ReadinessOf(u)}, nil
}

/* =========================
   Admin
========================= */

func (s *UserService) List(ctx context.Context, f repository.UserFilter, p helper.Paging) ([]model.UserModel, int64, error) {
	if f.Role != "" && !constants.IsValidRole(f.Role) {
		return nil, 0, helper.FieldError("role", "must be one of: "+strings.Join(constants.AllRoles, ", "))
	}
	return s.users.List(ctx, f, p)
}

func (s *UserService) SetActive(ctx context.Context, actor, id uuid.UUID, active bool) (*model.UserModel, error) {
	if actor == id && !active {
		return nil, fiber.NewError(fiber.StatusBadRequest, "You cannot deactivate your own account")
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsActive = active
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) SetRole(ctx context.Context, actor, id uuid.UUID, role string) (*model.UserModel, error) {
	if actor == id && role != constants.RoleAdmin {
		return nil, fiber.NewError(fiber.StatusBadRequest, "You cannot remove your own admin role")
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
