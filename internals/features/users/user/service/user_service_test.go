package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/features/users/user/dto"
	"edudbt_backend/internals/features/users/user/model"
	"edudbt_backend/internals/features/users/user/repository"
	helper "edudbt_backend/internals/helpers"
)

func newService(t *testing.T) (*UserService, *repository.MemoryUserRepository, *model.UserModel) {
	t.Helper()
	repo := repository.NewMemoryUserRepository()
	hash, err := helper.HashPassword("Secret123")
	require.NoError(t, err)
	u := &model.UserModel{UserName: "asha_k", Email: "asha@example.in", FullName: "Asha Kumari", Password: hash, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), u))

	stats := repository.StaticStats{Stats: repository.UserStats{QuizzesAttempted: 3, QuizzesPassed: 2}}
	return NewUserService(repo, stats, "pepper"), repo, u
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	var ve *helper.ValidationErrors
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest
	}
	return 0
}

func TestLinkAadhaarStoresOnlyMaskAndHash(t *testing.T) {
	svc, _, u := newService(t)
	ctx := context.Background()

	got, err := svc.LinkAadhaar(ctx, u.ID, dto.LinkAadhaarRequest{AadhaarNumber: "234567890124"})
	require.NoError(t, err)
	assert.True(t, got.AadhaarLinked)
	assert.Equal(t, "XXXX-XXXX-0124", *got.AadhaarMasked)
	assert.Equal(t, helper.KeyedHash("pepper", "234567890124"), *got.AadhaarHash)
	assert.NotNil(t, got.AadhaarLinkedAt)
}

func TestLinkAadhaarTakenByAnotherAccount(t *testing.T) {
	svc, repo, u := newService(t)
	ctx := context.Background()
	other := &model.UserModel{UserName: "ravi", Email: "ravi@example.in", FullName: "Ravi", IsActive: true}
	require.NoError(t, repo.Create(ctx, other))

	_, err := svc.LinkAadhaar(ctx, u.ID, dto.LinkAadhaarRequest{AadhaarNumber: "234567890124"})
	require.NoError(t, err)
	_, err = svc.LinkAadhaar(ctx, other.ID, dto.LinkAadhaarRequest{AadhaarNumber: "2345 6789 0124"})
	assert.Equal(t, fiber.StatusConflict, statusOf(err))

	// relinking the same number on the same account is fine
	_, err = svc.LinkAadhaar(ctx, u.ID, dto.LinkAadhaarRequest{AadhaarNumber: "234567890124"})
	assert.NoError(t, err)
}

func TestBankDetailsDBTRequiresAadhaar(t *testing.T) {
	svc, _, u := newService(t)
	ctx := context.Background()
	req := dto.BankDetailsRequest{
		AccountHolder: "Asha Kumari",
		AccountNumber: "123456789012",
		IFSC:          "SBIN0001234",
		BankName:      "State Bank of India",
		AadhaarSeeded: true,
		DBTEnabled:    true,
	}

	_, err := svc.UpdateBankDetails(ctx, u.ID, req)
	var ve *helper.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "dbt_enabled")

	_, err = svc.LinkAadhaar(ctx, u.ID, dto.LinkAadhaarRequest{AadhaarNumber: "498765432102"})
	require.NoError(t, err)

	got, err := svc.UpdateBankDetails(ctx, u.ID, req)
	require.NoError(t, err)
	assert.True(t, got.BankDBTEnabled)
	assert.Equal(t, "XXXXXXXX9012", *got.BankAccountMasked)

	resp := dto.FromModel(got)
	require.NotNil(t, resp.Bank)
	assert.Equal(t, dto.Readiness{AadhaarLinked: true, BankAdded: true, AadhaarSeeded: true, DBTEnabled: true}, resp.Readiness)

	got, err = svc.UnlinkAadhaar(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.BankDBTEnabled, "DBT cannot stay enabled without Aadhaar")
}

func TestChangePassword(t *testing.T) {
	svc, repo, u := newService(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "NewSecret1"})
	assert.Equal(t, fiber.StatusBadRequest, statusOf(err))

	require.NoError(t, svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "Secret123", NewPassword: "NewSecret1"}))
	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, helper.CheckPasswordHash(stored.Password, "NewSecret1"))
}

func TestUpdateProfile(t *testing.T) {
	svc, _, u := newService(t)
	name, lang, dob, empty := "Asha K", "hi", "2004-05-17", ""
	got, err := svc.UpdateProfile(context.Background(), u.ID, dto.UpdateProfileRequest{
		FullName:    &name,
		Language:    &lang,
		DateOfBirth: &dob,
		State:       &empty,
		Preferences: map[string]any{"theme": "dark"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", got.FullName)
	assert.Equal(t, "hi", got.Language)
	assert.Nil(t, got.State)
	assert.Equal(t, "dark", got.Preferences["theme"])
	assert.Equal(t, "2004-05-17", *dto.FromModel(got).DateOfBirth)

	future := "2999-01-01"
	_, err = svc.UpdateProfile(context.Background(), u.ID, dto.UpdateProfileRequest{DateOfBirth: &future})
	assert.Equal(t, fiber.StatusBadRequest, statusOf(err))
}

func TestStatsIncludesReadiness(t *testing.T) {
	svc, _, u := newService(t)
	st, err := svc.Stats(context.Background(), u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.QuizzesAttempted)
	assert.False(t, st.Readiness.AadhaarLinked)
}

func TestAdminGuards(t *testing.T) {
	svc, _, u := newService(t)
	ctx := context.Background()

	_, err := svc.SetActive(ctx, u.ID, u.ID, false)
	assert.Equal(t, fiber.StatusBadRequest, statusOf(err))

	_, _, err = svc.List(ctx, repository.UserFilter{Role: "teacher"}, helper.NewPaging(1, 10, 10, 100))
	assert.Equal(t, fiber.StatusBadRequest, statusOf(err))

	rows, total, err := svc.List(ctx, repository.UserFilter{Search: "ASHA"}, helper.NewPaging(1, 10, 10, 100))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, rows, 1)
}
