package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edudbt_backend/internals/features/users/user/model"
	helper "edudbt_backend/internals/helpers"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user already exists")
)

type UserFilter struct {
	Search string // user_name / email / full_name
	Role   string
	Active *bool
}

type UserRepository interface {
	Create(ctx context.Context, u *model.UserModel) error
	Save(ctx context.Context, u *model.UserModel) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UserModel, error)
	// FindByIdentifier matches an email (case-insensitive) or an exact user_name.
	FindByIdentifier(ctx context.Context, identifier string) (*model.UserModel, error)
	FindByEmail(ctx context.Context, email string) (*model.UserModel, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.UserModel, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UserNameTaken(ctx context.Context, userName string) (bool, error)
	// AadhaarLinkedElsewhere reports whether another account holds the same Aadhaar hash.
	AadhaarLinkedElsewhere(ctx context.Context, hash string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context, f UserFilter, p helper.Paging) ([]model.UserModel, int64, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, u *model.UserModel) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *gormUserRepository) Save(ctx context.Context, u *model.UserModel) error {
	err := r.db.WithContext(ctx).Save(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *gormUserRepository) first(ctx context.Context, query string, args ...any) (*model.UserModel, error) {
	var u model.UserModel
	err := r.db.WithContext(ctx).Where(query, args...).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.UserModel, error) {
	identifier = strings.TrimSpace(identifier)
	return r.first(ctx, "LOWER(email) = LOWER(?) OR user_name = ?", identifier, identifier)
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", strings.TrimSpace(email))
}

func (r *gormUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.UserModel, error) {
	return r.first(ctx, "google_id = ?", googleID)
}

func (r *gormUserRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UserModel{}).Where(query, args...).Limit(1).Count(&n).Error
	return n > 0, err
}

func (r *gormUserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", strings.TrimSpace(email))
}

func (r *gormUserRepository) UserNameTaken(ctx context.Context, userName string) (bool, error) {
	return r.exists(ctx, "user_name = ?", strings.TrimSpace(userName))
}

func (r *gormUserRepository) AadhaarLinkedElsewhere(ctx context.Context, hash string, exclude uuid.UUID) (bool, error) {
	return r.exists(ctx, "aadhaar_hash = ? AND id <> ?", hash, exclude)
}

func (r *gormUserRepository) List(ctx context.Context, f UserFilter, p helper.Paging) ([]model.UserModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.UserModel{})
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(user_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like, like)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.UserModel
	if err := q.Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
