package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "edudbt_backend/internals/features/users/auth/model"
)

var ErrUserNotFound = errors.New("user not found")

// TokenStore is what the middleware needs from the database.
type TokenStore interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	// FindUserStatus returns ErrUserNotFound for unknown or deleted users.
	FindUserStatus(ctx context.Context, userID uuid.UUID) (UserStatus, error)
}

// UserStatus is the stored state a token is checked against on every request.
type UserStatus struct {
	IsActive bool
	Role     string
}

type gormTokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) TokenStore {
	return &gormTokenStore{db: db}
}

func (s *gormTokenStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&authModel.TokenBlacklistModel{}).
		Where("token = ?", token).
		Count(&n).Error
	return n > 0, err
}

func (s *gormTokenStore) FindUserStatus(ctx context.Context, userID uuid.UUID) (UserStatus, error) {
	var st UserStatus
	err := s.db.WithContext(ctx).
		Table("users").
		Select("is_active, role").
		Where("id = ? AND deleted_at IS NULL", userID).
		Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return UserStatus{}, ErrUserNotFound
	}
	return st, err
}
