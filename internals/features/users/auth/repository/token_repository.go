// internals/features/users/auth/repository/token_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "edudbt_backend/internals/features/users/auth/model"
)

var ErrNotFound = errors.New("token not found")

type TokenRepository interface {
	/* ====================== BLACKLIST TOKEN ====================== */
	Blacklist(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)

	/* ====================== PASSWORD RESET ====================== */
	CreatePasswordReset(ctx context.Context, pr *authModel.PasswordResetModel) error
	FindPasswordReset(ctx context.Context, tokenHash string) (*authModel.PasswordResetModel, error)
	// ConsumePasswordReset marks the reset used; false when it was already used.
	ConsumePasswordReset(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	CleanupExpired(ctx context.Context, now time.Time, dryRun bool) (blacklisted int64, resets int64, err error)
}

type gormTokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &gormTokenRepository{db: db}
}

func (r *gormTokenRepository) Blacklist(ctx context.Context, token string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&authModel.TokenBlacklistModel{Token: token, ExpiredAt: expiresAt}).Error
}

func (r *gormTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&authModel.TokenBlacklistModel{}).Where("token = ?", token).Count(&n).Error
	return n > 0, err
}

func (r *gormTokenRepository) CreatePasswordReset(ctx context.Context, pr *authModel.PasswordResetModel) error {
	return r.db.WithContext(ctx).Create(pr).Error
}

func (r *gormTokenRepository) FindPasswordReset(ctx context.Context, tokenHash string) (*authModel.PasswordResetModel, error) {
	var pr authModel.PasswordResetModel
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Take(&pr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *gormTokenRepository) ConsumePasswordReset(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&authModel.PasswordResetModel{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	return res.RowsAffected == 1, res.Error
}

func (r *gormTokenRepository) CleanupExpired(ctx context.Context, now time.Time, dryRun bool) (int64, int64, error) {
	db := r.db.WithContext(ctx)
	blq := db.Model(&authModel.TokenBlacklistModel{}).Where("expired_at <= ?", now)
	prq := db.Model(&authModel.PasswordResetModel{}).Where("expires_at <= ? OR used_at IS NOT NULL", now)

	if dryRun {
		var bl, pr int64
		if err := blq.Count(&bl).Error; err != nil {
			return 0, 0, err
		}
		if err := prq.Count(&pr).Error; err != nil {
			return 0, 0, err
		}
		return bl, pr, nil
	}

	res := db.Where("expired_at <= ?", now).Delete(&authModel.TokenBlacklistModel{})
	if res.Error != nil {
		return 0, 0, res.Error
	}
	res2 := db.Where("expires_at <= ? OR used_at IS NOT NULL", now).Delete(&authModel.PasswordResetModel{})
	if res2.Error != nil {
		return res.RowsAffected, 0, res2.Error
	}
	return res.RowsAffected, res2.RowsAffected, nil
}
