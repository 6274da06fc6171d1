package model

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetModel stores only the sha256 of the emailed token.
type PasswordResetModel struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	TokenHash string     `gorm:"column:token_hash;size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"column:expires_at;type:timestamptz;not null" json:"expires_at"`
	UsedAt    *time.Time `gorm:"column:used_at;type:timestamptz" json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
}

func (PasswordResetModel) TableName() string {
	return "password_resets"
}

func (m *PasswordResetModel) Usable(now time.Time) bool {
	return m.UsedAt == nil && now.Before(m.ExpiresAt)
}
