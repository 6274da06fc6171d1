package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenBlacklistModel holds logged-out access tokens until they would have expired anyway.
type TokenBlacklistModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Token     string    `gorm:"column:token;type:text;not null;uniqueIndex" json:"-"`
	ExpiredAt time.Time `gorm:"column:expired_at;type:timestamptz;not null;index" json:"expired_at"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
}

func (TokenBlacklistModel) TableName() string { return "token_blacklist" }

