package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatHistoryModel is one chat session. Rows past chat_expires_at are
// treated as gone by every read and purged by the cleanup scheduler.
type ChatHistoryModel struct {
	ChatID           uuid.UUID                        `gorm:"column:chat_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"chat_id"`
	ChatSessionID    string                           `gorm:"column:chat_session_id;type:varchar(64);not null;uniqueIndex" json:"chat_session_id"`
	ChatUserID       *uuid.UUID                       `gorm:"column:chat_user_id;type:uuid;index" json:"chat_user_id,omitempty"`
	ChatLanguage     string                           `gorm:"column:chat_language;type:varchar(5);not null;default:'en'" json:"chat_language"`
	ChatMessages     datatypes.JSONSlice[ChatMessage] `gorm:"column:chat_messages;type:jsonb;not null;default:'[]'" json:"chat_messages"`
	ChatLastActivity time.Time                        `gorm:"column:chat_last_activity_at;not null" json:"chat_last_activity_at"`
	ChatExpiresAt    time.Time                        `gorm:"column:chat_expires_at;not null;index" json:"chat_expires_at"`
	ChatCreatedAt    time.Time                        `gorm:"column:chat_created_at;autoCreateTime" json:"chat_created_at"`
}

func (ChatHistoryModel) TableName() string { return "chat_histories" }

func (m *ChatHistoryModel) Expired(now time.Time) bool {
	return !now.Before(m.ChatExpiresAt)
}

// Touch appends turns and slides the expiry window.
func (m *ChatHistoryModel) Touch(now time.Time, retention time.Duration, msgs ...ChatMessage) {
	m.ChatMessages = append(m.ChatMessages, msgs...)
	m.ChatLastActivity = now
	m.ChatExpiresAt = now.Add(retention)
}

// LastTurns returns at most n trailing messages.
func (m *ChatHistoryModel) LastTurns(n int) []ChatMessage {
	if n <= 0 || len(m.ChatMessages) <= n {
		return m.ChatMessages
	}
	return m.ChatMessages[len(m.ChatMessages)-n:]
}
