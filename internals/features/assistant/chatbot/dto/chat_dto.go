package dto

import (
	"strings"
	"time"

	"edudbt_backend/internals/features/assistant/chatbot/model"
)

type MessageRequest struct {
	Message   string `json:"message" validate:"required,min=1,max=1000"`
	SessionID string `json:"session_id" validate:"omitempty,max=64"`
	Language  string `json:"language" validate:"omitempty,oneof=en hi"`
}

func (r *MessageRequest) Normalize() {
	r.Message = strings.TrimSpace(r.Message)
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
}

type MessageResponse struct {
	SessionID string    `json:"session_id"`
	Reply     string    `json:"reply"`
	Source    string    `json:"source"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	SessionID    string              `json:"session_id"`
	Language     string              `json:"language"`
	Messages     []model.ChatMessage `json:"messages"`
	LastActivity time.Time           `json:"last_activity_at"`
	ExpiresAt    time.Time           `json:"expires_at"`
}

func HistoryFromModel(m *model.ChatHistoryModel) HistoryResponse {
	msgs := []model.ChatMessage(m.ChatMessages)
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return HistoryResponse{
		SessionID:    m.ChatSessionID,
		Language:     m.ChatLanguage,
		Messages:     msgs,
		LastActivity: m.ChatLastActivity,
		ExpiresAt:    m.ChatExpiresAt,
	}
}

type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	Language     string    `json:"language"`
	MessageCount int       `json:"message_count"`
	LastMessage  string    `json:"last_message"`
	LastActivity time.Time `json:"last_activity_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

const previewRunes = 80

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes]) + "…"
}

func SummariesFromModels(rows []model.ChatHistoryModel) []SessionSummary {
	out := make([]SessionSummary, 0, len(rows))
	for _, m := range rows {
		s := SessionSummary{
			SessionID:    m.ChatSessionID,
			Language:     m.ChatLanguage,
			MessageCount: len(m.ChatMessages),
			LastActivity: m.ChatLastActivity,
			ExpiresAt:    m.ChatExpiresAt,
		}
		if n := len(m.ChatMessages); n > 0 {
			s.LastMessage = preview(m.ChatMessages[n-1].Content)
		}
		out = append(out, s)
	}
	return out
}
