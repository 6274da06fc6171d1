package dto

import (
	"time"

	"github.com/google/uuid"

	"edudbt_backend/internals/features/users/notifications/model"
)

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromModel(m model.NotificationModel) NotificationResponse {
	return NotificationResponse{
		ID:        m.NotificationID,
		Title:     m.NotificationTitle,
		Message:   m.NotificationMessage,
		Type:      m.NotificationType,
		IsRead:    m.NotificationIsRead,
		ReadAt:    m.NotificationReadAt,
		CreatedAt: m.NotificationCreatedAt,
	}
}

func FromModels(rows []model.NotificationModel) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}
