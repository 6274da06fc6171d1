package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeInfo        = "info"
	NotificationTypeQuiz        = "quiz"
	NotificationTypeApplication = "application"
	NotificationTypeSecurity    = "security"
)

type NotificationModel struct {
	NotificationID        uuid.UUID  `gorm:"column:notification_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"notification_id"`
	NotificationUserID    uuid.UUID  `gorm:"column:notification_user_id;type:uuid;not null;index:idx_notifications_user_read,priority:1" json:"notification_user_id"`
	NotificationTitle     string     `gorm:"column:notification_title;type:varchar(255);not null" json:"notification_title"`
	NotificationMessage   string     `gorm:"column:notification_message;type:text" json:"notification_message"`
	NotificationType      string     `gorm:"column:notification_type;type:varchar(20);not null;default:'info'" json:"notification_type"`
	NotificationIsRead    bool       `gorm:"column:notification_is_read;not null;default:false;index:idx_notifications_user_read,priority:2" json:"notification_is_read"`
	NotificationReadAt    *time.Time `gorm:"column:notification_read_at" json:"notification_read_at,omitempty"`
	NotificationCreatedAt time.Time  `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
