package service

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"edudbt_backend/internals/features/users/notifications/model"
	"edudbt_backend/internals/features/users/notifications/repository"
	helper "edudbt_backend/internals/helpers"
)

// Notifier is what other features use to drop a message into a user's inbox.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message string)
}

type NotificationService struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Notify is best effort: a failed insert is logged, never returned.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, kind, title, message string) {
	n := &model.NotificationModel{
		NotificationUserID:  userID,
		NotificationTitle:   title,
		NotificationMessage: message,
		NotificationType:    kind,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("[NOTIFY] user=%s type=%s failed: %v", userID, kind, err)
	}
}

type ListResult struct {
	Rows   []model.NotificationModel
	Total  int64
	Unread int64
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p helper.Paging) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, userID, unreadOnly, p)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListResult{Rows: rows, Total: total, Unread: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.repo.MarkRead(ctx, userID, id, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now())
}
