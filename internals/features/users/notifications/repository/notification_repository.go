package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edudbt_backend/internals/features/users/notifications/model"
	helper "edudbt_backend/internals/helpers"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.NotificationModel) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p helper.Paging) ([]model.NotificationModel, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkRead returns false when the notification does not exist or belongs to someone else.
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
}

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(ctx context.Context, n *model.NotificationModel) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *gormNotificationRepository) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p helper.Paging) ([]model.NotificationModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.NotificationModel{}).Where("notification_user_id = ?", userID)
	if unreadOnly {
		q = q.Where("notification_is_read = FALSE")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.NotificationModel
	err := q.Order("notification_created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error
	return rows, total, err
}

func (r *gormNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("notification_user_id = ? AND notification_is_read = FALSE", userID).
		Count(&n).Error
	return n, err
}

func (r *gormNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("notification_id = ? AND notification_user_id = ?", id, userID).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	err := r.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("notification_id = ? AND notification_is_read = FALSE", id).
		Updates(map[string]any{"notification_is_read": true, "notification_read_at": at}).Error
	return err == nil, err
}

func (r *gormNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.NotificationModel{}).
		Where("notification_user_id = ? AND notification_is_read = FALSE", userID).
		Updates(map[string]any{"notification_is_read": true, "notification_read_at": at})
	return res.RowsAffected, res.Error
}

/* =========================
   In-memory
========================= */

type MemoryNotificationRepository struct {
	mu   sync.Mutex
	rows []model.NotificationModel
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{}
}

func (r *MemoryNotificationRepository) Create(_ context.Context, n *model.NotificationModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	n.NotificationCreatedAt = time.Now().Add(time.Duration(len(r.rows)) * time.Millisecond)
	r.rows = append(r.rows, *n)
	return nil
}

func (r *MemoryNotificationRepository) List(_ context.Context, userID uuid.UUID, unreadOnly bool, p helper.Paging) ([]model.NotificationModel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.NotificationModel
	for _, n := range r.rows {
		if n.NotificationUserID != userID || (unreadOnly && n.NotificationIsRead) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NotificationCreatedAt.After(out[j].NotificationCreatedAt) })
	total := int64(len(out))
	if p.Offset >= len(out) {
		return []model.NotificationModel{}, total, nil
	}
	end := p.Offset + p.Limit
	if p.Limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[p.Offset:end], total, nil
}

func (r *MemoryNotificationRepository) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.NotificationUserID == userID && !row.NotificationIsRead {
			n++
		}
	}
	return n, nil
}

func (r *MemoryNotificationRepository) MarkRead(_ context.Context, userID, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].NotificationID == id && r.rows[i].NotificationUserID == userID {
			if !r.rows[i].NotificationIsRead {
				r.rows[i].NotificationIsRead = true
				r.rows[i].NotificationReadAt = &at
			}
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryNotificationRepository) MarkAllRead(_ context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.rows {
		if r.rows[i].NotificationUserID == userID && !r.rows[i].NotificationIsRead {
			r.rows[i].NotificationIsRead = true
			r.rows[i].NotificationReadAt = &at
			n++
		}
	}
	return n, nil
}
