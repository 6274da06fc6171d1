package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edudbt_backend/internals/features/assistant/chatbot/model"
)

var ErrNotFound = errors.New("chat session not found")

// ChatRepository only ever returns live sessions; expired rows are invisible.
type ChatRepository interface {
	FindLive(ctx context.Context, sessionID string, now time.Time) (*model.ChatHistoryModel, error)
	Create(ctx context.Context, m *model.ChatHistoryModel) error
	Save(ctx context.Context, m *model.ChatHistoryModel) error
	ListByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]model.ChatHistoryModel, error)
	Delete(ctx context.Context, sessionID string, userID uuid.UUID) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
	CountExpired(ctx context.Context, now time.Time) (int64, error)
}

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) FindLive(ctx context.Context, sessionID string, now time.Time) (*model.ChatHistoryModel, error) {
	var m model.ChatHistoryModel
	err := r.db.WithContext(ctx).
		Where("chat_session_id = ? AND chat_expires_at > ?", sessionID, now).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormChatRepository) Create(ctx context.Context, m *model.ChatHistoryModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormChatRepository) Save(ctx context.Context, m *model.ChatHistoryModel) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *gormChatRepository) ListByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]model.ChatHistoryModel, error) {
	var rows []model.ChatHistoryModel
	err := r.db.WithContext(ctx).
		Where("chat_user_id = ? AND chat_expires_at > ?", userID, now).
		Order("chat_last_activity_at DESC").
		Limit(100).
		Find(&rows).Error
	return rows, err
}

func (r *gormChatRepository) Delete(ctx context.Context, sessionID string, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("chat_session_id = ? AND chat_user_id = ?", sessionID, userID).
		Delete(&model.ChatHistoryModel{})
	return res.RowsAffected > 0, res.Error
}

func (r *gormChatRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("chat_expires_at <= ?", now).Delete(&model.ChatHistoryModel{})
	return res.RowsAffected, res.Error
}

func (r *gormChatRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ChatHistoryModel{}).Where("chat_expires_at <= ?", now).Count(&n).Error
	return n, err
}

/* =========================
   In-memory
========================= */

type MemoryChatRepository struct {
	mu   sync.Mutex
	rows map[string]model.ChatHistoryModel
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{rows: map[string]model.ChatHistoryModel{}}
}

func clone(m model.ChatHistoryModel) *model.ChatHistoryModel {
	m.ChatMessages = append(m.ChatMessages[:0:0], m.ChatMessages...)
	return &m
}

func (r *MemoryChatRepository) FindLive(_ context.Context, sessionID string, now time.Time) (*model.ChatHistoryModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[sessionID]
	if !ok || m.Expired(now) {
		return nil, ErrNotFound
	}
	return clone(m), nil
}

func (r *MemoryChatRepository) Create(_ context.Context, m *model.ChatHistoryModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ChatID == uuid.Nil {
		m.ChatID = uuid.New()
	}
	m.ChatCreatedAt = time.Now()
	r.rows[m.ChatSessionID] = *clone(*m)
	return nil
}

func (r *MemoryChatRepository) Save(_ context.Context, m *model.ChatHistoryModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[m.ChatSessionID] = *clone(*m)
	return nil
}

func (r *MemoryChatRepository) ListByUser(_ context.Context, userID uuid.UUID, now time.Time) ([]model.ChatHistoryModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ChatHistoryModel
	for _, m := range r.rows {
		if m.ChatUserID != nil && *m.ChatUserID == userID && !m.Expired(now) {
			out = append(out, *clone(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatLastActivity.After(out[j].ChatLastActivity) })
	return out, nil
}

func (r *MemoryChatRepository) Delete(_ context.Context, sessionID string, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[sessionID]
	if !ok || m.ChatUserID == nil || *m.ChatUserID != userID {
		return false, nil
	}
	delete(r.rows, sessionID)
	return true, nil
}

func (r *MemoryChatRepository) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.rows {
		if m.Expired(now) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *MemoryChatRepository) CountExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.rows {
		if m.Expired(now) {
			n++
		}
	}
	return n, nil
}

// Len counts stored rows, expired ones included.
func (r *MemoryChatRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
