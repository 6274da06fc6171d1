package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	authModel "edudbt_backend/internals/features/users/auth/model"
)

type MemoryTokenRepository struct {
	mu        sync.Mutex
	blacklist map[string]time.Time
	resets    map[uuid.UUID]*authModel.PasswordResetModel
}

func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{
		blacklist: map[string]time.Time{},
		resets:    map[uuid.UUID]*authModel.PasswordResetModel{},
	}
}

func (r *MemoryTokenRepository) Blacklist(_ context.Context, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blacklist[token]; !ok {
		r.blacklist[token] = expiresAt
	}
	return nil
}

func (r *MemoryTokenRepository) IsBlacklisted(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.blacklist[token]
	return ok, nil
}

func (r *MemoryTokenRepository) CreatePasswordReset(_ context.Context, pr *authModel.PasswordResetModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	pr.CreatedAt = time.Now()
	cp := *pr
	r.resets[pr.ID] = &cp
	return nil
}

func (r *MemoryTokenRepository) FindPasswordReset(_ context.Context, tokenHash string) (*authModel.PasswordResetModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pr := range r.resets {
		if pr.TokenHash == tokenHash {
			cp := *pr
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryTokenRepository) ConsumePasswordReset(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.resets[id]
	if !ok || pr.UsedAt != nil {
		return false, nil
	}
	pr.UsedAt = &at
	return true, nil
}

func (r *MemoryTokenRepository) CleanupExpired(_ context.Context, now time.Time, dryRun bool) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var bl, prs int64
	for tok, exp := range r.blacklist {
		if !exp.After(now) {
			bl++
			if !dryRun {
				delete(r.blacklist, tok)
			}
		}
	}
	for id, pr := range r.resets {
		if !pr.ExpiresAt.After(now) || pr.UsedAt != nil {
			prs++
			if !dryRun {
				delete(r.resets, id)
			}
		}
	}
	return bl, prs, nil
}
