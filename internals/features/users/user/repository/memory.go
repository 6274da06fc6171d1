package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"edudbt_backend/internals/features/users/user/model"
	helper "edudbt_backend/internals/helpers"
)

// MemoryUserRepository is an in-process UserRepository for tests and local tooling.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.UserModel
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[uuid.UUID]model.UserModel{}}
}

func (r *MemoryUserRepository) conflicts(u *model.UserModel) bool {
	for id, other := range r.users {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(other.Email, u.Email) || other.UserName == u.UserName {
			return true
		}
		if u.GoogleID != nil && other.GoogleID != nil && *u.GoogleID == *other.GoogleID {
			return true
		}
	}
	return false
}

func (r *MemoryUserRepository) Create(_ context.Context, u *model.UserModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if r.conflicts(u) {
		return ErrDuplicate
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Role == "" {
		u.Role = "student"
	}
	if u.Language == "" {
		u.Language = model.LanguageEnglish
	}
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) Save(_ context.Context, u *model.UserModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts(u) {
		return ErrDuplicate
	}
	u.UpdatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) find(match func(model.UserModel) bool) (*model.UserModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id uuid.UUID) (*model.UserModel, error) {
	return r.find(func(u model.UserModel) bool { return u.ID == id })
}

func (r *MemoryUserRepository) FindByIdentifier(_ context.Context, identifier string) (*model.UserModel, error) {
	identifier = strings.TrimSpace(identifier)
	return r.find(func(u model.UserModel) bool {
		return strings.EqualFold(u.Email, identifier) || u.UserName == identifier
	})
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.UserModel, error) {
	email = strings.TrimSpace(email)
	return r.find(func(u model.UserModel) bool { return strings.EqualFold(u.Email, email) })
}

func (r *MemoryUserRepository) FindByGoogleID(_ context.Context, googleID string) (*model.UserModel, error) {
	return r.find(func(u model.UserModel) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (r *MemoryUserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *MemoryUserRepository) UserNameTaken(_ context.Context, userName string) (bool, error) {
	userName = strings.TrimSpace(userName)
	_, err := r.find(func(u model.UserModel) bool { return u.UserName == userName })
	return err == nil, nil
}

func (r *MemoryUserRepository) AadhaarLinkedElsewhere(_ context.Context, hash string, exclude uuid.UUID) (bool, error) {
	_, err := r.find(func(u model.UserModel) bool {
		return u.ID != exclude && u.AadhaarHash != nil && *u.AadhaarHash == hash
	})
	return err == nil, nil
}

func (r *MemoryUserRepository) List(_ context.Context, f UserFilter, p helper.Paging) ([]model.UserModel, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := strings.ToLower(strings.TrimSpace(f.Search))
	var out []model.UserModel
	for _, u := range r.users {
		if s != "" && !strings.Contains(strings.ToLower(u.UserName+" "+u.Email+" "+u.FullName), s) {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Active != nil && u.IsActive != *f.Active {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if p.Offset >= len(out) {
		return []model.UserModel{}, total, nil
	}
	end := p.Offset + p.Limit
	if p.Limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[p.Offset:end], total, nil
}

// StaticStats returns the same UserStats for every user.
type StaticStats struct {
	Stats UserStats
}

func (s StaticStats) ForUser(context.Context, uuid.UUID, time.Time) (*UserStats, error) {
	cp := s.Stats
	if cp.Applications == nil {
		cp.Applications = map[string]int64{}
	}
	return &cp, nil
}
