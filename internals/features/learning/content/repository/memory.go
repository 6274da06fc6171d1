package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"edudbt_backend/internals/features/learning/content/model"
	helper "edudbt_backend/internals/helpers"
)

type MemoryContentRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*model.ContentModel
}

func NewMemoryContentRepository() *MemoryContentRepository {
	return &MemoryContentRepository{rows: map[uuid.UUID]*model.ContentModel{}}
}

func (r *MemoryContentRepository) Create(_ context.Context, m *model.ContentModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ContentID == uuid.Nil {
		m.ContentID = uuid.New()
	}
	now := time.Now()
	m.ContentCreatedAt, m.ContentUpdatedAt = now, now
	cp := *m
	r.rows[m.ContentID] = &cp
	return nil
}

func (r *MemoryContentRepository) Update(_ context.Context, m *model.ContentModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[m.ContentID]
	if !ok {
		return ErrNotFound
	}
	m.ContentUpdatedAt = time.Now()
	cp := *m
	cp.ContentViewCount = cur.ContentViewCount
	cp.ContentAuthorID = cur.ContentAuthorID
	cp.ContentCreatedAt = cur.ContentCreatedAt
	r.rows[m.ContentID] = &cp
	return nil
}

func (r *MemoryContentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *MemoryContentRepository) FindByID(_ context.Context, id uuid.UUID) (*model.ContentModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *MemoryContentRepository) FindBySlug(_ context.Context, slug string) (*model.ContentModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.ContentSlug == slug {
			cp := *m
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryContentRepository) SlugExists(_ context.Context, slug string, exclude uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.rows {
		if id != exclude && m.ContentSlug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryContentRepository) filtered(f ContentFilter) []model.ContentModel {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []model.ContentModel
	for _, m := range r.rows {
		if !f.IncludeDrafts && !m.ContentIsPublished {
			continue
		}
		if f.Category != "" && m.ContentCategory != f.Category {
			continue
		}
		if f.Language != "" && m.ContentLanguage != f.Language {
			continue
		}
		if f.Tag != "" {
			found := false
			for _, t := range m.ContentTags {
				if t == strings.ToLower(f.Tag) {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		if q != "" && !strings.Contains(strings.ToLower(m.ContentTitle+" "+m.ContentSummary), q) {
			continue
		}
		out = append(out, *m)
	}
	return out
}

func publishedAt(m model.ContentModel) time.Time {
	if m.ContentPublishedAt != nil {
		return *m.ContentPublishedAt
	}
	return time.Time{}
}

func (r *MemoryContentRepository) List(_ context.Context, f ContentFilter, p helper.Paging) ([]model.ContentModel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.filtered(f)
	sort.Slice(out, func(i, j int) bool {
		switch f.Sort {
		case SortPopular:
			return out[i].ContentViewCount > out[j].ContentViewCount
		case SortTitle:
			return out[i].ContentTitle < out[j].ContentTitle
		default:
			return publishedAt(out[i]).After(publishedAt(out[j]))
		}
	})
	total := int64(len(out))
	if p.Offset >= len(out) {
		return []model.ContentModel{}, total, nil
	}
	end := p.Offset + p.Limit
	if p.Limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[p.Offset:end], total, nil
}

func (r *MemoryContentRepository) Featured(ctx context.Context, limit int) ([]model.ContentModel, error) {
	rows, _, err := r.List(ctx, ContentFilter{}, helper.Paging{Limit: 0})
	if err != nil {
		return nil, err
	}
	var out []model.ContentModel
	for _, m := range rows {
		if m.ContentIsFeatured && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryContentRepository) CategoryCounts(_ context.Context) ([]CategoryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, m := range r.rows {
		if m.ContentIsPublished {
			counts[m.ContentCategory]++
		}
	}
	var out []CategoryCount
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	return out, nil
}

func (r *MemoryContentRepository) IncrementViews(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return 0, ErrNotFound
	}
	m.ContentViewCount++
	return m.ContentViewCount, nil
}
