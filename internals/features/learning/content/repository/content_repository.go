package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edudbt_backend/internals/features/learning/content/model"
	helper "edudbt_backend/internals/helpers"
)

var ErrNotFound = errors.New("content not found")

const (
	SortLatest  = "latest"
	SortPopular = "popular"
	SortTitle   = "title"
)

type ContentFilter struct {
	Category      string
	Tag           string
	Language      string
	Query         string // matched against title and summary
	Sort          string
	IncludeDrafts bool
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type ContentRepository interface {
	Create(ctx context.Context, m *model.ContentModel) error
	// Update writes the editable columns of m. View counts only move through IncrementViews.
	Update(ctx context.Context, m *model.ContentModel) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ContentModel, error)
	FindBySlug(ctx context.Context, slug string) (*model.ContentModel, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context, f ContentFilter, p helper.Paging) ([]model.ContentModel, int64, error)
	Featured(ctx context.Context, limit int) ([]model.ContentModel, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	// IncrementViews adds one view in a single UPDATE and returns the new count.
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
}

type gormContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &gormContentRepository{db: db}
}

func (r *gormContentRepository) Create(ctx context.Context, m *model.ContentModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

var editableColumns = []string{
	"content_title",
	"content_slug",
	"content_summary",
	"content_body",
	"content_category",
	"content_tags",
	"content_language",
	"content_image_url",
	"content_is_published",
	"content_is_featured",
	"content_published_at",
}

func (r *gormContentRepository) Update(ctx context.Context, m *model.ContentModel) error {
	res := r.db.WithContext(ctx).Model(&model.ContentModel{}).
		Where("content_id = ?", m.ContentID).
		Select(editableColumns).
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormContentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("content_id = ?", id).Delete(&model.ContentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormContentRepository) take(ctx context.Context, query string, args ...any) (*model.ContentModel, error) {
	var m model.ContentModel
	err := r.db.WithContext(ctx).Where(query, args...).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormContentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ContentModel, error) {
	return r.take(ctx, "content_id = ?", id)
}

func (r *gormContentRepository) FindBySlug(ctx context.Context, slug string) (*model.ContentModel, error) {
	return r.take(ctx, "content_slug = ?", slug)
}

func (r *gormContentRepository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ContentModel{}).
		Where("content_slug = ? AND content_id <> ?", slug, exclude).
		Count(&n).Error
	return n > 0, err
}

func (r *gormContentRepository) List(ctx context.Context, f ContentFilter, p helper.Paging) ([]model.ContentModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ContentModel{})
	if !f.IncludeDrafts {
		q = q.Where("content_is_published = TRUE")
	}
	if f.Category != "" {
		q = q.Where("content_category = ?", f.Category)
	}
	if f.Tag != "" {
		q = q.Where("? = ANY(content_tags)", strings.ToLower(f.Tag))
	}
	if f.Language != "" {
		q = q.Where("content_language = ?", f.Language)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + s + "%"
		q = q.Where("content_title ILIKE ? OR content_summary ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case SortPopular:
		q = q.Order("content_view_count DESC").Order("content_published_at DESC NULLS LAST")
	case SortTitle:
		q = q.Order("content_title ASC")
	default:
		q = q.Order("content_published_at DESC NULLS LAST").Order("content_created_at DESC")
	}

	var rows []model.ContentModel
	if err := q.Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *gormContentRepository) Featured(ctx context.Context, limit int) ([]model.ContentModel, error) {
	var rows []model.ContentModel
	err := r.db.WithContext(ctx).
		Where("content_is_published = TRUE AND content_is_featured = TRUE").
		Order("content_published_at DESC NULLS LAST").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *gormContentRepository) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).Model(&model.ContentModel{}).
		Select("content_category AS category, COUNT(*) AS count").
		Where("content_is_published = TRUE").
		Group("content_category").
		Scan(&rows).Error
	return rows, err
}

func (r *gormContentRepository) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`UPDATE contents SET content_view_count = content_view_count + 1
		 WHERE content_id = ? AND content_deleted_at IS NULL
		 RETURNING content_view_count`, id).
		Scan(&count).Error
	return count, err
}
