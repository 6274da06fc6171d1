package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"edudbt_backend/internals/features/learning/content/model"
)

type CreateContentRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Slug        string   `json:"slug" validate:"omitempty,max=200"`
	Summary     string   `json:"summary" validate:"max=500"`
	Body        string   `json:"body" validate:"required"`
	Category    string   `json:"category" validate:"required,oneof=aadhaar dbt scholarship general"`
	Tags        []string `json:"tags" validate:"max=20,dive,min=1,max=40"`
	Language    string   `json:"language" validate:"omitempty,oneof=en hi"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	IsPublished bool     `json:"is_published"`
	IsFeatured  bool     `json:"is_featured"`
}

func (r *CreateContentRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
	r.Tags = NormalizeTags(r.Tags)
}

// UpdateContentRequest is a partial update; nil fields are left alone.
type UpdateContentRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=3,max=200"`
	Slug        *string   `json:"slug" validate:"omitempty,max=200"`
	Summary     *string   `json:"summary" validate:"omitempty,max=500"`
	Body        *string   `json:"body" validate:"omitempty,min=1"`
	Category    *string   `json:"category" validate:"omitempty,oneof=aadhaar dbt scholarship general"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=40"`
	Language    *string   `json:"language" validate:"omitempty,oneof=en hi"`
	ImageURL    *string   `json:"image_url" validate:"omitempty"`
	IsPublished *bool     `json:"is_published"`
	IsFeatured  *bool     `json:"is_featured"`
}

func (r *UpdateContentRequest) Normalize() {
	if r.Title != nil {
		v := strings.TrimSpace(*r.Title)
		r.Title = &v
	}
	if r.Category != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Category))
		r.Category = &v
	}
	if r.Language != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Language))
		r.Language = &v
	}
	if r.Tags != nil {
		v := NormalizeTags(*r.Tags)
		r.Tags = &v
	}
}

// NormalizeTags lower-cases, trims and de-duplicates, keeping the first occurrence order.
func NormalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

type ContentResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body,omitempty"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Language    string     `json:"language"`
	ImageURL    *string    `json:"image_url,omitempty"`
	IsPublished bool       `json:"is_published"`
	IsFeatured  bool       `json:"is_featured"`
	ViewCount   int64      `json:"view_count"`
	AuthorID    *uuid.UUID `json:"author_id,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromModel(m *model.ContentModel) ContentResponse {
	tags := []string(m.ContentTags)
	if tags == nil {
		tags = []string{}
	}
	return ContentResponse{
		ID:          m.ContentID,
		Title:       m.ContentTitle,
		Slug:        m.ContentSlug,
		Summary:     m.ContentSummary,
		Body:        m.ContentBody,
		Category:    m.ContentCategory,
		Tags:        tags,
		Language:    m.ContentLanguage,
		ImageURL:    m.ContentImageURL,
		IsPublished: m.ContentIsPublished,
		IsFeatured:  m.ContentIsFeatured,
		ViewCount:   m.ContentViewCount,
		AuthorID:    m.ContentAuthorID,
		PublishedAt: m.ContentPublishedAt,
		CreatedAt:   m.ContentCreatedAt,
		UpdatedAt:   m.ContentUpdatedAt,
	}
}

// FromModels is for list endpoints; the body is left out.
func FromModels(rows []model.ContentModel) []ContentResponse {
	out := make([]ContentResponse, 0, len(rows))
	for i := range rows {
		r := FromModel(&rows[i])
		r.Body = ""
		out = append(out, r)
	}
	return out
}
