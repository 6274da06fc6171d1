package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/learning/content/dto"
	"edudbt_backend/internals/features/learning/content/model"
	"edudbt_backend/internals/features/learning/content/repository"
	helper "edudbt_backend/internals/helpers"
)

const (
	slugMaxLen       = 200
	DefaultFeatured  = 6
	MaxFeaturedLimit = 20
)

type ContentService struct {
	repo repository.ContentRepository
	now  func() time.Time
}

func NewContentService(repo repository.ContentRepository) *ContentService {
	return &ContentService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

var errContentNotFound = fiber.NewError(fiber.StatusNotFound, "Content not found")

func (s *ContentService) List(ctx context.Context, f repository.ContentFilter, p helper.Paging) ([]model.ContentModel, int64, error) {
	switch f.Sort {
	case "", repository.SortLatest, repository.SortPopular, repository.SortTitle:
	default:
		return nil, 0, helper.FieldError("sort", "must be one of: latest, popular, title")
	}
	if f.Category != "" && !model.IsValidCategory(f.Category) {
		return nil, 0, helper.FieldError("category", "must be one of: "+strings.Join(model.Categories, ", "))
	}
	return s.repo.List(ctx, f, p)
}

func (s *ContentService) Featured(ctx context.Context, limit int) ([]model.ContentModel, error) {
	if limit <= 0 {
		limit = DefaultFeatured
	}
	if limit > MaxFeaturedLimit {
		limit = MaxFeaturedLimit
	}
	return s.repo.Featured(ctx, limit)
}

// Categories returns every known category, including those with no published items.
func (s *ContentService) Categories(ctx context.Context) ([]repository.CategoryCount, error) {
	counts, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	byName := map[string]int64{}
	for _, c := range counts {
		byName[c.Category] = c.Count
	}
	out := make([]repository.CategoryCount, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, repository.CategoryCount{Category: c, Count: byName[c]})
	}
	return out, nil
}

func (s *ContentService) find(ctx context.Context, idOrSlug string) (*model.ContentModel, error) {
	var (
		m   *model.ContentModel
		err error
	)
	if id, perr := uuid.Parse(idOrSlug); perr == nil {
		m, err = s.repo.FindByID(ctx, id)
	} else {
		m, err = s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(idOrSlug)))
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errContentNotFound
	}
	return m, err
}

// Get resolves an id or slug and counts a view. Drafts are only visible to editors.
func (s *ContentService) Get(ctx context.Context, idOrSlug string, p authz.Principal) (*model.ContentModel, error) {
	m, err := s.find(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !m.ContentIsPublished {
		if !authz.Can(p, authz.ContentWrite) {
			return nil, errContentNotFound
		}
		return m, nil
	}
	views, err := s.repo.IncrementViews(ctx, m.ContentID)
	if err != nil {
		return nil, err
	}
	m.ContentViewCount = views
	return m, nil
}

func (s *ContentService) uniqueSlug(ctx context.Context, source string, exclude uuid.UUID) (string, error) {
	base := helper.Slugify(source, slugMaxLen)
	return helper.EnsureUniqueSlug(ctx, base, slugMaxLen, func(ctx context.Context, slug string) (bool, error) {
		return s.repo.SlugExists(ctx, slug, exclude)
	})
}

func (s *ContentService) Create(ctx context.Context, author uuid.UUID, req dto.CreateContentRequest) (*model.ContentModel, error) {
	source := req.Slug
	if strings.TrimSpace(source) == "" {
		source = req.Title
	}
	slug, err := s.uniqueSlug(ctx, source, uuid.Nil)
	if err != nil {
		return nil, err
	}
	lang := req.Language
	if lang == "" {
		lang = "en"
	}

	m := &model.ContentModel{
		ContentTitle:       req.Title,
		ContentSlug:        slug,
		ContentSummary:     req.Summary,
		ContentBody:        req.Body,
		ContentCategory:    req.Category,
		ContentTags:        pq.StringArray(req.Tags),
		ContentLanguage:    lang,
		ContentIsPublished: req.IsPublished,
		ContentIsFeatured:  req.IsFeatured,
	}
	if req.ImageURL != "" {
		u := req.ImageURL
		m.ContentImageURL = &u
	}
	if author != uuid.Nil {
		a := author
		m.ContentAuthorID = &a
	}
	if req.IsPublished {
		now := s.now()
		m.ContentPublishedAt = &now
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ContentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateContentRequest) (*model.ContentModel, error) {
	m, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errContentNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		m.ContentTitle = *req.Title
	}
	// Existing slugs stay stable on title edits; only an explicit slug moves the URL.
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		slug, err := s.uniqueSlug(ctx, *req.Slug, m.ContentID)
		if err != nil {
			return nil, err
		}
		m.ContentSlug = slug
	}
	if req.Summary != nil {
		m.ContentSummary = strings.TrimSpace(*req.Summary)
	}
	if req.Body != nil {
		m.ContentBody = *req.Body
	}
	if req.Category != nil {
		m.ContentCategory = *req.Category
	}
	if req.Tags != nil {
		m.ContentTags = pq.StringArray(*req.Tags)
	}
	if req.Language != nil {
		m.ContentLanguage = *req.Language
	}
	if req.ImageURL != nil {
		if *req.ImageURL == "" {
			m.ContentImageURL = nil
		} else {
			u := *req.ImageURL
			m.ContentImageURL = &u
		}
	}
	if req.IsFeatured != nil {
		m.ContentIsFeatured = *req.IsFeatured
	}
	if req.IsPublished != nil {
		if *req.IsPublished && !m.ContentIsPublished && m.ContentPublishedAt == nil {
			now := s.now()
			m.ContentPublishedAt = &now
		}
		m.ContentIsPublished = *req.IsPublished
	}

	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errContentNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *ContentService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errContentNotFound
	}
	return err
}
