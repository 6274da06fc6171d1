package service

import (
	"context"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/learning/content/dto"
	"edudbt_backend/internals/features/learning/content/model"
	"edudbt_backend/internals/features/learning/content/repository"
	helper "edudbt_backend/internals/helpers"
)

func newService() (*ContentService, *repository.MemoryContentRepository) {
	repo := repository.NewMemoryContentRepository()
	return NewContentService(repo), repo
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	return fe.Code
}

func TestCreateGeneratesUniqueSlugs(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	req := dto.CreateContentRequest{Title: "What is DBT?", Body: "Direct Benefit Transfer", Category: "dbt", IsPublished: true}

	first, err := svc.Create(ctx, uuid.New(), req)
	require.NoError(t, err)
	second, err := svc.Create(ctx, uuid.New(), req)
	require.NoError(t, err)
	third, err := svc.Create(ctx, uuid.New(), req)
	require.NoError(t, err)

	assert.Equal(t, "what-is-dbt", first.ContentSlug)
	assert.Equal(t, "what-is-dbt-2", second.ContentSlug)
	assert.Equal(t, "what-is-dbt-3", third.ContentSlug)
	assert.Equal(t, "en", first.ContentLanguage)
	assert.NotNil(t, first.ContentPublishedAt)
}

func TestGetHidesDraftsFromStudents(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	draft, err := svc.Create(ctx, uuid.New(), dto.CreateContentRequest{Title: "Draft guide", Body: "x", Category: "general"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, draft.ContentSlug, authz.Principal{})
	assert.Equal(t, fiber.StatusNotFound, statusOf(t, err))

	student := authz.Principal{UserID: uuid.New(), Role: "student"}
	_, err = svc.Get(ctx, draft.ContentID.String(), student)
	assert.Equal(t, fiber.StatusNotFound, statusOf(t, err))

	admin := authz.Principal{UserID: uuid.New(), Role: "admin"}
	got, err := svc.Get(ctx, draft.ContentSlug, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ContentViewCount)
}

func TestConcurrentViewsAreCounted(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	m, err := svc.Create(ctx, uuid.New(), dto.CreateContentRequest{Title: "Aadhaar seeding", Body: "x", Category: "aadhaar", IsPublished: true})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Get(ctx, m.ContentSlug, authz.Principal{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, m.ContentID.String(), authz.Principal{})
	require.NoError(t, err)
	assert.Equal(t, int64(n+1), got.ContentViewCount)
}

func TestListFiltersAndValidatesSort(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, uuid.New(), dto.CreateContentRequest{Title: "NSP scholarship basics", Body: "x", Category: "scholarship", Tags: []string{"nsp"}, IsPublished: true})
	_, _ = svc.Create(ctx, uuid.New(), dto.CreateContentRequest{Title: "Bank seeding", Body: "x", Category: "dbt", IsPublished: true})
	_, _ = svc.Create(ctx, uuid.New(), dto.CreateContentRequest{Title: "Unpublished", Body: "x", Category: "dbt"})

	p := helper.NewPaging(1, 10, 10, 50)
	rows, total, err := svc.List(ctx, repository.ContentFilter{Category: "dbt"}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Bank seeding", rows[0].ContentTitle)

	rows, _, err = svc.List(ctx, repository.ContentFilter{Tag: "NSP"}, p)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, total, err = svc.List(ctx, repository.ContentFilter{IncludeDrafts: true}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, _, err = svc.List(ctx, repository.ContentFilter{Sort: "random"}, p)
	var ve *helper.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "sort")
}

func TestCategoriesIncludeEmpty(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, uuid.New(), dto.CreateContentRequest{Title: "DBT one", Body: "x", Category: "dbt", IsPublished: true})

	rows, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, r := range rows {
		if r.Category == "dbt" {
			assert.Equal(t, int64(1), r.Count)
		} else {
			assert.Zero(t, r.Count)
		}
	}
}

func TestUpdateKeepsSlugAndStampsPublish(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	m, err := svc.Create(ctx, uuid.New(), dto.CreateContentRequest{Title: "Old title", Body: "x", Category: "general"})
	require.NoError(t, err)
	require.Nil(t, m.ContentPublishedAt)

	title, pub := "New title", true
	got, err := svc.Update(ctx, m.ContentID, dto.UpdateContentRequest{Title: &title, IsPublished: &pub})
	require.NoError(t, err)
	assert.Equal(t, "old-title", got.ContentSlug)
	assert.Equal(t, "New title", got.ContentTitle)
	assert.NotNil(t, got.ContentPublishedAt)

	_, err = svc.Update(ctx, uuid.New(), dto.UpdateContentRequest{Title: &title})
	assert.Equal(t, fiber.StatusNotFound, statusOf(t, err))

	require.NoError(t, svc.Delete(ctx, m.ContentID))
	assert.Equal(t, fiber.StatusNotFound, statusOf(t, svc.Delete(ctx, m.ContentID)))
}

// viewsDuringEdit counts views between the edit's read and its write.
type viewsDuringEdit struct {
	*repository.MemoryContentRepository
	views int
}

func (r *viewsDuringEdit) FindByID(ctx context.Context, id uuid.UUID) (*model.ContentModel, error) {
	m, err := r.MemoryContentRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for ; r.views > 0; r.views-- {
		if _, err := r.IncrementViews(ctx, id); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func TestUpdateKeepsConcurrentViews(t *testing.T) {
	repo := &viewsDuringEdit{MemoryContentRepository: repository.NewMemoryContentRepository()}
	svc := NewContentService(repo)
	ctx := context.Background()
	m, err := svc.Create(ctx, uuid.New(), dto.CreateContentRequest{Title: "PFMS status", Body: "x", Category: "dbt", IsPublished: true})
	require.NoError(t, err)

	_, err = svc.Get(ctx, m.ContentSlug, authz.Principal{})
	require.NoError(t, err)

	repo.views = 5
	summary := "Track DBT payments on PFMS"
	_, err = svc.Update(ctx, m.ContentID, dto.UpdateContentRequest{Summary: &summary})
	require.NoError(t, err)

	got, err := repo.MemoryContentRepository.FindByID(ctx, m.ContentID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.ContentViewCount)
	assert.Equal(t, summary, got.ContentSummary)
}
