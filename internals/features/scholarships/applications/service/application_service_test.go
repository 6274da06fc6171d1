package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/features/scholarships/applications/dto"
	"edudbt_backend/internals/features/scholarships/applications/model"
	"edudbt_backend/internals/features/scholarships/applications/repository"
	notificationRepo "edudbt_backend/internals/features/users/notifications/repository"
	notificationService "edudbt_backend/internals/features/users/notifications/service"
	userModel "edudbt_backend/internals/features/users/user/model"
	userRepo "edudbt_backend/internals/features/users/user/repository"
	helper "edudbt_backend/internals/helpers"
	"edudbt_backend/internals/helpers/storage"
	"edudbt_backend/internals/infra/events"
)

type fixture struct {
	svc           *ApplicationService
	users         *userRepo.MemoryUserRepository
	events        *events.Recorder
	notifications *notificationRepo.MemoryNotificationRepository
	dir           string
	student       *userModel.UserModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	blobs, err := storage.NewLocalStore(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)

	f := &fixture{
		users:         userRepo.NewMemoryUserRepository(),
		events:        &events.Recorder{},
		notifications: notificationRepo.NewMemoryNotificationRepository(),
		dir:           dir,
	}
	holder, masked, ifsc, bank := "Asha Kumari", "XXXXXXX4321", "SBIN0001234", "State Bank of India"
	f.student = &userModel.UserModel{
		UserName: "asha_k", Email: "asha@example.in", FullName: "Asha Kumari", IsActive: true,
		BankAccountHolder: &holder, BankAccountMasked: &masked, BankIFSC: &ifsc, BankName: &bank, BankAadhaarSeeded: true,
	}
	require.NoError(t, f.users.Create(context.Background(), f.student))

	f.svc = NewApplicationService(repository.NewMemoryApplicationRepository(), f.users, blobs, f.events,
		notificationService.NewNotificationService(f.notifications))
	return f
}

func codeOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return 0
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func draftRequest() dto.ApplicationRequest {
	return dto.ApplicationRequest{
		SchemeName:   "Post Matric Scholarship",
		AcademicYear: "2026-27",
		Course:       "B.Sc",
		Address: &dto.AddressRequest{
			Line1: "12 MG Road", City: "Patna", District: "Patna", State: "Bihar", Pincode: "800001",
		},
		UseProfileBank: true,
	}
}

func TestCreateDraft(t *testing.T) {
	f := newFixture(t)
	m, err := f.svc.Create(context.Background(), f.student.ID, draftRequest())
	require.NoError(t, err)

	assert.Equal(t, model.StatusDraft, m.ApplicationStatus)
	assert.Regexp(t, `^EDU-\d{4}-[A-Z2-9]{8}$`, m.ApplicationNumber)
	require.NotNil(t, m.Bank())
	assert.Equal(t, "XXXXXXX4321", m.Bank().AccountMasked)
	assert.Equal(t, "Patna", m.Address().City)

	_, err = f.svc.Create(context.Background(), f.student.ID, dto.ApplicationRequest{})
	var ve *helper.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "scheme_name")
	assert.Contains(t, ve.Fields, "academic_year")
}

func TestUploadConvertsImagesToWebP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, err := f.svc.Create(ctx, f.student.ID, draftRequest())
	require.NoError(t, err)

	m, err = f.svc.AddDocument(ctx, f.student.ID, m.ApplicationID, Upload{Type: "income_certificate", FileName: "Income Cert.png", Data: pngBytes(t)})
	require.NoError(t, err)
	require.Len(t, m.ApplicationDocuments, 1)
	doc := m.ApplicationDocuments[0]
	assert.Equal(t, "image/webp", doc.ContentType)
	assert.True(t, strings.HasSuffix(doc.FileName, ".webp"))
	assert.True(t, strings.HasPrefix(doc.URL, "http://localhost:8080/uploads/applications/"))
	_, err = os.Stat(filepath.Join(f.dir, filepath.FromSlash(doc.Key)))
	assert.NoError(t, err)

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF")
	m, err = f.svc.AddDocument(ctx, f.student.ID, m.ApplicationID, Upload{Type: "marksheet", FileName: "marks.pdf", Data: pdf})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", m.ApplicationDocuments[1].ContentType)

	_, err = f.svc.AddDocument(ctx, f.student.ID, m.ApplicationID, Upload{Type: "other", FileName: "notes.txt", Data: []byte("plain text")})
	assert.Equal(t, fiber.StatusUnsupportedMediaType, codeOf(err))

	_, err = f.svc.AddDocument(ctx, f.student.ID, m.ApplicationID, Upload{Type: "other", FileName: "big.pdf", Data: make([]byte, MaxDocumentBytes+1)})
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, codeOf(err))

	_, err = f.svc.AddDocument(ctx, f.student.ID, m.ApplicationID, Upload{Type: "selfie", FileName: "marks.pdf", Data: pdf})
	var ve *helper.ValidationErrors
	require.ErrorAs(t, err, &ve)

	m, err = f.svc.RemoveDocument(ctx, f.student.ID, m.ApplicationID, 0)
	require.NoError(t, err)
	require.Len(t, m.ApplicationDocuments, 1)
	_, err = os.Stat(filepath.Join(f.dir, filepath.FromSlash(doc.Key)))
	assert.True(t, os.IsNotExist(err))
}

func TestSubmitAndReviewLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := uuid.New()

	m, err := f.svc.Create(ctx, f.student.ID, dto.ApplicationRequest{SchemeName: "NSP Merit", AcademicYear: "2026-27"})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.student.ID, m.ApplicationID)
	var ve *helper.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "address")
	assert.Contains(t, ve.Fields, "bank")
	assert.Contains(t, ve.Fields, "documents")

	_, err = f.svc.Update(ctx, f.student.ID, m.ApplicationID, draftRequest())
	require.NoError(t, err)
	_, err = f.svc.AddDocument(ctx, f.student.ID, m.ApplicationID, Upload{Type: "id_proof", FileName: "id.png", Data: pngBytes(t)})
	require.NoError(t, err)

	m, err = f.svc.Submit(ctx, f.student.ID, m.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, m.ApplicationStatus)
	assert.NotNil(t, m.ApplicationSubmittedAt)

	_, err = f.svc.Update(ctx, f.student.ID, m.ApplicationID, draftRequest())
	assert.Equal(t, fiber.StatusConflict, codeOf(err))

	_, err = f.svc.Review(ctx, admin, m.ApplicationID, dto.StatusRequest{Status: "approved"})
	assert.Equal(t, fiber.StatusConflict, codeOf(err))

	_, err = f.svc.Review(ctx, admin, m.ApplicationID, dto.StatusRequest{Status: "rejected"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "remarks")

	for _, st := range []string{"under_review", "approved", "disbursed"} {
		m, err = f.svc.Review(ctx, admin, m.ApplicationID, dto.StatusRequest{Status: st, Remarks: "ok"})
		require.NoError(t, err, st)
	}
	assert.Equal(t, model.StatusDisbursed, m.ApplicationStatus)
	require.Len(t, m.ApplicationStatusHistory, 4)
	assert.Equal(t, admin, m.ApplicationStatusHistory[3].ChangedBy)

	assert.Len(t, f.events.Events(), 4)
	unread, err := f.notifications.CountUnread(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), unread)
}

func TestApplicationsArePrivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, err := f.svc.Create(ctx, f.student.ID, draftRequest())
	require.NoError(t, err)

	stranger := authz.Principal{UserID: uuid.New(), Role: "student"}
	_, err = f.svc.Get(ctx, stranger, m.ApplicationID)
	assert.Equal(t, fiber.StatusNotFound, codeOf(err))
	assert.Equal(t, fiber.StatusNotFound, codeOf(f.svc.Delete(ctx, stranger.UserID, m.ApplicationID)))

	_, err = f.svc.Get(ctx, authz.Principal{UserID: uuid.New(), Role: "admin"}, m.ApplicationID)
	assert.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.student.ID, m.ApplicationID))
	_, err = f.svc.Get(ctx, authz.Principal{UserID: f.student.ID, Role: "student"}, m.ApplicationID)
	assert.Equal(t, fiber.StatusNotFound, codeOf(err))
}

// submitAfterRead moves the stored draft to submitted right after the
// service has loaded it, once per arm.
type submitAfterRead struct {
	*repository.MemoryApplicationRepository
	armed bool
}

func (r *submitAfterRead) FindByID(ctx context.Context, id uuid.UUID) (*model.ApplicationModel, error) {
	m, err := r.MemoryApplicationRepository.FindByID(ctx, id)
	if err != nil || !r.armed {
		return m, err
	}
	r.armed = false
	cur, err := r.MemoryApplicationRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cur.ApplicationStatus = model.StatusSubmitted
	cur.ApplicationStatusHistory = append(cur.ApplicationStatusHistory, model.StatusChange{Status: model.StatusSubmitted})
	if _, err := r.Transition(ctx, cur, model.StatusDraft); err != nil {
		return nil, err
	}
	return m, nil
}

func TestDraftEditsDoNotUndoSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blobs, err := storage.NewLocalStore(f.dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	repo := &submitAfterRead{MemoryApplicationRepository: repository.NewMemoryApplicationRepository()}
	svc := NewApplicationService(repo, f.users, blobs, f.events, nil)

	t.Run("update", func(t *testing.T) {
		m, err := svc.Create(ctx, f.student.ID, draftRequest())
		require.NoError(t, err)

		repo.armed = true
		req := draftRequest()
		req.Course = "M.Sc"
		_, err = svc.Update(ctx, f.student.ID, m.ApplicationID, req)
		assert.Equal(t, fiber.StatusConflict, codeOf(err))

		stored, err := repo.MemoryApplicationRepository.FindByID(ctx, m.ApplicationID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusSubmitted, stored.ApplicationStatus)
		assert.Len(t, stored.ApplicationStatusHistory, 1)
		assert.Equal(t, "B.Sc", stored.ApplicationCourse)
	})

	t.Run("add document", func(t *testing.T) {
		m, err := svc.Create(ctx, f.student.ID, draftRequest())
		require.NoError(t, err)

		repo.armed = true
		_, err = svc.AddDocument(ctx, f.student.ID, m.ApplicationID, Upload{Type: "id_proof", FileName: "id.png", Data: pngBytes(t)})
		assert.Equal(t, fiber.StatusConflict, codeOf(err))

		stored, err := repo.MemoryApplicationRepository.FindByID(ctx, m.ApplicationID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusSubmitted, stored.ApplicationStatus)
		assert.Empty(t, stored.ApplicationDocuments)
	})

	t.Run("delete", func(t *testing.T) {
		m, err := svc.Create(ctx, f.student.ID, draftRequest())
		require.NoError(t, err)

		repo.armed = true
		assert.Equal(t, fiber.StatusConflict, codeOf(svc.Delete(ctx, f.student.ID, m.ApplicationID)))
		_, err = repo.MemoryApplicationRepository.FindByID(ctx, m.ApplicationID)
		assert.NoError(t, err)
	})
}
