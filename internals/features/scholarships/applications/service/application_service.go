package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"edudbt_backend/internals/authz"
	"edudbt_backend/internals/constants"
	"edudbt_backend/internals/features/scholarships/applications/dto"
	"edudbt_backend/internals/features/scholarships/applications/model"
	"edudbt_backend/internals/features/scholarships/applications/repository"
	notificationModel "edudbt_backend/internals/features/users/notifications/model"
	notificationService "edudbt_backend/internals/features/users/notifications/service"
	userRepo "edudbt_backend/internals/features/users/user/repository"
	helper "edudbt_backend/internals/helpers"
	"edudbt_backend/internals/helpers/storage"
	"edudbt_backend/internals/infra/events"
)

const (
	MaxDocumentBytes = 5 * 1024 * 1024
	MaxDocuments     = 10
)

var (
	errApplicationNotFound = fiber.NewError(fiber.StatusNotFound, "Application not found")
	errNotDraft            = fiber.NewError(fiber.StatusConflict, "Only draft applications can be changed")
)

type ApplicationService struct {
	repo     repository.ApplicationRepository
	users    userRepo.UserRepository
	blobs    storage.BlobStore
	events   events.Publisher
	notifier notificationService.Notifier
	now      func() time.Time
}

func NewApplicationService(repo repository.ApplicationRepository, users userRepo.UserRepository, blobs storage.BlobStore, publisher events.Publisher, notifier notificationService.Notifier) *ApplicationService {
	return &ApplicationService{
		repo:     repo,
		users:    users,
		blobs:    blobs,
		events:   publisher,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newApplicationNumber: EDU-<year>-<8 chars without look-alike letters>.
func newApplicationNumber(now time.Time) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = numberAlphabet[int(b[i])%len(numberAlphabet)]
	}
	return fmt.Sprintf("EDU-%d-%s", now.Year(), b), nil
}

// saveDraft persists applicant edits; a submit or review that landed first wins.
func (s *ApplicationService) saveDraft(ctx context.Context, m *model.ApplicationModel) error {
	ok, err := s.repo.UpdateDraft(ctx, m)
	if err != nil {
		return err
	}
	if !ok {
		return errNotDraft
	}
	return nil
}

func (s *ApplicationService) load(ctx context.Context, id uuid.UUID) (*model.ApplicationModel, error) {
	m, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errApplicationNotFound
	}
	return m, err
}

// owned loads an application the caller owns. Other people's rows look missing.
func (s *ApplicationService) owned(ctx context.Context, userID, id uuid.UUID) (*model.ApplicationModel, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.ApplicationUserID != userID {
		return nil, errApplicationNotFound
	}
	return m, nil
}

func (s *ApplicationService) profileBank(ctx context.Context, userID uuid.UUID) (*model.BankSnapshot, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, userRepo.ErrNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	if !u.HasBankDetails() {
		return nil, helper.FieldError("use_profile_bank", "add bank details to your profile first")
	}
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return &model.BankSnapshot{
		AccountHolder: deref(u.BankAccountHolder),
		AccountMasked: deref(u.BankAccountMasked),
		IFSC:          deref(u.BankIFSC),
		BankName:      deref(u.BankName),
		AadhaarSeeded: u.BankAadhaarSeeded,
	}, nil
}

func (s *ApplicationService) apply(ctx context.Context, userID uuid.UUID, m *model.ApplicationModel, req dto.ApplicationRequest) error {
	if req.SchemeName != "" {
		m.ApplicationSchemeName = req.SchemeName
	}
	if req.AcademicYear != "" {
		m.ApplicationAcademicYear = req.AcademicYear
	}
	if req.Course != "" {
		m.ApplicationCourse = req.Course
	}
	if req.Institution != "" {
		m.ApplicationInstitution = req.Institution
	}
	if req.AnnualFamilyIncome != nil {
		m.ApplicationAnnualFamilyIncome = *req.AnnualFamilyIncome
	}
	if req.Category != "" {
		m.ApplicationCategory = req.Category
	}
	if req.Address != nil {
		m.ApplicationAddress = datatypes.NewJSONType(req.Address.ToModel())
	}
	switch {
	case req.UseProfileBank:
		bank, err := s.profileBank(ctx, userID)
		if err != nil {
			return err
		}
		m.ApplicationBank = datatypes.NewJSONType(bank)
	case req.Bank != nil:
		m.ApplicationBank = datatypes.NewJSONType(&model.BankSnapshot{
			AccountHolder: req.Bank.AccountHolder,
			AccountMasked: helper.MaskAccount(req.Bank.AccountNumber),
			IFSC:          req.Bank.IFSC,
			BankName:      req.Bank.BankName,
			AadhaarSeeded: req.Bank.AadhaarSeeded,
		})
	}
	return nil
}

func (s *ApplicationService) Create(ctx context.Context, userID uuid.UUID, req dto.ApplicationRequest) (*model.ApplicationModel, error) {
	ve := &helper.ValidationErrors{}
	if req.SchemeName == "" {
		ve.Add("scheme_name", "scheme_name is required")
	}
	if req.AcademicYear == "" {
		ve.Add("academic_year", "academic_year is required")
	}
	if !ve.Empty() {
		return nil, ve
	}

	m := &model.ApplicationModel{
		ApplicationUserID:        userID,
		ApplicationCategory:      "general",
		ApplicationStatus:        model.StatusDraft,
		ApplicationDocuments:     datatypes.JSONSlice[model.Document]{},
		ApplicationStatusHistory: datatypes.JSONSlice[model.StatusChange]{},
	}
	if err := s.apply(ctx, userID, m, req); err != nil {
		return nil, err
	}

	for i := 0; i < 3; i++ {
		number, err := newApplicationNumber(s.now())
		if err != nil {
			return nil, err
		}
		m.ApplicationNumber = number
		err = s.repo.Create(ctx, m)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not allocate an application number")
}

func (s *ApplicationService) List(ctx context.Context, f repository.ApplicationFilter, p helper.Paging) ([]model.ApplicationModel, int64, error) {
	if f.Status != "" && !model.IsValidStatus(f.Status) {
		return nil, 0, helper.FieldError("status", "unknown status")
	}
	return s.repo.List(ctx, f, p)
}

func (s *ApplicationService) Get(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.ApplicationModel, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessOwned(p, m.ApplicationUserID, authz.ApplicationReview) {
		return nil, errApplicationNotFound
	}
	return m, nil
}

func (s *ApplicationService) Update(ctx context.Context, userID, id uuid.UUID, req dto.ApplicationRequest) (*model.ApplicationModel, error) {
	m, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !m.IsDraft() {
		return nil, errNotDraft
	}
	if err := s.apply(ctx, userID, m, req); err != nil {
		return nil, err
	}
	if err := s.saveDraft(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ApplicationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if !m.IsDraft() {
		return errNotDraft
	}
	ok, err := s.repo.DeleteDraft(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errNotDraft
	}
	for _, d := range m.ApplicationDocuments {
		s.deleteBlob(ctx, d.Key)
	}
	return nil
}

func (s *ApplicationService) deleteBlob(ctx context.Context, key string) {
	if key == "" || s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Printf("[APPLICATIONS] delete blob %s failed: %v", key, err)
	}
}

// Upload is one received file.
type Upload struct {
	Type     string
	FileName string
	Data     []byte
}

// AddDocument stores images as WebP and PDFs untouched, then appends the entry.
func (s *ApplicationService) AddDocument(ctx context.Context, userID, id uuid.UUID, up Upload) (*model.ApplicationModel, error) {
	if !dto.IsValidDocumentType(up.Type) {
		return nil, helper.FieldError("type", "must be one of: "+strings.Join(dto.DocumentTypes, ", "))
	}
	if len(up.Data) == 0 {
		return nil, helper.FieldError("file", "file is required")
	}
	if len(up.Data) > MaxDocumentBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "File must be 5MB or smaller")
	}

	m, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !m.IsDraft() {
		return nil, errNotDraft
	}
	if len(m.ApplicationDocuments) >= MaxDocuments {
		return nil, helper.FieldError("file", fmt.Sprintf("at most %d documents per application", MaxDocuments))
	}

	data, name, contentType := up.Data, filepath.Base(up.FileName), ""
	switch constants.DetectFileKind(name, http.DetectContentType(up.Data)) {
	case constants.FileKindImage:
		out, err := storage.ConvertToWebP(up.Data, name, storage.DefaultDocumentWebP)
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return nil, fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported image format")
		}
		if err != nil {
			return nil, err
		}
		data = out
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".webp"
		contentType = "image/webp"
	case constants.FileKindPDF:
		contentType = "application/pdf"
	default:
		return nil, fiber.NewError(fiber.StatusUnsupportedMediaType, "Only JPG, PNG, WebP or PDF files are accepted")
	}

	key := storage.BuildObjectKey("applications/"+m.ApplicationID.String(), name)
	url, err := s.blobs.Put(ctx, key, contentType, data)
	if err != nil {
		return nil, err
	}

	m.ApplicationDocuments = append(m.ApplicationDocuments, model.Document{
		Type:        up.Type,
		FileName:    name,
		URL:         url,
		Key:         key,
		ContentType: contentType,
		Size:        len(data),
		UploadedAt:  s.now(),
	})
	if err := s.saveDraft(ctx, m); err != nil {
		s.deleteBlob(ctx, key)
		return nil, err
	}
	return m, nil
}

func (s *ApplicationService) RemoveDocument(ctx context.Context, userID, id uuid.UUID, index int) (*model.ApplicationModel, error) {
	m, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !m.IsDraft() {
		return nil, errNotDraft
	}
	if index < 0 || index >= len(m.ApplicationDocuments) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Document not found")
	}
	key := m.ApplicationDocuments[index].Key
	m.ApplicationDocuments = append(m.ApplicationDocuments[:index], m.ApplicationDocuments[index+1:]...)
	if err := s.saveDraft(ctx, m); err != nil {
		return nil, err
	}
	s.deleteBlob(ctx, key)
	return m, nil
}

// transition moves m to status, recording history, notifying the owner and publishing the change.
func (s *ApplicationService) transition(ctx context.Context, m *model.ApplicationModel, to model.ApplicationStatus, remarks string, by uuid.UUID) error {
	from := m.ApplicationStatus
	if !model.CanTransition(from, to) {
		return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Cannot move application from %s to %s", from, to))
	}

	now := s.now()
	m.ApplicationStatus = to
	m.ApplicationStatusHistory = append(m.ApplicationStatusHistory, model.StatusChange{
		Status:    to,
		Remarks:   remarks,
		ChangedBy: by,
		ChangedAt: now,
	})
	if remarks != "" {
		r := remarks
		m.ApplicationRemarks = &r
	}
	if to == model.StatusSubmitted {
		m.ApplicationSubmittedAt = &now
	}

	ok, err := s.repo.Transition(ctx, m, from)
	if err != nil {
		return err
	}
	if !ok {
		return fiber.NewError(fiber.StatusConflict, "Application status changed concurrently, reload and retry")
	}

	events.Emit(ctx, s.events, events.New(events.ApplicationStatus, m.ApplicationID.String(), map[string]any{
		"application_id":     m.ApplicationID,
		"application_number": m.ApplicationNumber,
		"user_id":            m.ApplicationUserID,
		"from":               from,
		"to":                 to,
		"changed_by":         by,
	}))
	if s.notifier != nil {
		s.notifier.Notify(ctx, m.ApplicationUserID, notificationModel.NotificationTypeApplication,
			statusTitle(to, m.ApplicationNumber), statusMessage(to, m.ApplicationSchemeName, remarks))
	}
	return nil
}

func statusTitle(to model.ApplicationStatus, number string) string {
	switch to {
	case model.StatusSubmitted:
		return "Application " + number + " submitted"
	case model.StatusUnderReview:
		return "Application " + number + " is under review"
	case model.StatusApproved:
		return "Application " + number + " approved"
	case model.StatusRejected:
		return "Application " + number + " rejected"
	case model.StatusDisbursed:
		return "Scholarship disbursed for " + number
	}
	return "Application " + number + " updated"
}

func statusMessage(to model.ApplicationStatus, scheme, remarks string) string {
	msg := fmt.Sprintf("Your application for %s is now %s.", scheme, strings.ReplaceAll(string(to), "_", " "))
	if to == model.StatusDisbursed {
		msg += " The amount is credited through DBT to your Aadhaar seeded bank account."
	}
	if remarks != "" {
		msg += " Remarks: " + remarks
	}
	return msg
}

func (s *ApplicationService) Submit(ctx context.Context, userID, id uuid.UUID) (*model.ApplicationModel, error) {
	m, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !m.IsDraft() {
		return nil, errNotDraft
	}

	ve := &helper.ValidationErrors{}
	if m.Address() == nil {
		ve.Add("address", "address is required before submitting")
	}
	if m.Bank() == nil {
		ve.Add("bank", "bank details are required before submitting")
	}
	if len(m.ApplicationDocuments) == 0 {
		ve.Add("documents", "upload at least one document before submitting")
	}
	if !ve.Empty() {
		return nil, ve
	}

	if err := s.transition(ctx, m, model.StatusSubmitted, "", userID); err != nil {
		return nil, err
	}
	return m, nil
}

// Review applies a reviewer's status change.
func (s *ApplicationService) Review(ctx context.Context, reviewer uuid.UUID, id uuid.UUID, req dto.StatusRequest) (*model.ApplicationModel, error) {
	to := model.ApplicationStatus(req.Status)
	if to == model.StatusRejected && req.Remarks == "" {
		return nil, helper.FieldError("remarks", "remarks are required when rejecting")
	}
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, m, to, req.Remarks, reviewer); err != nil {
		return nil, err
	}
	return m, nil
}
