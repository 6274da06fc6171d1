package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edudbt_backend/internals/features/scholarships/applications/model"
	helper "edudbt_backend/internals/helpers"
)

var (
	ErrNotFound  = errors.New("application not found")
	ErrDuplicate = errors.New("application number already used")
)

type ApplicationFilter struct {
	UserID *uuid.UUID
	Status model.ApplicationStatus
}

type ApplicationRepository interface {
	Create(ctx context.Context, m *model.ApplicationModel) error
	// UpdateDraft writes the applicant-editable columns only while the stored row is still a draft.
	UpdateDraft(ctx context.Context, m *model.ApplicationModel) (bool, error)
	// Transition saves m only while the stored status still equals from.
	Transition(ctx context.Context, m *model.ApplicationModel, from model.ApplicationStatus) (bool, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.ApplicationModel, error)
	List(ctx context.Context, f ApplicationFilter, p helper.Paging) ([]model.ApplicationModel, int64, error)
}

type gormApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &gormApplicationRepository{db: db}
}

func (r *gormApplicationRepository) Create(ctx context.Context, m *model.ApplicationModel) error {
	err := r.db.WithContext(ctx).Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

var draftColumns = []string{
	"application_scheme_name",
	"application_academic_year",
	"application_course",
	"application_institution",
	"application_annual_family_income",
	"application_category",
	"application_address",
	"application_bank",
	"application_documents",
}

func (r *gormApplicationRepository) UpdateDraft(ctx context.Context, m *model.ApplicationModel) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ApplicationModel{}).
		Where("application_id = ? AND application_status = ?", m.ApplicationID, model.StatusDraft).
		Select(draftColumns).
		Updates(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormApplicationRepository) Transition(ctx context.Context, m *model.ApplicationModel, from model.ApplicationStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ApplicationModel{}).
		Where("application_id = ? AND application_status = ?", m.ApplicationID, from).
		Updates(map[string]any{
			"application_status":         m.ApplicationStatus,
			"application_status_history": m.ApplicationStatusHistory,
			"application_remarks":        m.ApplicationRemarks,
			"application_submitted_at":   m.ApplicationSubmittedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormApplicationRepository) DeleteDraft(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("application_id = ? AND application_status = ?", id, model.StatusDraft).
		Delete(&model.ApplicationModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ApplicationModel, error) {
	var m model.ApplicationModel
	err := r.db.WithContext(ctx).Where("application_id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormApplicationRepository) List(ctx context.Context, f ApplicationFilter, p helper.Paging) ([]model.ApplicationModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ApplicationModel{})
	if f.UserID != nil {
		q = q.Where("application_user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("application_status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.ApplicationModel
	err := q.Order("application_updated_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error
	return rows, total, err
}

/* =========================
   In-memory
========================= */

type MemoryApplicationRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.ApplicationModel
}

func NewMemoryApplicationRepository() *MemoryApplicationRepository {
	return &MemoryApplicationRepository{rows: map[uuid.UUID]model.ApplicationModel{}}
}

func (r *MemoryApplicationRepository) Create(_ context.Context, m *model.ApplicationModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.ApplicationNumber == m.ApplicationNumber {
			return ErrDuplicate
		}
	}
	if m.ApplicationID == uuid.Nil {
		m.ApplicationID = uuid.New()
	}
	now := time.Now()
	m.ApplicationCreatedAt, m.ApplicationUpdatedAt = now, now
	r.rows[m.ApplicationID] = *m
	return nil
}

func (r *MemoryApplicationRepository) UpdateDraft(_ context.Context, m *model.ApplicationModel) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[m.ApplicationID]
	if !ok || cur.ApplicationStatus != model.StatusDraft {
		return false, nil
	}
	cur.ApplicationSchemeName = m.ApplicationSchemeName
	cur.ApplicationAcademicYear = m.ApplicationAcademicYear
	cur.ApplicationCourse = m.ApplicationCourse
	cur.ApplicationInstitution = m.ApplicationInstitution
	cur.ApplicationAnnualFamilyIncome = m.ApplicationAnnualFamilyIncome
	cur.ApplicationCategory = m.ApplicationCategory
	cur.ApplicationAddress = m.ApplicationAddress
	cur.ApplicationBank = m.ApplicationBank
	cur.ApplicationDocuments = append(m.ApplicationDocuments[:0:0], m.ApplicationDocuments...)
	cur.ApplicationUpdatedAt = time.Now()
	m.ApplicationUpdatedAt = cur.ApplicationUpdatedAt
	r.rows[m.ApplicationID] = cur
	return true, nil
}

func (r *MemoryApplicationRepository) Transition(_ context.Context, m *model.ApplicationModel, from model.ApplicationStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[m.ApplicationID]
	if !ok || cur.ApplicationStatus != from {
		return false, nil
	}
	m.ApplicationUpdatedAt = time.Now()
	r.rows[m.ApplicationID] = *m
	return true, nil
}

func (r *MemoryApplicationRepository) DeleteDraft(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[id]
	if !ok || cur.ApplicationStatus != model.StatusDraft {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *MemoryApplicationRepository) FindByID(_ context.Context, id uuid.UUID) (*model.ApplicationModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.ApplicationDocuments = append(m.ApplicationDocuments[:0:0], m.ApplicationDocuments...)
	m.ApplicationStatusHistory = append(m.ApplicationStatusHistory[:0:0], m.ApplicationStatusHistory...)
	return &m, nil
}

func (r *MemoryApplicationRepository) List(_ context.Context, f ApplicationFilter, p helper.Paging) ([]model.ApplicationModel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ApplicationModel
	for _, m := range r.rows {
		if f.UserID != nil && m.ApplicationUserID != *f.UserID {
			continue
		}
		if f.Status != "" && m.ApplicationStatus != f.Status {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationNumber < out[j].ApplicationNumber })
	total := int64(len(out))
	if p.Offset >= len(out) {
		return []model.ApplicationModel{}, total, nil
	}
	end := p.Offset + p.Limit
	if p.Limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[p.Offset:end], total, nil
}
