package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"edudbt_backend/internals/features/scholarships/applications/model"
)

var DocumentTypes = []string{
	"income_certificate", "caste_certificate", "marksheet", "fee_receipt",
	"id_proof", "bank_passbook", "admission_letter", "photo", "other",
}

func IsValidDocumentType(t string) bool {
	for _, v := range DocumentTypes {
		if v == t {
			return true
		}
	}
	return false
}

type AddressRequest struct {
	Line1    string `json:"line1" validate:"required,max=200"`
	Line2    string `json:"line2" validate:"max=200"`
	City     string `json:"city" validate:"required,max=100"`
	District string `json:"district" validate:"required,max=100"`
	State    string `json:"state" validate:"required,max=100"`
	Pincode  string `json:"pincode" validate:"required,pincode"`
}

func (a *AddressRequest) ToModel() *model.Address {
	return &model.Address{
		Line1:    strings.TrimSpace(a.Line1),
		Line2:    strings.TrimSpace(a.Line2),
		City:     strings.TrimSpace(a.City),
		District: strings.TrimSpace(a.District),
		State:    strings.TrimSpace(a.State),
		Pincode:  strings.TrimSpace(a.Pincode),
	}
}

type BankRequest struct {
	AccountHolder string `json:"account_holder" validate:"required,min=2,max=100"`
	AccountNumber string `json:"account_number" validate:"required,digits,min=9,max=18"`
	IFSC          string `json:"ifsc" validate:"required,ifsc"`
	BankName      string `json:"bank_name" validate:"required,max=100"`
	AadhaarSeeded bool   `json:"aadhaar_seeded"`
}

func (b *BankRequest) normalize() {
	b.AccountHolder = strings.TrimSpace(b.AccountHolder)
	b.AccountNumber = strings.ReplaceAll(strings.TrimSpace(b.AccountNumber), " ", "")
	b.IFSC = strings.ToUpper(strings.TrimSpace(b.IFSC))
	b.BankName = strings.TrimSpace(b.BankName)
}

// ApplicationRequest is used for create (scheme and year required) and for
// partial draft updates, where zero values leave the stored field alone.
type ApplicationRequest struct {
	SchemeName         string          `json:"scheme_name" validate:"omitempty,min=3,max=200"`
	AcademicYear       string          `json:"academic_year" validate:"omitempty,academic_year"`
	Course             string          `json:"course" validate:"max=120"`
	Institution        string          `json:"institution" validate:"max=160"`
	AnnualFamilyIncome *float64        `json:"annual_family_income" validate:"omitempty,gte=0"`
	Category           string          `json:"category" validate:"omitempty,oneof=general obc sc st ews"`
	Address            *AddressRequest `json:"address"`
	Bank               *BankRequest    `json:"bank"`
	UseProfileBank     bool            `json:"use_profile_bank"`
}

func (r *ApplicationRequest) Normalize() {
	r.SchemeName = strings.TrimSpace(r.SchemeName)
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
	r.Course = strings.TrimSpace(r.Course)
	r.Institution = strings.TrimSpace(r.Institution)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	if r.Bank != nil {
		r.Bank.normalize()
	}
}

type StatusRequest struct {
	Status  string `json:"status" validate:"required,oneof=under_review approved rejected disbursed"`
	Remarks string `json:"remarks" validate:"max=1000"`
}

func (r *StatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Remarks = strings.TrimSpace(r.Remarks)
}

type DocumentResponse struct {
	Index       int       `json:"index"`
	Type        string    `json:"type"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type ApplicationResponse struct {
	ID                 uuid.UUID            `json:"id"`
	ApplicationNumber  string               `json:"application_number"`
	UserID             uuid.UUID            `json:"user_id"`
	SchemeName         string               `json:"scheme_name"`
	AcademicYear       string               `json:"academic_year"`
	Course             string               `json:"course"`
	Institution        string               `json:"institution"`
	AnnualFamilyIncome float64              `json:"annual_family_income"`
	Category           string               `json:"category"`
	Address            *model.Address       `json:"address"`
	Bank               *model.BankSnapshot  `json:"bank"`
	Documents          []DocumentResponse   `json:"documents"`
	Status             string               `json:"status"`
	StatusHistory      []model.StatusChange `json:"status_history"`
	Remarks            *string              `json:"remarks,omitempty"`
	SubmittedAt        *time.Time           `json:"submitted_at,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

func FromModel(m *model.ApplicationModel) ApplicationResponse {
	docs := make([]DocumentResponse, 0, len(m.ApplicationDocuments))
	for i, d := range m.ApplicationDocuments {
		docs = append(docs, DocumentResponse{
			Index:       i,
			Type:        d.Type,
			FileName:    d.FileName,
			URL:         d.URL,
			ContentType: d.ContentType,
			Size:        d.Size,
			UploadedAt:  d.UploadedAt,
		})
	}
	history := []model.StatusChange(m.ApplicationStatusHistory)
	if history == nil {
		history = []model.StatusChange{}
	}
	return ApplicationResponse{
		ID:                 m.ApplicationID,
		ApplicationNumber:  m.ApplicationNumber,
		UserID:             m.ApplicationUserID,
		SchemeName:         m.ApplicationSchemeName,
		AcademicYear:       m.ApplicationAcademicYear,
		Course:             m.ApplicationCourse,
		Institution:        m.ApplicationInstitution,
		AnnualFamilyIncome: m.ApplicationAnnualFamilyIncome,
		Category:           m.ApplicationCategory,
		Address:            m.Address(),
		Bank:               m.Bank(),
		Documents:          docs,
		Status:             string(m.ApplicationStatus),
		StatusHistory:      history,
		Remarks:            m.ApplicationRemarks,
		SubmittedAt:        m.ApplicationSubmittedAt,
		CreatedAt:          m.ApplicationCreatedAt,
		UpdatedAt:          m.ApplicationUpdatedAt,
	}
}

func FromModels(rows []model.ApplicationModel) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
