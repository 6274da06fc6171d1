package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "draft"
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusDisbursed   ApplicationStatus = "disbursed"
)

var allowedTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:       {StatusSubmitted},
	StatusSubmitted:   {StatusUnderReview, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {StatusDisbursed},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to ApplicationStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func IsValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected, StatusDisbursed:
		return true
	}
	return false
}

type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

type BankSnapshot struct {
	AccountHolder string `json:"account_holder"`
	AccountMasked string `json:"account_masked"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bank_name"`
	AadhaarSeeded bool   `json:"aadhaar_seeded"`
}

type Document struct {
	Type        string    `json:"type"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type StatusChange struct {
	Status    ApplicationStatus `json:"status"`
	Remarks   string            `json:"remarks,omitempty"`
	ChangedBy uuid.UUID         `json:"changed_by"`
	ChangedAt time.Time         `json:"changed_at"`
}

type ApplicationModel struct {
	ApplicationID                 uuid.UUID                         `gorm:"column:application_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"application_id"`
	ApplicationNumber             string                            `gorm:"column:application_number;type:varchar(20);not null;uniqueIndex" json:"application_number"`
	ApplicationUserID             uuid.UUID                         `gorm:"column:application_user_id;type:uuid;not null;index" json:"application_user_id"`
	ApplicationSchemeName         string                            `gorm:"column:application_scheme_name;type:varchar(200);not null" json:"application_scheme_name"`
	ApplicationAcademicYear       string                            `gorm:"column:application_academic_year;type:varchar(9);not null" json:"application_academic_year"`
	ApplicationCourse             string                            `gorm:"column:application_course;type:varchar(120)" json:"application_course"`
	ApplicationInstitution        string                            `gorm:"column:application_institution;type:varchar(160)" json:"application_institution"`
	ApplicationAnnualFamilyIncome float64                           `gorm:"column:application_annual_family_income;type:numeric(12,2);not null;default:0" json:"application_annual_family_income"`
	ApplicationCategory           string                            `gorm:"column:application_category;type:varchar(10);not null;default:'general'" json:"application_category"`
	ApplicationAddress            datatypes.JSONType[*Address]      `gorm:"column:application_address;type:jsonb;not null;default:'null'" json:"application_address"`
	ApplicationBank               datatypes.JSONType[*BankSnapshot] `gorm:"column:application_bank;type:jsonb;not null;default:'null'" json:"application_bank"`
	ApplicationDocuments          datatypes.JSONSlice[Document]     `gorm:"column:application_documents;type:jsonb;not null;default:'[]'" json:"application_documents"`
	ApplicationStatus             ApplicationStatus                 `gorm:"column:application_status;type:varchar(15);not null;default:'draft';index" json:"application_status"`
	ApplicationStatusHistory      datatypes.JSONSlice[StatusChange] `gorm:"column:application_status_history;type:jsonb;not null;default:'[]'" json:"application_status_history"`
	ApplicationRemarks            *string                           `gorm:"column:application_remarks;type:text" json:"application_remarks,omitempty"`
	ApplicationSubmittedAt        *time.Time                        `gorm:"column:application_submitted_at" json:"application_submitted_at,omitempty"`
	ApplicationCreatedAt          time.Time                         `gorm:"column:application_created_at;autoCreateTime" json:"application_created_at"`
	ApplicationUpdatedAt          time.Time                         `gorm:"column:application_updated_at;autoUpdateTime" json:"application_updated_at"`
	ApplicationDeletedAt          gorm.DeletedAt                    `gorm:"column:application_deleted_at;index" json:"-"`
}

func (ApplicationModel) TableName() string { return "applications" }

func (m *ApplicationModel) IsDraft() bool { return m.ApplicationStatus == StatusDraft }

func (m *ApplicationModel) Address() *Address { return m.ApplicationAddress.Data() }

func (m *ApplicationModel) Bank() *BankSnapshot { return m.ApplicationBank.Data() }
