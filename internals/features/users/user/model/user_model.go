package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LanguageEnglish = "en"
	LanguageHindi   = "hi"
)

// UserModel merepresentasikan tabel users di database
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName string    `gorm:"size:30;uniqueIndex:uq_users_user_name,where:deleted_at IS NULL;not null" json:"user_name"`
	Email    string    `gorm:"size:255;uniqueIndex:uq_users_email,where:deleted_at IS NULL;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	GoogleID *string   `gorm:"size:255;uniqueIndex" json:"-"`
	Role     string    `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	FullName    string     `gorm:"size:100;not null" json:"full_name"`
	PhoneNumber *string    `gorm:"size:16" json:"phone_number,omitempty"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      *string    `gorm:"size:10" json:"gender,omitempty"`
	State       *string    `gorm:"size:60" json:"state,omitempty"`
	District    *string    `gorm:"size:60" json:"district,omitempty"`
	Institution *string    `gorm:"size:160" json:"institution,omitempty"`
	Course      *string    `gorm:"size:120" json:"course,omitempty"`
	Language    string     `gorm:"size:5;not null;default:'en'" json:"language"`

	// opaque key/value bag owned by the frontend
	Preferences datatypes.JSONMap `gorm:"type:jsonb" json:"preferences"`

	AadhaarLinked   bool       `gorm:"not null;default:false" json:"aadhaar_linked"`
	AadhaarMasked   *string    `gorm:"size:14" json:"aadhaar_masked,omitempty"`
	AadhaarHash     *string    `gorm:"size:64;index" json:"-"`
	AadhaarLinkedAt *time.Time `json:"aadhaar_linked_at,omitempty"`

	BankAccountHolder *string    `gorm:"size:100" json:"bank_account_holder,omitempty"`
	BankAccountMasked *string    `gorm:"size:24" json:"bank_account_masked,omitempty"`
	BankAccountHash   *string    `gorm:"size:64" json:"-"`
	BankIFSC          *string    `gorm:"column:bank_ifsc;size:11" json:"bank_ifsc,omitempty"`
	BankName          *string    `gorm:"size:100" json:"bank_name,omitempty"`
	BankAadhaarSeeded bool       `gorm:"not null;default:false" json:"bank_aadhaar_seeded"`
	BankDBTEnabled    bool       `gorm:"column:bank_dbt_enabled;not null;default:false" json:"bank_dbt_enabled"`
	BankUpdatedAt     *time.Time `json:"bank_updated_at,omitempty"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) HasBankDetails() bool {
	return u.BankAccountMasked != nil && *u.BankAccountMasked != ""
}
