package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	CategoryAadhaar     = "aadhaar"
	CategoryDBT         = "dbt"
	CategoryScholarship = "scholarship"
	CategoryGeneral     = "general"
)

var Categories = []string{CategoryAadhaar, CategoryDBT, CategoryScholarship, CategoryGeneral}

type ContentModel struct {
	ContentID          uuid.UUID      `gorm:"column:content_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"content_id"`
	ContentTitle       string         `gorm:"column:content_title;type:varchar(200);not null" json:"content_title"`
	ContentSlug        string         `gorm:"column:content_slug;type:varchar(220);not null;uniqueIndex:uq_contents_slug,where:content_deleted_at IS NULL" json:"content_slug"`
	ContentSummary     string         `gorm:"column:content_summary;type:varchar(500)" json:"content_summary"`
	ContentBody        string         `gorm:"column:content_body;type:text;not null" json:"content_body"`
	ContentCategory    string         `gorm:"column:content_category;type:varchar(20);not null;index" json:"content_category"`
	ContentTags        pq.StringArray `gorm:"column:content_tags;type:text[]" json:"content_tags"`
	ContentLanguage    string         `gorm:"column:content_language;type:varchar(5);not null;default:'en'" json:"content_language"`
	ContentImageURL    *string        `gorm:"column:content_image_url;type:text" json:"content_image_url,omitempty"`
	ContentIsPublished bool           `gorm:"column:content_is_published;not null;default:false;index" json:"content_is_published"`
	ContentIsFeatured  bool           `gorm:"column:content_is_featured;not null;default:false" json:"content_is_featured"`
	ContentViewCount   int64          `gorm:"column:content_view_count;not null;default:0" json:"content_view_count"`
	ContentAuthorID    *uuid.UUID     `gorm:"column:content_author_id;type:uuid" json:"content_author_id,omitempty"`
	ContentPublishedAt *time.Time     `gorm:"column:content_published_at" json:"content_published_at,omitempty"`
	ContentCreatedAt   time.Time      `gorm:"column:content_created_at;autoCreateTime" json:"content_created_at"`
	ContentUpdatedAt   time.Time      `gorm:"column:content_updated_at;autoUpdateTime" json:"content_updated_at"`
	ContentDeletedAt   gorm.DeletedAt `gorm:"column:content_deleted_at;index" json:"-"`
}

func (ContentModel) TableName() string {
	return "contents"
}

func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
