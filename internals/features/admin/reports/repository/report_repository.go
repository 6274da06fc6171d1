package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type UserTotals struct {
	Total          int64            `json:"total"`
	Active         int64            `json:"active"`
	AadhaarLinked  int64            `json:"aadhaar_linked"`
	DBTEnabled     int64            `json:"dbt_enabled"`
	RegisteredLast int64            `json:"registered_last_30_days"`
	ByRole         map[string]int64 `json:"by_role"`
}

type ContentTotals struct {
	Total      int64            `json:"total"`
	Published  int64            `json:"published"`
	Views      int64            `json:"views"`
	ByCategory map[string]int64 `json:"by_category"`
}

type QuizTotals struct {
	Quizzes           int64   `json:"quizzes"`
	ActiveQuizzes     int64   `json:"active_quizzes"`
	Attempts          int64   `json:"attempts"`
	Passed            int64   `json:"passed"`
	AveragePercentage float64 `json:"average_percentage"`
}

type Summary struct {
	GeneratedAt  time.Time        `json:"generated_at"`
	Users        UserTotals       `json:"users"`
	Content      ContentTotals    `json:"content"`
	Quizzes      QuizTotals       `json:"quizzes"`
	Applications map[string]int64 `json:"applications"`
	ChatSessions int64            `json:"live_chat_sessions"`
}

// PassRate is the share of completed attempts that passed, in percent.
func (q QuizTotals) PassRate() float64 {
	if q.Attempts == 0 {
		return 0
	}
	return float64(q.Passed) * 100 / float64(q.Attempts)
}

type ReportRepository interface {
	Summary(ctx context.Context, now time.Time) (*Summary, error)
}

type gormReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &gormReportRepository{db: db}
}

type group struct {
	Name  string
	Total int64
}

func (r *gormReportRepository) grouped(db *gorm.DB, table, column, where string) (map[string]int64, error) {
	var rows []group
	if err := db.Table(table).
		Select(column + " AS name, COUNT(*) AS total").
		Where(where).
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, g := range rows {
		out[g.Name] = g.Total
	}
	return out, nil
}

func (r *gormReportRepository) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	db := r.db.WithContext(ctx)
	s := &Summary{GeneratedAt: now}
	var err error

	var users struct {
		Total          int64
		Active         int64
		AadhaarLinked  int64
		DBTEnabled     int64 `gorm:"column:dbt_enabled"`
		RegisteredLast int64
	}
	if err = db.Raw(`
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE is_active) AS active,
		       COUNT(*) FILTER (WHERE aadhaar_linked) AS aadhaar_linked,
		       COUNT(*) FILTER (WHERE bank_dbt_enabled) AS dbt_enabled,
		       COUNT(*) FILTER (WHERE created_at >= ?) AS registered_last
		FROM users WHERE deleted_at IS NULL`, now.AddDate(0, 0, -30)).
		Scan(&users).Error; err != nil {
		return nil, err
	}
	s.Users = UserTotals{
		Total:          users.Total,
		Active:         users.Active,
		AadhaarLinked:  users.AadhaarLinked,
		DBTEnabled:     users.DBTEnabled,
		RegisteredLast: users.RegisteredLast,
	}
	if s.Users.ByRole, err = r.grouped(db, "users", "role", "deleted_at IS NULL"); err != nil {
		return nil, err
	}

	var content struct {
		Total     int64
		Published int64
		Views     int64
	}
	if err = db.Raw(`
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE content_is_published) AS published,
		       COALESCE(SUM(content_view_count), 0) AS views
		FROM contents WHERE content_deleted_at IS NULL`).
		Scan(&content).Error; err != nil {
		return nil, err
	}
	s.Content = ContentTotals{Total: content.Total, Published: content.Published, Views: content.Views}
	if s.Content.ByCategory, err = r.grouped(db, "contents", "content_category", "content_deleted_at IS NULL"); err != nil {
		return nil, err
	}

	if err = db.Raw(`
		SELECT (SELECT COUNT(*) FROM quizzes WHERE quiz_deleted_at IS NULL) AS quizzes,
		       (SELECT COUNT(*) FROM quizzes WHERE quiz_deleted_at IS NULL AND quiz_is_active) AS active_quizzes,
		       COUNT(a.*) AS attempts,
		       COUNT(a.*) FILTER (WHERE a.quiz_attempt_passed) AS passed,
		       COALESCE(ROUND(AVG(a.quiz_attempt_percentage), 2), 0) AS average_percentage
		FROM quiz_attempts a WHERE a.quiz_attempt_status = 'completed'`).
		Scan(&s.Quizzes).Error; err != nil {
		return nil, err
	}

	if s.Applications, err = r.grouped(db, "applications", "application_status", "application_deleted_at IS NULL"); err != nil {
		return nil, err
	}

	if err = db.Table("chat_histories").Where("chat_expires_at > ?", now).Count(&s.ChatSessions).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// Static returns a fixed summary; handy for handlers under test.
type Static struct {
	Value *Summary
	Err   error
}

func (s Static) Summary(context.Context, time.Time) (*Summary, error) { return s.Value, s.Err }
