package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edudbt_backend/internals/features/learning/quizzes/model"
	helper "edudbt_backend/internals/helpers"
)

type AttemptFilter struct {
	UserID uuid.UUID
	QuizID *uuid.UUID
}

type AttemptRepository interface {
	Create(ctx context.Context, a *model.QuizAttemptModel) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.QuizAttemptModel, error)
	// Complete writes the graded result only while the row is still in_progress.
	// It reports false when another submission got there first.
	Complete(ctx context.Context, a *model.QuizAttemptModel) (bool, error)
	List(ctx context.Context, f AttemptFilter, p helper.Paging) ([]model.QuizAttemptModel, int64, error)
}

type gormAttemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &gormAttemptRepository{db: db}
}

func (r *gormAttemptRepository) Create(ctx context.Context, a *model.QuizAttemptModel) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *gormAttemptRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.QuizAttemptModel, error) {
	var a model.QuizAttemptModel
	err := r.db.WithContext(ctx).Where("quiz_attempt_id = ?", id).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *gormAttemptRepository) Complete(ctx context.Context, a *model.QuizAttemptModel) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.QuizAttemptModel{}).
		Where("quiz_attempt_id = ? AND quiz_attempt_status = ?", a.QuizAttemptID, model.QuizAttemptInProgress).
		Updates(map[string]any{
			"quiz_attempt_status":             model.QuizAttemptCompleted,
			"quiz_attempt_answers":            a.QuizAttemptAnswers,
			"quiz_attempt_score":              a.QuizAttemptScore,
			"quiz_attempt_total_marks":        a.QuizAttemptTotalMarks,
			"quiz_attempt_percentage":         a.QuizAttemptPercentage,
			"quiz_attempt_passed":             a.QuizAttemptPassed,
			"quiz_attempt_time_taken_seconds": a.QuizAttemptTimeTakenSeconds,
			"quiz_attempt_completed_at":       a.QuizAttemptCompletedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormAttemptRepository) List(ctx context.Context, f AttemptFilter, p helper.Paging) ([]model.QuizAttemptModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.QuizAttemptModel{}).Where("quiz_attempt_user_id = ?", f.UserID)
	if f.QuizID != nil {
		q = q.Where("quiz_attempt_quiz_id = ?", *f.QuizID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.QuizAttemptModel
	err := q.Order("quiz_attempt_started_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error
	return rows, total, err
}
