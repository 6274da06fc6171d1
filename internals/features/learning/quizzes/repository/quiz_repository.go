package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"edudbt_backend/internals/features/learning/quizzes/model"
	helper "edudbt_backend/internals/helpers"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
)

type QuizFilter struct {
	Category        string
	Difficulty      string
	IncludeInactive bool
}

// QuestionStats summarises a quiz's question set for list views.
type QuestionStats struct {
	QuizID        uuid.UUID `gorm:"column:quiz_id"`
	QuestionCount int64     `gorm:"column:question_count"`
	TotalMarks    float64   `gorm:"column:total_marks"`
}

type QuizRepository interface {
	// CreateQuiz inserts the quiz and its Questions in one transaction.
	CreateQuiz(ctx context.Context, q *model.QuizModel) error
	SaveQuiz(ctx context.Context, q *model.QuizModel) error
	DeleteQuiz(ctx context.Context, id uuid.UUID) error
	FindQuiz(ctx context.Context, id uuid.UUID) (*model.QuizModel, error)
	ListQuizzes(ctx context.Context, f QuizFilter, p helper.Paging) ([]model.QuizModel, int64, error)
	QuestionStats(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]QuestionStats, error)

	Questions(ctx context.Context, quizID uuid.UUID) ([]model.QuizQuestionModel, error)
	NextQuestionOrder(ctx context.Context, quizID uuid.UUID) (int, error)
	AddQuestion(ctx context.Context, q *model.QuizQuestionModel) error
	FindQuestion(ctx context.Context, id uuid.UUID) (*model.QuizQuestionModel, error)
	SaveQuestion(ctx context.Context, q *model.QuizQuestionModel) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
}

type gormQuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &gormQuizRepository{db: db}
}

func (r *gormQuizRepository) CreateQuiz(ctx context.Context, q *model.QuizModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions := q.Questions
		q.Questions = nil
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizQuestionQuizID = q.QuizID
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		q.Questions = questions
		return nil
	})
}

func (r *gormQuizRepository) SaveQuiz(ctx context.Context, q *model.QuizModel) error {
	return r.db.WithContext(ctx).Omit("Questions").Save(q).Error
}

func (r *gormQuizRepository) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("quiz_id = ?", id).Delete(&model.QuizModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (r *gormQuizRepository) FindQuiz(ctx context.Context, id uuid.UUID) (*model.QuizModel, error) {
	var q model.QuizModel
	err := r.db.WithContext(ctx).Where("quiz_id = ?", id).Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *gormQuizRepository) ListQuizzes(ctx context.Context, f QuizFilter, p helper.Paging) ([]model.QuizModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.QuizModel{})
	if !f.IncludeInactive {
		q = q.Where("quiz_is_active = TRUE")
	}
	if f.Category != "" {
		q = q.Where("quiz_category = ?", f.Category)
	}
	if f.Difficulty != "" {
		q = q.Where("quiz_difficulty = ?", f.Difficulty)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.QuizModel
	err := q.Order("quiz_created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error
	return rows, total, err
}

func (r *gormQuizRepository) QuestionStats(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]QuestionStats, error) {
	out := make(map[uuid.UUID]QuestionStats, len(quizIDs))
	if len(quizIDs) == 0 {
		return out, nil
	}
	var rows []QuestionStats
	err := r.db.WithContext(ctx).Model(&model.QuizQuestionModel{}).
		Select("quiz_question_quiz_id AS quiz_id, COUNT(*) AS question_count, COALESCE(SUM(quiz_question_marks), 0) AS total_marks").
		Where("quiz_question_quiz_id IN ?", quizIDs).
		Group("quiz_question_quiz_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		out[s.QuizID] = s
	}
	return out, nil
}

func (r *gormQuizRepository) Questions(ctx context.Context, quizID uuid.UUID) ([]model.QuizQuestionModel, error) {
	var rows []model.QuizQuestionModel
	err := r.db.WithContext(ctx).
		Where("quiz_question_quiz_id = ?", quizID).
		Order("quiz_question_order ASC, quiz_question_created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *gormQuizRepository) NextQuestionOrder(ctx context.Context, quizID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.QuizQuestionModel{}).
		Select("COALESCE(MAX(quiz_question_order), 0)").
		Where("quiz_question_quiz_id = ?", quizID).
		Scan(&max).Error
	return max + 1, err
}

func (r *gormQuizRepository) AddQuestion(ctx context.Context, q *model.QuizQuestionModel) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *gormQuizRepository) FindQuestion(ctx context.Context, id uuid.UUID) (*model.QuizQuestionModel, error) {
	var q model.QuizQuestionModel
	err := r.db.WithContext(ctx).Where("quiz_question_id = ?", id).Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *gormQuizRepository) SaveQuestion(ctx context.Context, q *model.QuizQuestionModel) error {
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *gormQuizRepository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("quiz_question_id = ?", id).Delete(&model.QuizQuestionModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
