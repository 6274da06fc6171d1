package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"edudbt_backend/internals/features/learning/quizzes/model"
	helper "edudbt_backend/internals/helpers"
)

func page[T any](rows []T, p helper.Paging) []T {
	if p.Offset >= len(rows) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if p.Limit <= 0 || end > len(rows) {
		end = len(rows)
	}
	return rows[p.Offset:end]
}

type MemoryQuizRepository struct {
	mu        sync.Mutex
	quizzes   map[uuid.UUID]model.QuizModel
	questions map[uuid.UUID]model.QuizQuestionModel
}

func NewMemoryQuizRepository() *MemoryQuizRepository {
	return &MemoryQuizRepository{
		quizzes:   map[uuid.UUID]model.QuizModel{},
		questions: map[uuid.UUID]model.QuizQuestionModel{},
	}
}

func (r *MemoryQuizRepository) CreateQuiz(_ context.Context, q *model.QuizModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q.QuizID == uuid.Nil {
		q.QuizID = uuid.New()
	}
	now := time.Now()
	q.QuizCreatedAt, q.QuizUpdatedAt = now, now
	for i := range q.Questions {
		qq := &q.Questions[i]
		if qq.QuizQuestionID == uuid.Nil {
			qq.QuizQuestionID = uuid.New()
		}
		qq.QuizQuestionQuizID = q.QuizID
		qq.QuizQuestionCreatedAt = now
		r.questions[qq.QuizQuestionID] = *qq
	}
	cp := *q
	cp.Questions = nil
	r.quizzes[q.QuizID] = cp
	return nil
}

func (r *MemoryQuizRepository) SaveQuiz(_ context.Context, q *model.QuizModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quizzes[q.QuizID]; !ok {
		return ErrQuizNotFound
	}
	q.QuizUpdatedAt = time.Now()
	cp := *q
	cp.Questions = nil
	r.quizzes[q.QuizID] = cp
	return nil
}

func (r *MemoryQuizRepository) DeleteQuiz(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quizzes[id]; !ok {
		return ErrQuizNotFound
	}
	delete(r.quizzes, id)
	return nil
}

func (r *MemoryQuizRepository) FindQuiz(_ context.Context, id uuid.UUID) (*model.QuizModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quizzes[id]
	if !ok {
		return nil, ErrQuizNotFound
	}
	return &q, nil
}

func (r *MemoryQuizRepository) ListQuizzes(_ context.Context, f QuizFilter, p helper.Paging) ([]model.QuizModel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.QuizModel
	for _, q := range r.quizzes {
		if !f.IncludeInactive && !q.QuizIsActive {
			continue
		}
		if f.Category != "" && q.QuizCategory != f.Category {
			continue
		}
		if f.Difficulty != "" && q.QuizDifficulty != f.Difficulty {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuizTitle < out[j].QuizTitle })
	return page(out, p), int64(len(out)), nil
}

func (r *MemoryQuizRepository) QuestionStats(_ context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]QuestionStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range quizIDs {
		want[id] = true
	}
	out := map[uuid.UUID]QuestionStats{}
	for _, q := range r.questions {
		if !want[q.QuizQuestionQuizID] {
			continue
		}
		s := out[q.QuizQuestionQuizID]
		s.QuizID = q.QuizQuestionQuizID
		s.QuestionCount++
		s.TotalMarks += q.QuizQuestionMarks
		out[q.QuizQuestionQuizID] = s
	}
	return out, nil
}

func (r *MemoryQuizRepository) Questions(_ context.Context, quizID uuid.UUID) ([]model.QuizQuestionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.QuizQuestionModel
	for _, q := range r.questions {
		if q.QuizQuestionQuizID == quizID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuizQuestionOrder < out[j].QuizQuestionOrder })
	return out, nil
}

func (r *MemoryQuizRepository) NextQuestionOrder(ctx context.Context, quizID uuid.UUID) (int, error) {
	rows, _ := r.Questions(ctx, quizID)
	max := 0
	for _, q := range rows {
		if q.QuizQuestionOrder > max {
			max = q.QuizQuestionOrder
		}
	}
	return max + 1, nil
}

func (r *MemoryQuizRepository) AddQuestion(_ context.Context, q *model.QuizQuestionModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q.QuizQuestionID == uuid.Nil {
		q.QuizQuestionID = uuid.New()
	}
	q.QuizQuestionCreatedAt = time.Now()
	r.questions[q.QuizQuestionID] = *q
	return nil
}

func (r *MemoryQuizRepository) FindQuestion(_ context.Context, id uuid.UUID) (*model.QuizQuestionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return &q, nil
}

func (r *MemoryQuizRepository) SaveQuestion(_ context.Context, q *model.QuizQuestionModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[q.QuizQuestionID]; !ok {
		return ErrQuestionNotFound
	}
	r.questions[q.QuizQuestionID] = *q
	return nil
}

func (r *MemoryQuizRepository) DeleteQuestion(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return ErrQuestionNotFound
	}
	delete(r.questions, id)
	return nil
}

type MemoryAttemptRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.QuizAttemptModel
}

func NewMemoryAttemptRepository() *MemoryAttemptRepository {
	return &MemoryAttemptRepository{rows: map[uuid.UUID]model.QuizAttemptModel{}}
}

func (r *MemoryAttemptRepository) Create(_ context.Context, a *model.QuizAttemptModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.QuizAttemptID == uuid.Nil {
		a.QuizAttemptID = uuid.New()
	}
	r.rows[a.QuizAttemptID] = *a
	return nil
}

func (r *MemoryAttemptRepository) FindByID(_ context.Context, id uuid.UUID) (*model.QuizAttemptModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return &a, nil
}

func (r *MemoryAttemptRepository) Complete(_ context.Context, a *model.QuizAttemptModel) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[a.QuizAttemptID]
	if !ok || cur.QuizAttemptStatus != model.QuizAttemptInProgress {
		return false, nil
	}
	cp := *a
	cp.QuizAttemptStatus = model.QuizAttemptCompleted
	r.rows[a.QuizAttemptID] = cp
	return true, nil
}

func (r *MemoryAttemptRepository) List(_ context.Context, f AttemptFilter, p helper.Paging) ([]model.QuizAttemptModel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.QuizAttemptModel
	for _, a := range r.rows {
		if a.QuizAttemptUserID != f.UserID {
			continue
		}
		if f.QuizID != nil && a.QuizAttemptQuizID != *f.QuizID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuizAttemptStartedAt.After(out[j].QuizAttemptStartedAt) })
	return page(out, p), int64(len(out)), nil
}
