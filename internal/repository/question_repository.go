package repository

import (
	"context"
	"fmt"
	"time"

	"interview-coach/internal/domain"
	"interview-coach/internal/repository/models"
	"interview-coach/internal/util"
)

type questionRepository struct {
	store TableStore
}

func NewQuestionRepository(store TableStore) domain.QuestionRepository {
	return &questionRepository{store: store}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:         m.ID,
		Text:       m.Question,
		Category:   util.NullStringToPtr(m.Category),
		Company:    util.NullStringToPtr(m.Company),
		QuestionAt: util.NullInt64ToIntPtr(m.QuestionAt),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// List returns every question, newest first.
func (r *questionRepository) List(ctx context.Context) ([]*domain.Question, error) {
	var rows []models.Question
	if err := r.store.Select(ctx, TableQuestion, &rows, OrderBy("created_at", true)); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	out := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainQuestion(&rows[i]))
	}
	return out, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	var rows []models.Question
	if err := r.store.Select(ctx, TableQuestion, &rows, Where(Eq("id", id)), Limit(1)); err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return toDomainQuestion(&rows[0]), nil
}

func (r *questionRepository) Create(ctx context.Context, q *domain.Question) error {
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	row := map[string]interface{}{
		"id":          q.ID,
		"question":    q.Text,
		"category":    util.StringPtrToNullString(q.Category),
		"company":     util.StringPtrToNullString(q.Company),
		"question_at": util.IntPtrToNullInt64(q.QuestionAt),
		"created_at":  q.CreatedAt,
		"updated_at":  q.UpdatedAt,
	}
	if err := r.store.Insert(ctx, TableQuestion, row, nil); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *questionRepository) Update(ctx context.Context, q *domain.Question) error {
	q.UpdatedAt = time.Now().UTC()
	patch := map[string]interface{}{
		"question":    q.Text,
		"category":    util.StringPtrToNullString(q.Category),
		"company":     util.StringPtrToNullString(q.Company),
		"question_at": util.IntPtrToNullInt64(q.QuestionAt),
		"updated_at":  q.UpdatedAt,
	}
	n, err := r.store.Update(ctx, TableQuestion, patch, Eq("id", q.ID))
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("question %s not found", q.ID))
	}
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.store.Delete(ctx, TableQuestion, Eq("id", id))
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("question %s not found", id))
	}
	return nil
}
