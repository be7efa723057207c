package repository

import (
	"context"
	"fmt"
	"time"

	"interview-coach/internal/domain"
	"interview-coach/internal/repository/models"
	"interview-coach/internal/util"
)

type interviewRepository struct {
	store TableStore
}

func NewInterviewRepository(store TableStore) domain.InterviewRepository {
	return &interviewRepository{store: store}
}

func toDomainInterview(m *models.Interview) *domain.InterviewRecord {
	return &domain.InterviewRecord{
		CreatedAt:  m.CreatedAt,
		AccountID:  m.UserID,
		QuestionID: m.QuestionID,
		Answer:     m.Answer,
		Score:      util.NullInt64ToIntPtr(m.Score),
		Feedback:   util.NullStringToPtr(m.Feedback),
		GroupID:    util.NullStringToPtr(m.GroupID),
	}
}

func (r *interviewRepository) Create(ctx context.Context, rec *domain.InterviewRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	row := map[string]interface{}{
		"created_at":  rec.CreatedAt,
		"user_id":     rec.AccountID,
		"question_id": rec.QuestionID,
		"answer":      rec.Answer,
		"score":       util.IntPtrToNullInt64(rec.Score),
		"feedback":    util.StringPtrToNullString(rec.Feedback),
		"group_id":    util.StringPtrToNullString(rec.GroupID),
	}
	if err := r.store.Insert(ctx, TableInterview, row, nil); err != nil {
		return fmt.Errorf("failed to create interview record: %w", err)
	}
	return nil
}

// ListByAccount returns the account's records, newest first.
func (r *interviewRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.InterviewRecord, error) {
	var rows []models.Interview
	err := r.store.Select(ctx, TableInterview, &rows,
		Where(Eq("user_id", accountID)),
		OrderBy("created_at", true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview records: %w", err)
	}
	out := make([]*domain.InterviewRecord, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainInterview(&rows[i]))
	}
	return out, nil
}

func (r *interviewRepository) UpdateFeedback(ctx context.Context, rec *domain.InterviewRecord) error {
	patch := map[string]interface{}{
		"score":    util.IntPtrToNullInt64(rec.Score),
		"feedback": util.StringPtrToNullString(rec.Feedback),
	}
	n, err := r.store.Update(ctx, TableInterview, patch,
		Eq("created_at", rec.CreatedAt),
		Eq("user_id", rec.AccountID),
		Eq("question_id", rec.QuestionID),
	)
	if err != nil {
		return fmt.Errorf("failed to update interview feedback: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("interview record not found")
	}
	return nil
}
