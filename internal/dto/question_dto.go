package dto

import (
	"time"

	"interview-coach/internal/domain"
)

// QuestionRequest is used for both create and update.
type QuestionRequest struct {
	Question   string  `json:"question"`
	Category   *string `json:"category"`
	Company    *string `json:"company"`
	QuestionAt *int    `json:"question_at"`
}

func (r QuestionRequest) ToDomain() domain.QuestionInput {
	return domain.QuestionInput{
		Text:       r.Question,
		Category:   r.Category,
		Company:    r.Company,
		QuestionAt: r.QuestionAt,
	}
}

type QuestionResponse struct {
	ID         string  `json:"id"`
	Question   string  `json:"question"`
	Category   *string `json:"category,omitempty"`
	Company    *string `json:"company,omitempty"`
	QuestionAt *int    `json:"question_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func NewQuestionResponse(q *domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:         q.ID,
		Question:   q.Text,
		Category:   q.Category,
		Company:    q.Company,
		QuestionAt: q.QuestionAt,
		CreatedAt:  q.CreatedAt.Format(time.RFC3339),
	}
}

func NewQuestionListResponse(qs []*domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, NewQuestionResponse(q))
	}
	return out
}

// UploadResponse reports an ingestion run.
type UploadResponse struct {
	TotalRows    int               `json:"total_rows"`
	SuccessCount int               `json:"success_count"`
	FailureCount int               `json:"failure_count"`
	Errors       []domain.RowError `json:"errors"`
}

func NewUploadResponse(o *domain.UploadOutcome) UploadResponse {
	errs := o.Errors
	if errs == nil {
		errs = []domain.RowError{}
	}
	return UploadResponse{
		TotalRows:    o.TotalRows,
		SuccessCount: o.SuccessCount,
		FailureCount: o.FailureCount,
		Errors:       errs,
	}
}
