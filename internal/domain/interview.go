package domain

import (
	"context"
	"time"
)

const (
	MinScore = 1
	MaxScore = 10
)

// InterviewRecord is one scored answer. Its identity is the triple
// (CreatedAt, AccountID, QuestionID).
type InterviewRecord struct {
	CreatedAt  time.Time
	AccountID  string
	QuestionID string
	Answer     string
	Score      *int
	Feedback   *string
	GroupID    *string
}

// AnswerSubmission is one answer given during a practice session.
type AnswerSubmission struct {
	QuestionID   string `json:"question_id" validate:"required"`
	QuestionText string `json:"question" validate:"required"`
	Answer       string `json:"answer"`
}

type FeedbackSource string

const (
	FeedbackFromModel     FeedbackSource = "model"
	FeedbackFromHeuristic FeedbackSource = "heuristic"
	FeedbackFallback      FeedbackSource = "fallback"
)

// Feedback is the evaluated result for a single answer.
type Feedback struct {
	Text   string
	Score  int
	Source FeedbackSource
}

// TextGenerator produces free-form text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// InterviewRepository persists records in the "Interview" table.
type InterviewRepository interface {
	Create(ctx context.Context, rec *InterviewRecord) error
	ListByAccount(ctx context.Context, accountID string) ([]*InterviewRecord, error)
	// UpdateFeedback rewrites score and feedback of the record with the same identity.
	UpdateFeedback(ctx context.Context, rec *InterviewRecord) error
}
