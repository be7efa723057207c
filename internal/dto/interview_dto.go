package dto

import (
	"time"

	"interview-coach/internal/domain"
)

// ScoreAnswerRequest submits one answer for feedback.
type ScoreAnswerRequest struct {
	QuestionID string  `json:"question_id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	GroupID    *string `json:"group_id"`
}

func (r ScoreAnswerRequest) Submission() domain.AnswerSubmission {
	return domain.AnswerSubmission{QuestionID: r.QuestionID, QuestionText: r.Question, Answer: r.Answer}
}

// CompleteInterviewRequest submits every answer of one practice session.
// A group id is generated when omitted.
type CompleteInterviewRequest struct {
	GroupID string                    `json:"group_id"`
	Answers []domain.AnswerSubmission `json:"answers"`
}

// RegenerateFeedbackRequest identifies a stored record by its composite key.
type RegenerateFeedbackRequest struct {
	CreatedAt  time.Time `json:"created_at"`
	QuestionID string    `json:"question_id"`
	Question   string    `json:"question"`
}

type InterviewRecordResponse struct {
	CreatedAt  string  `json:"created_at"`
	QuestionID string  `json:"question_id"`
	Answer     string  `json:"answer"`
	Score      *int    `json:"score,omitempty"`
	Feedback   *string `json:"feedback,omitempty"`
	GroupID    *string `json:"group_id,omitempty"`
}

func NewInterviewRecordResponse(r *domain.InterviewRecord) InterviewRecordResponse {
	return InterviewRecordResponse{
		CreatedAt:  r.CreatedAt.Format(time.RFC3339Nano),
		QuestionID: r.QuestionID,
		Answer:     r.Answer,
		Score:      r.Score,
		Feedback:   r.Feedback,
		GroupID:    r.GroupID,
	}
}

func NewInterviewRecordList(rs []*domain.InterviewRecord) []InterviewRecordResponse {
	out := make([]InterviewRecordResponse, 0, len(rs))
	for _, r := range rs {
		if r == nil {
			continue
		}
		out = append(out, NewInterviewRecordResponse(r))
	}
	return out
}

// CompleteInterviewResponse lists the produced records in submission order.
type CompleteInterviewResponse struct {
	GroupID   string                    `json:"group_id"`
	Completed int                       `json:"completed"`
	Total     int                       `json:"total"`
	Results   []InterviewRecordResponse `json:"results"`
	Message   string                    `json:"message,omitempty"`
}
