package service

import (
	"context"
	"fmt"
	"time"

	"interview-coach/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultMaxParallelScoring = 8

// InterviewService scores answers and keeps the practice history.
type InterviewService interface {
	// ScoreAnswer always persists a record. It returns an error only when the
	// record could not be stored or ctx was cancelled.
	ScoreAnswer(ctx context.Context, accountID string, sub domain.AnswerSubmission, groupID *string) (*domain.InterviewRecord, error)
	RegenerateFeedback(ctx context.Context, rec *domain.InterviewRecord, questionText string) (*domain.InterviewRecord, error)
	History(ctx context.Context, accountID string) ([]*domain.InterviewRecord, error)
	// CompleteInterview scores every answer concurrently. Results keep submission
	// order; when only M of N answers produced a record the M records are returned
	// with a PARTIAL_COMPLETION error.
	CompleteInterview(ctx context.Context, accountID string, answers []domain.AnswerSubmission, groupID string) ([]*domain.InterviewRecord, error)
}

type interviewServiceImpl struct {
	repo         domain.InterviewRepository
	feedback     FeedbackService
	batchTimeout time.Duration
	maxParallel  int
	logger       *zap.Logger
	now          func() time.Time
}

func NewInterviewService(repo domain.InterviewRepository, feedback FeedbackService, batchTimeout time.Duration, logger *zap.Logger) InterviewService {
	if batchTimeout <= 0 {
		batchTimeout = 3 * time.Minute
	}
	return &interviewServiceImpl{
		repo:         repo,
		feedback:     feedback,
		batchTimeout: batchTimeout,
		maxParallel:  defaultMaxParallelScoring,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *interviewServiceImpl) ScoreAnswer(ctx context.Context, accountID string, sub domain.AnswerSubmission, groupID *string) (*domain.InterviewRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fb, err := s.feedback.Evaluate(ctx, sub.QuestionText, sub.Answer)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("Feedback generation failed, using fallback score",
			zap.String("question_id", sub.QuestionID),
			zap.String("kind", string(domain.KindOf(err))),
			zap.Error(err))
		fb = &domain.Feedback{
			Text:   FallbackFeedbackText,
			Score:  HeuristicScore(sub.Answer),
			Source: domain.FeedbackFallback,
		}
	}

	score := fb.Score
	text := fb.Text
	rec := &domain.InterviewRecord{
		CreatedAt:  s.now().UTC(),
		AccountID:  accountID,
		QuestionID: sub.QuestionID,
		Answer:     sub.Answer,
		Score:      &score,
		Feedback:   &text,
		GroupID:    groupID,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to store interview record",
			zap.String("question_id", sub.QuestionID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Answer scored",
		zap.String("question_id", sub.QuestionID),
		zap.Int("score", score),
		zap.String("source", string(fb.Source)))
	return rec, nil
}

// RegenerateFeedback re-runs the model for a stored record. Unlike ScoreAnswer
// it does not fall back; the stored feedback is kept on failure.
func (s *interviewServiceImpl) RegenerateFeedback(ctx context.Context, rec *domain.InterviewRecord, questionText string) (*domain.InterviewRecord, error) {
	if rec == nil {
		return nil, domain.NewInvalidInputError("Invalid interview record")
	}
	fb, err := s.feedback.Evaluate(ctx, questionText, rec.Answer)
	if err != nil {
		return nil, err
	}

	score := fb.Score
	text := fb.Text
	updated := *rec
	updated.Score = &score
	updated.Feedback = &text
	if err := s.repo.UpdateFeedback(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *interviewServiceImpl) History(ctx context.Context, accountID string) ([]*domain.InterviewRecord, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

func (s *interviewServiceImpl) CompleteInterview(ctx context.Context, accountID string, answers []domain.AnswerSubmission, groupID string) ([]*domain.InterviewRecord, error) {
	total := len(answers)
	if total == 0 {
		return []*domain.InterviewRecord{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.batchTimeout)
	defer cancel()

	var gid *string
	if groupID != "" {
		gid = &groupID
	}

	slots := make([]*domain.InterviewRecord, total)
	var g errgroup.Group
	g.SetLimit(s.maxParallel)
	for i, sub := range answers {
		g.Go(func() error {
			rec, err := s.ScoreAnswer(ctx, accountID, sub, gid)
			if err != nil {
				s.logger.Warn("Answer not processed",
					zap.Int("index", i), zap.String("question_id", sub.QuestionID), zap.Error(err))
				return nil
			}
			slots[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	results := make([]*domain.InterviewRecord, 0, total)
	for _, rec := range slots {
		if rec != nil {
			results = append(results, rec)
		}
	}

	if len(results) < total {
		msg := fmt.Sprintf("%d/%d개의 답변만 처리되었습니다.", len(results), total)
		return results, domain.NewError(domain.CodePartialCompletion, msg, ctx.Err()).
			WithContext("completed", len(results)).
			WithContext("total", total)
	}
	return results, nil
}
