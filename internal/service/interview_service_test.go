package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"interview-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestInterviewService(repo *MockInterviewRepository, fb FeedbackService) *interviewServiceImpl {
	s := NewInterviewService(repo, fb, time.Second, zap.NewNop()).(*interviewServiceImpl)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestInterviewService_ScoreAnswer_ModelFeedback(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInterviewRepository)
	fb := new(MockFeedbackService)
	group := "group-1"

	fb.On("Evaluate", ctx, "질문", "답변").Return(&domain.Feedback{Text: "좋아요 점수: 8", Score: 8, Source: domain.FeedbackFromModel}, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(r *domain.InterviewRecord) bool {
		return r.AccountID == "u1" && r.QuestionID == "q1" && *r.Score == 8 && *r.Feedback == "좋아요 점수: 8" &&
			r.GroupID != nil && *r.GroupID == group && r.CreatedAt.Equal(fixedNow)
	})).Return(nil)

	rec, err := newTestInterviewService(repo, fb).ScoreAnswer(ctx, "u1",
		domain.AnswerSubmission{QuestionID: "q1", QuestionText: "질문", Answer: "답변"}, &group)
	require.NoError(t, err)
	assert.Equal(t, 8, *rec.Score)
	repo.AssertExpectations(t)
}

func TestInterviewService_ScoreAnswer_FallbackStillPersists(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInterviewRepository)
	fb := new(MockFeedbackService)
	answer := words(12)

	fb.On("Evaluate", ctx, "질문", answer).Return(nil, domain.NewLLMServiceError(errors.New("503 after retries")))
	repo.On("Create", ctx, mock.AnythingOfType("*domain.InterviewRecord")).Return(nil)

	rec, err := newTestInterviewService(repo, fb).ScoreAnswer(ctx, "u1",
		domain.AnswerSubmission{QuestionID: "q1", QuestionText: "질문", Answer: answer}, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, *rec.Score, "score derived from the answer length")
	assert.Equal(t, FallbackFeedbackText, *rec.Feedback)
	assert.Nil(t, rec.GroupID)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestInterviewService_ScoreAnswer_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInterviewRepository)
	fb := new(MockFeedbackService)

	fb.On("Evaluate", ctx, mock.Anything, mock.Anything).Return(&domain.Feedback{Text: "t", Score: 5}, nil)
	repo.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

	rec, err := newTestInterviewService(repo, fb).ScoreAnswer(ctx, "u1", domain.AnswerSubmission{QuestionID: "q1"}, nil)
	assert.Nil(t, rec)
	assert.Error(t, err)
}

func TestInterviewService_ScoreAnswer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := new(MockInterviewRepository)
	fb := new(MockFeedbackService)
	rec, err := newTestInterviewService(repo, fb).ScoreAnswer(ctx, "u1", domain.AnswerSubmission{QuestionID: "q1"}, nil)
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, context.Canceled)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInterviewService_CompleteInterview_AllProduced(t *testing.T) {
	repo := new(MockInterviewRepository)
	fb := new(MockFeedbackService)

	fb.On("Evaluate", mock.Anything, mock.Anything, "a1").Return(&domain.Feedback{Text: "점수: 9", Score: 9}, nil)
	fb.On("Evaluate", mock.Anything, mock.Anything, "a2").Return(nil, errors.New("timeout"))
	fb.On("Evaluate", mock.Anything, mock.Anything, "a3").Return(&domain.Feedback{Text: "점수: 5", Score: 5}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	answers := []domain.AnswerSubmission{
		{QuestionID: "q1", QuestionText: "Q1", Answer: "a1"},
		{QuestionID: "q2", QuestionText: "Q2", Answer: "a2"},
		{QuestionID: "q3", QuestionText: "Q3", Answer: "a3"},
	}
	results, err := newTestInterviewService(repo, fb).CompleteInterview(context.Background(), "u1", answers, "g1")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, rec := range results {
		assert.Equal(t, answers[i].QuestionID, rec.QuestionID, "results keep submission order")
		assert.Equal(t, "g1", *rec.GroupID)
	}
	assert.Equal(t, 4, *results[1].Score, "fallback result still counts as produced")
}

func TestInterviewService_CompleteInterview_Partial(t *testing.T) {
	repo := new(MockInterviewRepository)
	fb := new(MockFeedbackService)

	fb.On("Evaluate", mock.Anything, mock.Anything, mock.Anything).Return(&domain.Feedback{Text: "점수: 7", Score: 7}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.InterviewRecord) bool { return r.QuestionID == "q2" })).
		Return(errors.New("duplicate key"))
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	answers := []domain.AnswerSubmission{
		{QuestionID: "q1", Answer: "a"}, {QuestionID: "q2", Answer: "b"}, {QuestionID: "q3", Answer: "c"},
	}
	results, err := newTestInterviewService(repo, fb).CompleteInterview(context.Background(), "u1", answers, "")
	require.Error(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "q1", results[0].QuestionID)
	assert.Equal(t, "q3", results[1].QuestionID)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodePartialCompletion, de.Code)
	assert.Contains(t, de.Message, "2/3")
	assert.Equal(t, "2/3개의 답변만 처리되었습니다.", domain.UserMessage(err))
}

// blockingFeedback waits for ctx cancellation, like a hung AI call.
type blockingFeedback struct {
	once    sync.Once
	started chan struct{}
}

func (b *blockingFeedback) Evaluate(ctx context.Context, question, answer string) (*domain.Feedback, error) {
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestInterviewService_CompleteInterview_BatchTimeout(t *testing.T) {
	repo := new(MockInterviewRepository)
	fb := &blockingFeedback{started: make(chan struct{})}
	s := newTestInterviewService(repo, fb)
	s.batchTimeout = 50 * time.Millisecond

	answers := []domain.AnswerSubmission{{QuestionID: "q1", Answer: "a"}, {QuestionID: "q2", Answer: "b"}}
	start := time.Now()
	results, err := s.CompleteInterview(context.Background(), "u1", answers, "g")
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, results)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodePartialCompletion, de.Code)
	assert.Contains(t, de.Message, "0/2")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInterviewService_CompleteInterview_Empty(t *testing.T) {
	s := newTestInterviewService(new(MockInterviewRepository), new(MockFeedbackService))
	results, err := s.CompleteInterview(context.Background(), "u1", nil, "g")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestInterviewService_RegenerateFeedback(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInterviewRepository)
	fb := new(MockFeedbackService)
	oldScore := 4
	rec := &domain.InterviewRecord{CreatedAt: fixedNow, AccountID: "u1", QuestionID: "q1", Answer: "답변", Score: &oldScore}

	fb.On("Evaluate", ctx, "질문", "답변").Return(&domain.Feedback{Text: "추천 점수: 9", Score: 9}, nil).Once()
	repo.On("UpdateFeedback", ctx, mock.MatchedBy(func(r *domain.InterviewRecord) bool {
		return *r.Score == 9 && r.CreatedAt.Equal(fixedNow)
	})).Return(nil)

	updated, err := newTestInterviewService(repo, fb).RegenerateFeedback(ctx, rec, "질문")
	require.NoError(t, err)
	assert.Equal(t, 9, *updated.Score)
	assert.Equal(t, 4, *rec.Score, "input record is not mutated")

	fb.On("Evaluate", ctx, "질문", "답변").Return(nil, errors.New("down"))
	_, err = newTestInterviewService(repo, fb).RegenerateFeedback(ctx, rec, "질문")
	assert.Error(t, err)
	repo.AssertNumberOfCalls(t, "UpdateFeedback", 1)
}

func TestInterviewService_History(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInterviewRepository)
	recs := []*domain.InterviewRecord{{QuestionID: "q2"}, {QuestionID: "q1"}}
	repo.On("ListByAccount", ctx, "u1").Return(recs, nil)

	got, err := newTestInterviewService(repo, new(MockFeedbackService)).History(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, recs, got)
}
