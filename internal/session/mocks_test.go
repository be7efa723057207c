package session

import (
	"context"
	"io"

	"interview-coach/internal/domain"
	"interview-coach/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.Account, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) CurrentSession(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthService) ResetPasswordForEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.Account, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockVerificationService struct {
	mock.Mock
}

var _ service.VerificationService = (*MockVerificationService)(nil)

func (m *MockVerificationService) Send(ctx context.Context, email string) (*domain.SendResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SendResult), args.Error(1)
}

func (m *MockVerificationService) Verify(ctx context.Context, email, code string) (domain.VerificationStatus, error) {
	args := m.Called(ctx, email, code)
	return args.Get(0).(domain.VerificationStatus), args.Error(1)
}

func (m *MockVerificationService) Resend(ctx context.Context, email string) (*domain.SendResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SendResult), args.Error(1)
}

func (m *MockVerificationService) IsEmailVerified(ctx context.Context, email string) bool {
	return m.Called(ctx, email).Bool(0)
}

func (m *MockVerificationService) Status(ctx context.Context, email string) (domain.VerificationStatus, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.VerificationStatus), args.Error(1)
}

type MockQuestionService struct {
	mock.Mock
}

var _ service.QuestionService = (*MockQuestionService)(nil)

func (m *MockQuestionService) List(ctx context.Context) ([]*domain.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionService) Add(ctx context.Context, in domain.QuestionInput) (*domain.Question, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionService) Update(ctx context.Context, id string, in domain.QuestionInput) (*domain.Question, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockIngestionService struct {
	mock.Mock
}

var _ service.IngestionService = (*MockIngestionService)(nil)

func (m *MockIngestionService) Ingest(ctx context.Context, accountID string, src io.Reader) (*domain.UploadOutcome, error) {
	args := m.Called(ctx, accountID, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadOutcome), args.Error(1)
}

type MockInterviewService struct {
	mock.Mock
}

var _ service.InterviewService = (*MockInterviewService)(nil)

func (m *MockInterviewService) ScoreAnswer(ctx context.Context, accountID string, sub domain.AnswerSubmission, groupID *string) (*domain.InterviewRecord, error) {
	args := m.Called(ctx, accountID, sub, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewRecord), args.Error(1)
}

func (m *MockInterviewService) RegenerateFeedback(ctx context.Context, rec *domain.InterviewRecord, questionText string) (*domain.InterviewRecord, error) {
	args := m.Called(ctx, rec, questionText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewRecord), args.Error(1)
}

func (m *MockInterviewService) History(ctx context.Context, accountID string) ([]*domain.InterviewRecord, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InterviewRecord), args.Error(1)
}

func (m *MockInterviewService) CompleteInterview(ctx context.Context, accountID string, answers []domain.AnswerSubmission, groupID string) ([]*domain.InterviewRecord, error) {
	args := m.Called(ctx, accountID, answers, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InterviewRecord), args.Error(1)
}

type mocks struct {
	auth         *MockAuthService
	users        *MockUserService
	verification *MockVerificationService
	questions    *MockQuestionService
	ingestion    *MockIngestionService
	interviews   *MockInterviewService
}

func newMocks() (mocks, Deps) {
	m := mocks{
		auth:         new(MockAuthService),
		users:        new(MockUserService),
		verification: new(MockVerificationService),
		questions:    new(MockQuestionService),
		ingestion:    new(MockIngestionService),
		interviews:   new(MockInterviewService),
	}
	return m, Deps{
		Auth:         m.auth,
		Users:        m.users,
		Verification: m.verification,
		Questions:    m.questions,
		Ingestion:    m.ingestion,
		Interviews:   m.interviews,
	}
}
