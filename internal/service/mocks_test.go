package service

import (
	"context"
	"io"
	"time"

	"interview-coach/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockAccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ domain.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

var _ domain.QuestionRepository = (*MockQuestionRepository)(nil)

func (m *MockQuestionRepository) List(ctx context.Context) ([]*domain.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuestionRepository) Update(ctx context.Context, q *domain.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- MockInterviewRepository ---
type MockInterviewRepository struct {
	mock.Mock
}

var _ domain.InterviewRepository = (*MockInterviewRepository)(nil)

func (m *MockInterviewRepository) Create(ctx context.Context, rec *domain.InterviewRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockInterviewRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.InterviewRecord, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InterviewRecord), args.Error(1)
}

func (m *MockInterviewRepository) UpdateFeedback(ctx context.Context, rec *domain.InterviewRecord) error {
	return m.Called(ctx, rec).Error(0)
}

// --- MockVerificationRepository ---
type MockVerificationRepository struct {
	mock.Mock
}

var _ domain.VerificationRepository = (*MockVerificationRepository)(nil)

func (m *MockVerificationRepository) Create(ctx context.Context, c *domain.VerificationChallenge) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockVerificationRepository) FindActive(ctx context.Context, email, code string) (*domain.VerificationChallenge, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationChallenge), args.Error(1)
}

func (m *MockVerificationRepository) LatestActive(ctx context.Context, email string) (*domain.VerificationChallenge, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationChallenge), args.Error(1)
}

func (m *MockVerificationRepository) MarkVerified(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVerificationRepository) IncrementAttempts(ctx context.Context, c *domain.VerificationChallenge) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockVerificationRepository) InvalidateActive(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVerificationRepository) HasVerified(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

var _ domain.Cache = (*MockCache)(nil)

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- MockMailSender ---
type MockMailSender struct {
	mock.Mock
	channel domain.DeliveryChannel
}

var _ domain.MailSender = (*MockMailSender)(nil)

func (m *MockMailSender) Send(ctx context.Context, msg domain.MailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMailSender) Channel() domain.DeliveryChannel {
	if m.channel == "" {
		return domain.ChannelSMTP
	}
	return m.channel
}

// --- MockTextGenerator ---
type MockTextGenerator struct {
	mock.Mock
}

var _ domain.TextGenerator = (*MockTextGenerator)(nil)

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// --- MockSheetReader ---
type MockSheetReader struct {
	mock.Mock
}

var _ domain.SheetReader = (*MockSheetReader)(nil)

func (m *MockSheetReader) ReadFirstSheet(ctx context.Context, r io.Reader) (*domain.Sheet, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sheet), args.Error(1)
}

// --- MockUploadArchive ---
type MockUploadArchive struct {
	mock.Mock
}

var _ domain.UploadArchive = (*MockUploadArchive)(nil)

func (m *MockUploadArchive) Store(ctx context.Context, key string, body []byte, contentType string) error {
	return m.Called(ctx, key, body, contentType).Error(0)
}

// --- MockTransactionManager runs fn inline ---
type MockTransactionManager struct {
	mock.Mock
}

var _ domain.TransactionManager = (*MockTransactionManager)(nil)

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// --- MockFeedbackService ---
type MockFeedbackService struct {
	mock.Mock
}

var _ FeedbackService = (*MockFeedbackService)(nil)

func (m *MockFeedbackService) Evaluate(ctx context.Context, question, answer string) (*domain.Feedback, error) {
	args := m.Called(ctx, question, answer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feedback), args.Error(1)
}

// --- MockQuestionService ---
type MockQuestionService struct {
	mock.Mock
}

var _ QuestionService = (*MockQuestionService)(nil)

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
