package handler_test

import (
	"context"
	"io"
	"time"

	"interview-coach/internal/domain"
	"interview-coach/internal/session"
)

// --- Manual Mocks ---

type MockAuthService struct {
	SignUpFunc                func(ctx context.Context, in domain.SignUpInput) (*domain.Account, error)
	SignInFunc                func(ctx context.Context, email, password string) (*domain.Session, error)
	SignOutFunc               func(ctx context.Context, token string) error
	CurrentSessionFunc        func(ctx context.Context, token string) (*domain.Session, error)
	ResetPasswordForEmailFunc func(ctx context.Context, email string) error
	ConfirmPasswordResetFunc  func(ctx context.Context, token, newPassword string) error
}

func (m *MockAuthService) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.Account, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, in)
	}
	panic("MockAuthService.SignUpFunc not implemented")
}
func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	panic("MockAuthService.SignInFunc not implemented")
}
func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, token)
	}
	return nil
}
func (m *MockAuthService) CurrentSession(ctx context.Context, token string) (*domain.Session, error) {
	if m.CurrentSessionFunc != nil {
		return m.CurrentSessionFunc(ctx, token)
	}
	panic("MockAuthService.CurrentSessionFunc not implemented")
}
func (m *MockAuthService) ResetPasswordForEmail(ctx context.Context, email string) error {
	if m.ResetPasswordForEmailFunc != nil {
		return m.ResetPasswordForEmailFunc(ctx, email)
	}
	panic("MockAuthService.ResetPasswordForEmailFunc not implemented")
}
func (m *MockAuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if m.ConfirmPasswordResetFunc != nil {
		return m.ConfirmPasswordResetFunc(ctx, token, newPassword)
	}
	panic("MockAuthService.ConfirmPasswordResetFunc not implemented")
}

type MockUserService struct {
	GetProfileFunc    func(ctx context.Context, userID string) (*domain.Account, error)
	UpdateProfileFunc func(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.Account, error)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*domain.Account, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	panic("MockUserService.GetProfileFunc not implemented")
}
func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.Account, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, patch)
	}
	panic("MockUserService.UpdateProfileFunc not implemented")
}

type MockVerificationService struct {
	SendFunc            func(ctx context.Context, email string) (*domain.SendResult, error)
	VerifyFunc          func(ctx context.Context, email, code string) (domain.VerificationStatus, error)
	ResendFunc          func(ctx context.Context, email string) (*domain.SendResult, error)
	IsEmailVerifiedFunc func(ctx context.Context, email string) bool
	StatusFunc          func(ctx context.Context, email string) (domain.VerificationStatus, error)
}

func (m *MockVerificationService) Send(ctx context.Context, email string) (*domain.SendResult, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, email)
	}
	panic("MockVerificationService.SendFunc not implemented")
}
func (m *MockVerificationService) Verify(ctx context.Context, email, code string) (domain.VerificationStatus, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, code)
	}
	panic("MockVerificationService.VerifyFunc not implemented")
}
func (m *MockVerificationService) Resend(ctx context.Context, email string) (*domain.SendResult, error) {
	if m.ResendFunc != nil {
		return m.ResendFunc(ctx, email)
	}
	panic("MockVerificationService.ResendFunc not implemented")
}
func (m *MockVerificationService) IsEmailVerified(ctx context.Context, email string) bool {
	if m.IsEmailVerifiedFunc != nil {
		return m.IsEmailVerifiedFunc(ctx, email)
	}
	return true
}
func (m *MockVerificationService) Status(ctx context.Context, email string) (domain.VerificationStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, email)
	}
	panic("MockVerificationService.StatusFunc not implemented")
}

type MockQuestionService struct {
	ListFunc   func(ctx context.Context) ([]*domain.Question, error)
	AddFunc    func(ctx context.Context, in domain.QuestionInput) (*domain.Question, error)
	UpdateFunc func(ctx context.Context, id string, in domain.QuestionInput) (*domain.Question, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *MockQuestionService) List(ctx context.Context) ([]*domain.Question, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}
func (m *MockQuestionService) Add(ctx context.Context, in domain.QuestionInput) (*domain.Question, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, in)
	}
	panic("MockQuestionService.AddFunc not implemented")
}
func (m *MockQuestionService) Update(ctx context.Context, id string, in domain.QuestionInput) (*domain.Question, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, in)
	}
	panic("MockQuestionService.UpdateFunc not implemented")
}
func (m *MockQuestionService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	panic("MockQuestionService.DeleteFunc not implemented")
}

type MockIngestionService struct {
	IngestFunc func(ctx context.Context, accountID string, src io.Reader) (*domain.UploadOutcome, error)
}

func (m *MockIngestionService) Ingest(ctx context.Context, accountID string, src io.Reader) (*domain.UploadOutcome, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, accountID, src)
	}
	panic("MockIngestionService.IngestFunc not implemented")
}

type MockInterviewService struct {
	ScoreAnswerFunc        func(ctx context.Context, accountID string, sub domain.AnswerSubmission, groupID *string) (*domain.InterviewRecord, error)
	RegenerateFeedbackFunc func(ctx context.Context, rec *domain.InterviewRecord, questionText string) (*domain.InterviewRecord, error)
	HistoryFunc            func(ctx context.Context, accountID string) ([]*domain.InterviewRecord, error)
	CompleteInterviewFunc  func(ctx context.Context, accountID string, answers []domain.AnswerSubmission, groupID string) ([]*domain.InterviewRecord, error)
}

func (m *MockInterviewService) ScoreAnswer(ctx context.Context, accountID string, sub domain.AnswerSubmission, groupID *string) (*domain.InterviewRecord, error) {
	if m.ScoreAnswerFunc != nil {
		return m.ScoreAnswerFunc(ctx, accountID, sub, groupID)
	}
	panic("MockInterviewService.ScoreAnswerFunc not implemented")
}
func (m *MockInterviewService) RegenerateFeedback(ctx context.Context, rec *domain.InterviewRecord, questionText string) (*domain.InterviewRecord, error) {
	if m.RegenerateFeedbackFunc != nil {
		return m.RegenerateFeedbackFunc(ctx, rec, questionText)
	}
	panic("MockInterviewService.RegenerateFeedbackFunc not implemented")
}
func (m *MockInterviewService) History(ctx context.Context, accountID string) ([]*domain.InterviewRecord, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, accountID)
	}
	return nil, nil
}
func (m *MockInterviewService) CompleteInterview(ctx context.Context, accountID string, answers []domain.AnswerSubmission, groupID string) ([]*domain.InterviewRecord, error) {
	if m.CompleteInterviewFunc != nil {
		return m.CompleteInterviewFunc(ctx, accountID, answers, groupID)
	}
	panic("MockInterviewService.CompleteInterviewFunc not implemented")
}

type fakeServices struct {
	auth         *MockAuthService
	users        *MockUserService
	verification *MockVerificationService
	questions    *MockQuestionService
	ingestion    *MockIngestionService
	interviews   *MockInterviewService
}

func newFakeServices() *fakeServices {
	return &fakeServices{
		auth:         &MockAuthService{},
		users:        &MockUserService{},
		verification: &MockVerificationService{},
		questions:    &MockQuestionService{},
		ingestion:    &MockIngestionService{},
		interviews:   &MockInterviewService{},
	}
}

func (f *fakeServices) deps() session.Deps {
	return session.Deps{
		Auth:         f.auth,
		Users:        f.users,
		Verification: f.verification,
		Questions:    f.questions,
		Ingestion:    f.ingestion,
		Interviews:   f.interviews,
	}
}

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func testAccount() *domain.Account {
	return &domain.Account{ID: "user-1", Email: "kim@example.com", Name: "김개발", Category: "backend", CreatedAt: testNow}
}

// validSession accepts "good-token" and rejects everything else.
func validSession(token string) (*domain.Session, error) {
	if token != "good-token" {
		return nil, domain.NewUnauthorizedError("Invalid or expired token")
	}
	return &domain.Session{ID: "sid-1", AccessToken: token, ExpiresAt: testNow.Add(time.Hour), Account: testAccount()}, nil
}
