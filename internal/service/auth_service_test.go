package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"interview-coach/internal/cache"
	"interview-coach/internal/config"
	"interview-coach/internal/domain"
	"interview-coach/internal/dto"
	"interview-coach/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key"

var authNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type authDeps struct {
	accounts *MockAccountRepository
	tx       *MockTransactionManager
	cache    *MockCache
	mailer   *MockMailSender
}

func newTestAuthService(t *testing.T) (*authServiceImpl, authDeps) {
	t.Helper()
	deps := authDeps{
		accounts: new(MockAccountRepository),
		tx:       new(MockTransactionManager),
		cache:    new(MockCache),
		mailer:   new(MockMailSender),
	}
	svc, err := NewAuthService(deps.accounts, deps.tx, deps.cache, deps.mailer, validation.NewValidator(),
		config.JWTConfig{SecretKey: testSecret, AccessTokenTTL: time.Hour, ResetTokenTTL: 30 * time.Minute}, zap.NewNop())
	require.NoError(t, err)
	s := svc.(*authServiceImpl)
	s.bcryptCost = bcrypt.MinCost
	s.now = func() time.Time { return authNow }
	return s, deps
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(nil, nil, nil, nil, validation.NewValidator(), config.JWTConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()
	s, deps := newTestAuthService(t)

	deps.tx.On("WithTransaction", ctx).Return(nil)
	deps.accounts.On("GetByEmail", ctx, "new@example.com").Return(nil, nil)
	deps.accounts.On("Create", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.Email == "new@example.com" && a.Name == "김코치" &&
			bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("password123")) == nil
	})).Return(nil)

	account, err := s.SignUp(ctx, domain.SignUpInput{
		Email: " New@Example.com ", Password: "password123", Name: " 김코치 ", Category: "backend",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "backend", account.Category)
	deps.accounts.AssertExpectations(t)
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	ctx := context.Background()
	s, deps := newTestAuthService(t)

	deps.tx.On("WithTransaction", ctx).Return(nil)
	deps.accounts.On("GetByEmail", ctx, "dup@example.com").Return(&domain.Account{ID: "u1"}, nil)

	_, err := s.SignUp(ctx, domain.SignUpInput{Email: "dup@example.com", Password: "password123", Name: "dup"})
	require.Error(t, err)
	assert.Equal(t, domain.MsgAlreadyExists, domain.UserMessage(err))
	deps.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SignUp_Invalid(t *testing.T) {
	s, deps := newTestAuthService(t)

	_, err := s.SignUp(context.Background(), domain.SignUpInput{Email: "bad", Password: "short", Name: ""})
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	deps.tx.AssertNotCalled(t, "WithTransaction", mock.Anything)
}

func TestAuthService_SignInAndCurrentSession(t *testing.T) {
	ctx := context.Background()
	s, deps := newTestAuthService(t)
	account := &domain.Account{ID: "01HZX3Y8Q6J5K2M9N4P7R0S1T2", Email: "user@example.com", PasswordHash: hashed(t, "password123")}

	deps.accounts.On("GetByEmail", ctx, "user@example.com").Return(account, nil)
	deps.accounts.On("GetByID", ctx, account.ID).Return(account, nil)

	session, err := s.SignIn(ctx, "User@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, authNow.Add(time.Hour), session.ExpiresAt)
	assert.NotEmpty(t, session.ID)

	deps.cache.On("Get", ctx, cache.RevokedSessionKey(session.ID)).Return("", domain.ErrCacheMiss)
	current, err := s.CurrentSession(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.ID, current.ID)
	assert.Equal(t, account, current.Account)
}

func TestAuthService_SignIn_WrongPassword(t *testing.T) {
	ctx := context.Background()
	s, deps := newTestAuthService(t)

	deps.accounts.On("GetByEmail", ctx, "user@example.com").Return(&domain.Account{PasswordHash: hashed(t, "password123")}, nil)
	deps.accounts.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil)

	_, err := s.SignIn(ctx, "user@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, domain.MsgInvalidCredentials, domain.UserMessage(err))

	_, err = s.SignIn(ctx, "ghost@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_CurrentSession_RejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	s, deps := newTestAuthService(t)
	account := &domain.Account{ID: "u1", PasswordHash: hashed(t, "password123")}
	deps.accounts.On("GetByEmail", ctx, mock.Anything).Return(account, nil)

	session, err := s.SignIn(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := s.CurrentSession(ctx, "not-a-token")
		assert.Equal(t, domain.KindAuth, domain.KindOf(err))
	})

	t.Run("expired", func(t *testing.T) {
		s.now = func() time.Time { return authNow.Add(2 * time.Hour) }
		defer func() { s.now = func() time.Time { return authNow } }()
		_, err := s.CurrentSession(ctx, session.AccessToken)
		assert.Equal(t, domain.KindAuth, domain.KindOf(err))
	})

	t.Run("wrong secret", func(t *testing.T) {
		claims := dto.AuthClaims{UserID: "u1", SessionID: "sid", TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(authNow.Add(time.Hour))}}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
		require.NoError(t, err)
		_, err = s.CurrentSession(ctx, forged)
		assert.Equal(t, domain.KindAuth, domain.KindOf(err))
	})

	t.Run("revoked", func(t *testing.T) {
		deps.cache.On("Get", ctx, cache.RevokedSessionKey(session.ID)).Return("u1", nil).Once()
		_, err := s.CurrentSession(ctx, session.AccessToken)
		assert.ErrorIs(t, err, ErrSessionRevoked)
	})

	t.Run("revocation lookup fails closed", func(t *testing.T) {
		deps.cache.On("Get", ctx, cache.RevokedSessionKey(session.ID)).Return("", errors.New("dial tcp: i/o timeout")).Once()
		_, err := s.CurrentSession(ctx, session.AccessToken)
		assert.Equal(t, domain.KindNetwork, domain.KindOf(err))
	})
}

func TestAuthService_SignOut(t *testing.T) {
	ctx := context.Background()
	s, deps := newTestAuthService(t)
	deps.accounts.On("GetByEmail", ctx, mock.Anything).Return(&domain.Account{ID: "u1", PasswordHash: hashed(t, "password123")}, nil)

	session, err := s.SignIn(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	deps.cache.On("Set", ctx, cache.RevokedSessionKey(session.ID), "u1", time.Hour).Return(nil)
	require.NoError(t, s.SignOut(ctx, session.AccessToken))
	deps.cache.AssertExpectations(t)

	assert.NoError(t, s.SignOut(ctx, "garbage"), "nothing to revoke")
}

func TestAuthService_ResetPasswordFlow(t *testing.T) {
	ctx := context.Background()
	s, deps := newTestAuthService(t)
	account := &domain.Account{ID: "u1", Email: "user@example.com"}

	var token string
	deps.accounts.On("GetByEmail", ctx, "user@example.com").Return(account, nil)
	deps.cache.On("Set", ctx, mock.AnythingOfType("string"), "u1", 30*time.Minute).
		Run(func(args mock.Arguments) {
			key := args.String(1)
			token = key[len(cache.PasswordResetKey("")):]
		}).Return(nil)
	deps.mailer.On("Send", ctx, mock.MatchedBy(func(m domain.MailMessage) bool {
		return m.To == "user@example.com"
	})).Return(nil)

	require.NoError(t, s.ResetPasswordForEmail(ctx, "user@example.com"))
	require.Len(t, token, 64)

	deps.cache.On("Get", ctx, cache.PasswordResetKey(token)).Return("u1", nil)
	deps.accounts.On("UpdatePassword", ctx, "u1", mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("newpassword1")) == nil
	})).Return(nil)
	deps.cache.On("Delete", ctx, cache.PasswordResetKey(token)).Return(nil)

	require.NoError(t, s.ConfirmPasswordReset(ctx, token, "newpassword1"))
	deps.accounts.AssertExpectations(t)
	deps.cache.AssertExpectations(t)
}

func TestAuthService_ResetPassword_UnknownEmailIsSilent(t *testing.T) {
	ctx := context.Background()
	s, deps := newTestAuthService(t)
	deps.accounts.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil)

	assert.NoError(t, s.ResetPasswordForEmail(ctx, "ghost@example.com"))
	deps.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	deps.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ConfirmPasswordReset_Invalid(t *testing.T) {
	ctx := context.Background()
	s, deps := newTestAuthService(t)

	err := s.ConfirmPasswordReset(ctx, "tok", "short")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	deps.cache.On("Get", ctx, cache.PasswordResetKey("tok")).Return("", domain.ErrCacheMiss)
	err = s.ConfirmPasswordReset(ctx, "tok", "longenough")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
	deps.accounts.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}
