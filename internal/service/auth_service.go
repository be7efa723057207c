package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"interview-coach/internal/cache"
	"interview-coach/internal/config"
	"interview-coach/internal/domain"
	"interview-coach/internal/dto"
	"interview-coach/internal/util"
	"interview-coach/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTypeAccess = "access"

var (
	ErrInvalidCredentials = domain.NewUnauthorizedError("Invalid login credentials")
	ErrInvalidJWTToken    = domain.NewUnauthorizedError("Session token is not valid")
	ErrSessionRevoked     = domain.NewUnauthorizedError("Session has been signed out")
	ErrInvalidResetToken  = domain.NewInvalidInputError("Invalid or expired password reset token")
)

// AuthService handles email/password accounts and their sessions.
type AuthService interface {
	SignUp(ctx context.Context, in domain.SignUpInput) (*domain.Account, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, token string) error
	CurrentSession(ctx context.Context, token string) (*domain.Session, error)
	// ResetPasswordForEmail succeeds for unknown addresses so callers cannot
	// probe which emails are registered.
	ResetPasswordForEmail(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type authServiceImpl struct {
	accounts   domain.AccountRepository
	txManager  domain.TransactionManager
	cache      domain.Cache
	mailer     domain.MailSender
	validator  *validation.Validator
	jwtCfg     config.JWTConfig
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates an AuthService. mailer may be nil, in which case reset
// tokens are issued but only logged as undeliverable.
func NewAuthService(
	accounts domain.AccountRepository,
	txManager domain.TransactionManager,
	c domain.Cache,
	mailer domain.MailSender,
	validator *validation.Validator,
	jwtCfg config.JWTConfig,
	logger *zap.Logger,
) (AuthService, error) {
	if jwtCfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	if jwtCfg.AccessTokenTTL <= 0 {
		jwtCfg.AccessTokenTTL = 24 * time.Hour
	}
	if jwtCfg.ResetTokenTTL <= 0 {
		jwtCfg.ResetTokenTTL = time.Hour
	}
	return &authServiceImpl{
		accounts:   accounts,
		txManager:  txManager,
		cache:      c,
		mailer:     mailer,
		validator:  validator,
		jwtCfg:     jwtCfg,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func (s *authServiceImpl) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	account := &domain.Account{
		ID:           util.NewULID(),
		Name:         in.Name,
		Category:     strings.TrimSpace(in.Category),
		Email:        in.Email,
		Grade:        strings.TrimSpace(in.Grade),
		PasswordHash: string(hash),
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.accounts.GetByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewConflictError("User already registered")
		}
		return s.accounts.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account created", zap.String("userID", account.ID))
	return account, nil
}

func (s *authServiceImpl) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.issueSession(account)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User signed in", zap.String("userID", account.ID), zap.String("sid", session.ID))
	return session, nil
}

func (s *authServiceImpl) issueSession(account *domain.Account) (*domain.Session, error) {
	now := s.now()
	sid := util.NewUUID()
	expiresAt := now.Add(s.jwtCfg.AccessTokenTTL)
	claims := dto.AuthClaims{
		UserID:    account.ID,
		SessionID: sid,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return nil, domain.NewInternalError("failed to sign session token", err)
	}
	return &domain.Session{ID: sid, AccessToken: token, ExpiresAt: expiresAt, Account: account}, nil
}

func (s *authServiceImpl) parseToken(tokenString string) (*dto.AuthClaims, error) {
	claims := &dto.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, domain.NewError(domain.CodeUnauthorized, ErrInvalidJWTToken.Message, err)
	}
	if claims.TokenType != tokenTypeAccess || claims.SessionID == "" || claims.UserID == "" {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

// SignOut revokes the session until its token would have expired anyway.
func (s *authServiceImpl) SignOut(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		// an invalid or expired token has nothing left to revoke
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, cache.RevokedSessionKey(claims.SessionID), claims.UserID, ttl); err != nil {
		return domain.NewNetworkError("Network error while signing out", err)
	}
	s.logger.Info("User signed out", zap.String("userID", claims.UserID), zap.String("sid", claims.SessionID))
	return nil
}

func (s *authServiceImpl) CurrentSession(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	_, err = s.cache.Get(ctx, cache.RevokedSessionKey(claims.SessionID))
	switch {
	case err == nil:
		return nil, ErrSessionRevoked
	case !errors.Is(err, domain.ErrCacheMiss):
		return nil, domain.NewNetworkError("Network error while checking session", err)
	}

	account, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidJWTToken
	}
	return &domain.Session{
		ID:          claims.SessionID,
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		Account:     account,
	}, nil
}

func (s *authServiceImpl) ResetPasswordForEmail(ctx context.Context, email string) error {
	if err := s.validator.Email(email); err != nil {
		return err
	}
	email = normalizeEmail(email)

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		s.logger.Info("Password reset requested for unknown email")
		return nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return domain.NewInternalError("failed to generate reset token", err)
	}
	token := hex.EncodeToString(buf)
	if err := s.cache.Set(ctx, cache.PasswordResetKey(token), account.ID, s.jwtCfg.ResetTokenTTL); err != nil {
		return domain.NewNetworkError("Network error while issuing reset token", err)
	}

	if s.mailer == nil {
		s.logger.Warn("No mail transport configured, reset token not delivered", zap.String("userID", account.ID))
		return nil
	}
	msg := domain.MailMessage{
		To:      email,
		Subject: "[면접 코치] 비밀번호 재설정 안내",
		Body: fmt.Sprintf("비밀번호 재설정 토큰: %s\n\n%d분 안에 앱에서 새 비밀번호와 함께 입력해주세요.",
			token, int(s.jwtCfg.ResetTokenTTL.Minutes())),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return domain.NewNetworkError("Network error while sending reset mail", err)
	}
	return nil
}

func (s *authServiceImpl) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if n := len(newPassword); n < 8 || n > 72 {
		return domain.ValidationErrors{domain.NewOutOfRangeError("new_password", n, 8, 72)}
	}
	key := cache.PasswordResetKey(strings.TrimSpace(token))
	accountID, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return ErrInvalidResetToken
		}
		return domain.NewNetworkError("Network error while checking reset token", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return domain.NewInternalError("failed to hash password", err)
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, string(hash)); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to delete used reset token", zap.Error(err))
	}
	s.logger.Info("Password reset", zap.String("userID", accountID))
	return nil
}
