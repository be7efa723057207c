package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"interview-coach/internal/config"
	"interview-coach/internal/domain"
	"interview-coach/internal/validation"

	"go.uber.org/zap"
)

const verificationSubject = "[면접 코치] 이메일 인증 코드"

// ComposeFunc builds a mail-app handoff for a message that could not be sent.
type ComposeFunc func(msg domain.MailMessage) *domain.ComposeHandoff

// VerificationService runs the email verification challenge.
type VerificationService interface {
	Send(ctx context.Context, email string) (*domain.SendResult, error)
	Verify(ctx context.Context, email, code string) (domain.VerificationStatus, error)
	Resend(ctx context.Context, email string) (*domain.SendResult, error)
	IsEmailVerified(ctx context.Context, email string) bool
	Status(ctx context.Context, email string) (domain.VerificationStatus, error)
}

type verificationServiceImpl struct {
	repo      domain.VerificationRepository
	sender    domain.MailSender
	compose   ComposeFunc
	validator *validation.Validator
	codeTTL   time.Duration
	maxTries  int
	pepper    string
	failOpen  bool
	logger    *zap.Logger
	now       func() time.Time
	newCode   func() (string, error)
}

// NewVerificationService creates a VerificationService. sender and compose may
// be nil; with neither configured codes are stored but not delivered.
func NewVerificationService(
	repo domain.VerificationRepository,
	sender domain.MailSender,
	compose ComposeFunc,
	validator *validation.Validator,
	cfg config.VerificationConfig,
	logger *zap.Logger,
) VerificationService {
	ttl := cfg.CodeTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	maxTries := cfg.MaxAttempts
	if maxTries <= 0 {
		maxTries = 5
	}
	return &verificationServiceImpl{
		repo:      repo,
		sender:    sender,
		compose:   compose,
		validator: validator,
		codeTTL:   ttl,
		maxTries:  maxTries,
		pepper:    cfg.CodePepper,
		failOpen:  cfg.FailOpen,
		logger:    logger,
		now:       time.Now,
		newCode:   generateCode,
	}
}

// generateCode returns a uniformly random zero-padded 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *verificationServiceImpl) hashCode(code string) string {
	sum := sha256.Sum256([]byte(s.pepper + strings.TrimSpace(code)))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *verificationServiceImpl) Send(ctx context.Context, email string) (*domain.SendResult, error) {
	if err := s.validator.Email(email); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)

	code, err := s.newCode()
	if err != nil {
		return nil, domain.NewInternalError("failed to generate verification code", err)
	}

	now := s.now().UTC()
	msg := domain.MailMessage{
		To:      email,
		Subject: verificationSubject,
		Body: fmt.Sprintf("인증 코드: %s\n\n%d분 안에 앱에 입력해주세요. 본인이 요청하지 않았다면 이 메일을 무시하세요.",
			code, int(s.codeTTL.Minutes())),
	}
	result := &domain.SendResult{
		Status:    domain.VerificationSent,
		Channel:   domain.ChannelNone,
		ExpiresAt: now.Add(s.codeTTL),
	}

	if s.sender != nil {
		if err := s.sender.Send(ctx, msg); err != nil {
			s.logger.Warn("Primary verification mail delivery failed",
				zap.String("channel", string(s.sender.Channel())), zap.Error(err))
		} else {
			result.Channel = s.sender.Channel()
		}
	}
	if result.Channel == domain.ChannelNone && s.compose != nil {
		result.Handoff = s.compose(msg)
		result.Channel = domain.ChannelCompose
	}

	challenge := &domain.VerificationChallenge{
		Email:     email,
		Code:      s.hashCode(code),
		CreatedAt: now,
		ExpiresAt: result.ExpiresAt,
	}
	if err := s.repo.Create(ctx, challenge); err != nil {
		s.logger.Error("Failed to store verification challenge", zap.String("email", email), zap.Error(err))
	}

	s.logger.Info("Verification code issued",
		zap.String("email", email), zap.String("channel", string(result.Channel)))
	return result, nil
}

func (s *verificationServiceImpl) Verify(ctx context.Context, email, code string) (domain.VerificationStatus, error) {
	if err := s.validator.Email(email); err != nil {
		return "", err
	}
	email = normalizeEmail(email)

	c, err := s.repo.FindActive(ctx, email, s.hashCode(code))
	if err != nil {
		return "", err
	}
	if c == nil {
		s.countFailedAttempt(ctx, email)
		return domain.VerificationInvalid, nil
	}
	if c.IsExpired(s.now()) {
		return domain.VerificationExpired, nil
	}
	if c.Attempts >= s.maxTries {
		return domain.VerificationExceeded, nil
	}
	if err := s.repo.MarkVerified(ctx, c.ID); err != nil {
		return "", err
	}
	return domain.VerificationVerified, nil
}

// countFailedAttempt charges a wrong code to the newest open challenge, if any.
func (s *verificationServiceImpl) countFailedAttempt(ctx context.Context, email string) {
	latest, err := s.repo.LatestActive(ctx, email)
	if err != nil {
		s.logger.Warn("Failed to load challenge for attempt counting", zap.String("email", email), zap.Error(err))
		return
	}
	if latest == nil {
		return
	}
	if err := s.repo.IncrementAttempts(ctx, latest); err != nil {
		s.logger.Warn("Failed to increment verification attempts", zap.Int64("id", latest.ID), zap.Error(err))
	}
}

func (s *verificationServiceImpl) Resend(ctx context.Context, email string) (*domain.SendResult, error) {
	if err := s.validator.Email(email); err != nil {
		return nil, err
	}
	n, err := s.repo.InvalidateActive(ctx, normalizeEmail(email))
	if err != nil {
		s.logger.Warn("Failed to invalidate previous verification codes", zap.String("email", email), zap.Error(err))
	} else if n > 0 {
		s.logger.Debug("Invalidated previous verification codes", zap.Int64("count", n))
	}
	return s.Send(ctx, email)
}

func (s *verificationServiceImpl) IsEmailVerified(ctx context.Context, email string) bool {
	ok, err := s.repo.HasVerified(ctx, normalizeEmail(email))
	if err != nil {
		s.logger.Warn("Verification lookup failed",
			zap.String("email", email), zap.Bool("fail_open", s.failOpen), zap.Error(err))
		return s.failOpen
	}
	return ok
}

func (s *verificationServiceImpl) Status(ctx context.Context, email string) (domain.VerificationStatus, error) {
	if err := s.validator.Email(email); err != nil {
		return "", err
	}
	email = normalizeEmail(email)

	verified, err := s.repo.HasVerified(ctx, email)
	if err != nil {
		return "", err
	}
	if verified {
		return domain.VerificationVerified, nil
	}

	latest, err := s.repo.LatestActive(ctx, email)
	if err != nil {
		return "", err
	}
	switch {
	case latest == nil:
		return domain.VerificationNone, nil
	case latest.IsExpired(s.now()):
		return domain.VerificationExpired, nil
	case latest.Attempts >= s.maxTries:
		return domain.VerificationExceeded, nil
	default:
		return domain.VerificationSent, nil
	}
}
