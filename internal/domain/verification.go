package domain

import (
	"context"
	"time"
)

// VerificationStatus is the state of an email's verification challenge.
type VerificationStatus string

const (
	VerificationNone     VerificationStatus = "NONE"
	VerificationSent     VerificationStatus = "SENT"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationExpired  VerificationStatus = "EXPIRED"
	VerificationExceeded VerificationStatus = "EXCEEDED"
	VerificationInvalid  VerificationStatus = "INVALID"
)

// InvalidatedCode replaces the stored code of challenges superseded by a resend.
const InvalidatedCode = "INVALIDATED"

// VerificationChallenge is one issued code. Code holds a digest, never the plain code.
type VerificationChallenge struct {
	ID        int64
	Email     string
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
	Verified  bool
	Attempts  int
}

func (c *VerificationChallenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

type DeliveryChannel string

const (
	ChannelSMTP    DeliveryChannel = "smtp"
	ChannelResend  DeliveryChannel = "resend"
	ChannelCompose DeliveryChannel = "compose"
	ChannelNone    DeliveryChannel = "none"
)

// SendResult reports how a code reached (or may reach) the user. Handoff is set
// when delivery fell back to the user's own mail client.
type SendResult struct {
	Status    VerificationStatus
	Channel   DeliveryChannel
	Handoff   *ComposeHandoff
	ExpiresAt time.Time
}

// VerificationRepository persists challenges in the email_verifications table.
type VerificationRepository interface {
	Create(ctx context.Context, c *VerificationChallenge) error
	// FindActive returns the newest unverified challenge for (email, code) or nil.
	FindActive(ctx context.Context, email, code string) (*VerificationChallenge, error)
	// LatestActive returns the newest unverified challenge for email or nil.
	LatestActive(ctx context.Context, email string) (*VerificationChallenge, error)
	MarkVerified(ctx context.Context, id int64) error
	// IncrementAttempts bumps c.Attempts in the store and on c.
	IncrementAttempts(ctx context.Context, c *VerificationChallenge) error
	// InvalidateActive marks every unverified challenge for email as verified
	// with the InvalidatedCode sentinel.
	InvalidateActive(ctx context.Context, email string) (int64, error)
	HasVerified(ctx context.Context, email string) (bool, error)
}
