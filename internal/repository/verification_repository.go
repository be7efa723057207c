package repository

import (
	"context"
	"fmt"

	"interview-coach/internal/domain"
	"interview-coach/internal/repository/models"
)

type verificationRepository struct {
	store TableStore
}

func NewVerificationRepository(store TableStore) domain.VerificationRepository {
	return &verificationRepository{store: store}
}

func toDomainChallenge(m *models.EmailVerification) *domain.VerificationChallenge {
	return &domain.VerificationChallenge{
		ID:        m.ID,
		Email:     m.Email,
		Code:      m.Code,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		Verified:  m.Verified,
		Attempts:  m.Attempts,
	}
}

func (r *verificationRepository) Create(ctx context.Context, c *domain.VerificationChallenge) error {
	row := map[string]interface{}{
		"email":      normalizeEmail(c.Email),
		"code":       c.Code,
		"created_at": c.CreatedAt,
		"expires_at": c.ExpiresAt,
		"verified":   c.Verified,
		"attempts":   c.Attempts,
	}
	var stored models.EmailVerification
	if err := r.store.Insert(ctx, TableEmailVerifications, row, &stored); err != nil {
		return fmt.Errorf("failed to create verification challenge: %w", err)
	}
	c.ID = stored.ID
	return nil
}

func (r *verificationRepository) newest(ctx context.Context, filters ...Filter) (*domain.VerificationChallenge, error) {
	var rows []models.EmailVerification
	err := r.store.Select(ctx, TableEmailVerifications, &rows,
		Where(filters...),
		OrderBy("created_at", true),
		Limit(1),
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return toDomainChallenge(&rows[0]), nil
}

func (r *verificationRepository) FindActive(ctx context.Context, email, code string) (*domain.VerificationChallenge, error) {
	c, err := r.newest(ctx,
		Eq("email", normalizeEmail(email)),
		Eq("code", code),
		Eq("verified", false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find verification challenge: %w", err)
	}
	return c, nil
}

func (r *verificationRepository) LatestActive(ctx context.Context, email string) (*domain.VerificationChallenge, error) {
	c, err := r.newest(ctx,
		Eq("email", normalizeEmail(email)),
		Eq("verified", false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest verification challenge: %w", err)
	}
	return c, nil
}

func (r *verificationRepository) MarkVerified(ctx context.Context, id int64) error {
	n, err := r.store.Update(ctx, TableEmailVerifications,
		map[string]interface{}{"verified": true},
		Eq("id", id),
	)
	if err != nil {
		return fmt.Errorf("failed to mark challenge verified: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("verification challenge %d not found", id))
	}
	return nil
}

// IncrementAttempts is a compare-and-set on the attempts column so concurrent
// guesses cannot overwrite each other's count.
func (r *verificationRepository) IncrementAttempts(ctx context.Context, c *domain.VerificationChallenge) error {
	n, err := r.store.Update(ctx, TableEmailVerifications,
		map[string]interface{}{"attempts": c.Attempts + 1},
		Eq("id", c.ID),
		Eq("attempts", c.Attempts),
	)
	if err != nil {
		return fmt.Errorf("failed to increment attempts: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("verification challenge %d changed concurrently", c.ID)
	}
	c.Attempts++
	return nil
}

func (r *verificationRepository) InvalidateActive(ctx context.Context, email string) (int64, error) {
	n, err := r.store.Update(ctx, TableEmailVerifications,
		map[string]interface{}{"verified": true, "code": domain.InvalidatedCode},
		Eq("email", normalizeEmail(email)),
		Eq("verified", false),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate verification challenges: %w", err)
	}
	return n, nil
}

// HasVerified ignores rows that were only invalidated by a resend.
func (r *verificationRepository) HasVerified(ctx context.Context, email string) (bool, error) {
	var rows []models.EmailVerification
	err := r.store.Select(ctx, TableEmailVerifications, &rows,
		Where(
			Eq("email", normalizeEmail(email)),
			Eq("verified", true),
			Neq("code", domain.InvalidatedCode),
		),
		Limit(1),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check verified email: %w", err)
	}
	return len(rows) > 0, nil
}
