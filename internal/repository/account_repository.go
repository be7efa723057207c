package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interview-coach/internal/domain"
	"interview-coach/internal/repository/models"
	"interview-coach/internal/util"
)

type accountRepository struct {
	store TableStore
}

// NewAccountRepository creates an AccountRepository on top of the table store.
func NewAccountRepository(store TableStore) domain.AccountRepository {
	return &accountRepository{store: store}
}

func toDomainAccount(m *models.Account) *domain.Account {
	if m == nil {
		return nil
	}
	return &domain.Account{
		ID:           m.ID,
		Name:         m.Name,
		Category:     m.Category,
		Email:        m.Email,
		Grade:        m.Grade,
		AlarmTime:    util.NullStringToPtr(m.AlarmTime),
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	account.Email = normalizeEmail(account.Email)

	row := map[string]interface{}{
		"id":            account.ID,
		"name":          account.Name,
		"category":      account.Category,
		"email":         account.Email,
		"grade":         account.Grade,
		"alarm_time":    util.StringPtrToNullString(account.AlarmTime),
		"password_hash": account.PasswordHash,
		"created_at":    account.CreatedAt,
		"updated_at":    account.UpdatedAt,
	}
	if err := r.store.Insert(ctx, TableUser, row, nil); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("User already registered")
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) getOne(ctx context.Context, column string, value interface{}) (*domain.Account, error) {
	var rows []models.Account
	if err := r.store.Select(ctx, TableUser, &rows, Where(Eq(column, value)), Limit(1)); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return toDomainAccount(&rows[0]), nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	acc, err := r.getOne(ctx, "id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}
	return acc, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	acc, err := r.getOne(ctx, "email", normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return acc, nil
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	account.UpdatedAt = time.Now().UTC()
	patch := map[string]interface{}{
		"name":       account.Name,
		"category":   account.Category,
		"grade":      account.Grade,
		"alarm_time": util.StringPtrToNullString(account.AlarmTime),
		"updated_at": account.UpdatedAt,
	}
	n, err := r.store.Update(ctx, TableUser, patch, Eq("id", account.ID))
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("account %s not found", account.ID))
	}
	return nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	patch := map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	}
	n, err := r.store.Update(ctx, TableUser, patch, Eq("id", id))
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("account %s not found", id))
	}
	return nil
}
