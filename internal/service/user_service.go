package service

import (
	"context"

	"interview-coach/internal/domain"

	"go.uber.org/zap"
)

// UserService defines the interface for profile operations.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.Account, error)
}

type userServiceImpl struct {
	accounts domain.AccountRepository
	logger   *zap.Logger
}

func NewUserService(accounts domain.AccountRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{accounts: accounts, logger: logger}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.NewNotFoundError("User not found")
	}
	return account, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.Account, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	account, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	patch.Apply(account)
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("Profile updated", zap.String("userID", userID))
	return account, nil
}
