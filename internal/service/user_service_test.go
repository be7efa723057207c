package service

import (
	"context"
	"errors"
	"testing"

	"interview-coach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	s := NewUserService(repo, zap.NewNop())

	repo.On("GetByID", ctx, "u1").Return(&domain.Account{ID: "u1", Name: "김코치"}, nil)
	repo.On("GetByID", ctx, "missing").Return(nil, nil)
	repo.On("GetByID", ctx, "broken").Return(nil, errors.New("db down"))

	account, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "김코치", account.Name)

	_, err = s.GetProfile(ctx, "missing")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = s.GetProfile(ctx, "broken")
	assert.EqualError(t, err, "db down")
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	s := NewUserService(repo, zap.NewNop())

	alarm := "07:30"
	existing := &domain.Account{ID: "u1", Name: "이전", Grade: "junior", AlarmTime: &alarm}
	repo.On("GetByID", ctx, "u1").Return(existing, nil)
	repo.On("Update", ctx, existing).Return(nil)

	name, clear := " 새 이름 ", ""
	account, err := s.UpdateProfile(ctx, "u1", domain.ProfileUpdate{Name: &name, AlarmTime: &clear})
	require.NoError(t, err)
	assert.Equal(t, "새 이름", account.Name)
	assert.Equal(t, "junior", account.Grade)
	assert.Nil(t, account.AlarmTime)
	repo.AssertExpectations(t)
}

func TestUserService_UpdateProfile_Invalid(t *testing.T) {
	repo := new(MockAccountRepository)
	s := NewUserService(repo, zap.NewNop())

	bad := "25:00"
	_, err := s.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{AlarmTime: &bad})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
