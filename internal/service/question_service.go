package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"interview-coach/internal/cache"
	"interview-coach/internal/domain"
	"interview-coach/internal/util"

	"go.uber.org/zap"
)

const questionListTTL = 10 * time.Minute

// QuestionService manages the shared question bank.
type QuestionService interface {
	// List returns every question, newest first.
	List(ctx context.Context) ([]*domain.Question, error)
	Add(ctx context.Context, in domain.QuestionInput) (*domain.Question, error)
	Update(ctx context.Context, id string, in domain.QuestionInput) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
}

type questionServiceImpl struct {
	repo   domain.QuestionRepository
	cache  domain.Cache
	logger *zap.Logger
}

// NewQuestionService creates a QuestionService. cache may be nil.
func NewQuestionService(repo domain.QuestionRepository, c domain.Cache, logger *zap.Logger) QuestionService {
	return &questionServiceImpl{repo: repo, cache: c, logger: logger}
}

func (s *questionServiceImpl) List(ctx context.Context) ([]*domain.Question, error) {
	key := cache.QuestionListKey()
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var qs []*domain.Question
			if jsonErr := json.Unmarshal([]byte(cached), &qs); jsonErr == nil {
				return qs, nil
			}
			s.logger.Warn("Discarding undecodable question list cache entry", zap.String("key", key))
		case !errors.Is(err, domain.ErrCacheMiss):
			s.logger.Warn("Question list cache read failed", zap.Error(err))
		}
	}

	qs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(qs); err == nil {
			if err := s.cache.Set(ctx, key, string(data), questionListTTL); err != nil {
				s.logger.Warn("Question list cache write failed", zap.Error(err))
			}
		}
	}
	return qs, nil
}

// optionalText trims v and treats an empty result as absent.
func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func (s *questionServiceImpl) Add(ctx context.Context, in domain.QuestionInput) (*domain.Question, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = util.NewULID()
	} else if !util.IsULID(id) {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("id", id)}
	}

	q := &domain.Question{
		ID:         id,
		Text:       in.NormalizeText(),
		Category:   optionalText(in.Category),
		Company:    optionalText(in.Company),
		QuestionAt: in.QuestionAt,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return q, nil
}

func (s *questionServiceImpl) Update(ctx context.Context, id string, in domain.QuestionInput) (*domain.Question, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.NewNotFoundError("Question not found")
	}

	q.Text = in.NormalizeText()
	q.Category = optionalText(in.Category)
	q.Company = optionalText(in.Company)
	q.QuestionAt = in.QuestionAt
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return q, nil
}

func (s *questionServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *questionServiceImpl) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.QuestionListKey()); err != nil {
		s.logger.Warn("Failed to invalidate question list cache", zap.Error(err))
	}
}
