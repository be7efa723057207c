package service

import (
	"context"
	"fmt"

	"interview-coach/internal/domain"

	"go.uber.org/zap"
)

const feedbackPromptTemplate = `당신은 IT 기업의 면접관입니다. 아래 면접 질문에 대한 지원자의 답변을 평가해주세요.

질문: %s
답변: %s

다음 형식으로 한국어로 작성해주세요.
1. 잘한 점
2. 보완할 점
3. 개선된 답변 예시

마지막 줄에는 반드시 "추천 점수: N/10" 형식으로 1에서 10 사이의 점수를 적어주세요.`

// FallbackFeedbackText is stored when no model feedback could be produced.
const FallbackFeedbackText = "AI 피드백을 생성하지 못했습니다. 답변 길이를 기준으로 점수를 산정했습니다."

// FeedbackService turns one answer into scored feedback.
type FeedbackService interface {
	Evaluate(ctx context.Context, question, answer string) (*domain.Feedback, error)
}

type feedbackServiceImpl struct {
	generator domain.TextGenerator
	logger    *zap.Logger
}

func NewFeedbackService(generator domain.TextGenerator, logger *zap.Logger) FeedbackService {
	return &feedbackServiceImpl{generator: generator, logger: logger}
}

func BuildFeedbackPrompt(question, answer string) string {
	return fmt.Sprintf(feedbackPromptTemplate, question, answer)
}

// Evaluate asks the model for feedback. A reply without a recognizable score is
// scored from its own length.
func (s *feedbackServiceImpl) Evaluate(ctx context.Context, question, answer string) (*domain.Feedback, error) {
	raw, err := s.generator.Generate(ctx, BuildFeedbackPrompt(question, answer))
	if err != nil {
		return nil, err
	}

	text := stripThinking(raw)
	if text == "" {
		return nil, domain.NewLLMServiceError(fmt.Errorf("model returned empty feedback"))
	}

	if score, ok := ExtractScore(text); ok {
		return &domain.Feedback{Text: text, Score: score, Source: domain.FeedbackFromModel}, nil
	}

	s.logger.Debug("No score pattern in feedback, using heuristic", zap.Int("length", len(text)))
	return &domain.Feedback{Text: text, Score: HeuristicScore(text), Source: domain.FeedbackFromHeuristic}, nil
}
