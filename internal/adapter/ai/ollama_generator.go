package ai

import (
	"context"
	"fmt"
	"net/http"

	"interview-coach/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaGenerator runs prompts against a local Ollama server through langchaingo.
type OllamaGenerator struct {
	llm *ollama.LLM
}

var _ domain.TextGenerator = (*OllamaGenerator)(nil)

func NewOllamaGenerator(serverURL, model string, httpClient *http.Client) (*OllamaGenerator, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	opts := []ollama.Option{ollama.WithServerURL(serverURL), ollama.WithModel(model)}
	if httpClient != nil {
		opts = append(opts, ollama.WithHTTPClient(httpClient))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return &OllamaGenerator{llm: llm}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(0.2))
	if err != nil {
		return "", domain.NewLLMServiceError(err)
	}
	return out, nil
}
