package ai

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"interview-coach/internal/config"
	"interview-coach/internal/domain"

	"go.uber.org/zap"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewGenerator builds the generator selected by cfg.Provider. The returned
// closer releases provider resources on shutdown.
func NewGenerator(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (domain.TextGenerator, io.Closer, error) {
	switch cfg.Provider {
	case "proxy", "":
		c, err := NewProxyClient(ProxyOptions{
			Endpoint:       cfg.Endpoint,
			APIKey:         cfg.APIKey,
			RequestTimeout: cfg.RequestTimeout,
			ConnectTimeout: cfg.ConnectTimeout,
			MaxRetries:     cfg.MaxRetries,
			BackoffBase:    cfg.BackoffBase,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return c, nopCloser{}, nil
	case "ollama":
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DialContext = (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext
		g, err := NewOllamaGenerator(cfg.Endpoint, cfg.Model, &http.Client{Timeout: cfg.RequestTimeout, Transport: transport})
		if err != nil {
			return nil, nil, err
		}
		return g, nopCloser{}, nil
	case "gemini":
		g, err := NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		return g, g, nil
	default:
		return nil, nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
