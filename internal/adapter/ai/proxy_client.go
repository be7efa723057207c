package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"interview-coach/internal/domain"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// ProxyOptions configures the HTTP generation proxy.
type ProxyOptions struct {
	Endpoint       string
	APIKey         string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	MaxRetries     int
	BackoffBase    time.Duration
}

type proxyRequest struct {
	Prompt string `json:"prompt"`
}

type proxyResponse struct {
	Response string `json:"response"`
	Message  string `json:"message"`
	Error    string `json:"error"`
}

// StatusError is returned for a non-2xx reply from the proxy.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ai proxy returned status %d: %s", e.StatusCode, e.Body)
}

// ProxyClient calls a JSON prompt endpoint that fronts the generative model.
type ProxyClient struct {
	endpoint   string
	apiKey     string
	maxRetries uint64
	backoff    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

var _ domain.TextGenerator = (*ProxyClient)(nil)

func NewProxyClient(opts ProxyOptions, logger *zap.Logger) (*ProxyClient, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("ai proxy endpoint cannot be empty")
	}
	if _, err := url.Parse(opts.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid ai proxy endpoint: %w", err)
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: opts.ConnectTimeout}).DialContext

	return &ProxyClient{
		endpoint:   opts.Endpoint,
		apiKey:     opts.APIKey,
		maxRetries: uint64(opts.MaxRetries),
		backoff:    opts.BackoffBase,
		httpClient: &http.Client{Timeout: opts.RequestTimeout, Transport: transport},
		logger:     logger,
	}, nil
}

// Generate posts the prompt and returns the model text. Server errors and
// transport failures are retried with exponential backoff; 4xx replies are not.
func (c *ProxyClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(proxyRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to encode prompt: %w", err)
	}

	var text string
	attempt := 0
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		out, err := c.call(ctx, body)
		if err == nil {
			text = out
			return nil
		}
		if isRetryable(err) {
			c.logger.Warn("AI proxy call failed, retrying",
				zap.Int("attempt", attempt), zap.Error(err))
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return "", domain.NewLLMServiceError(err)
	}
	return text, nil
}

func (c *ProxyClient) call(ctx context.Context, body []byte) (string, error) {
	u, _ := url.Parse(c.endpoint)
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed proxyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode ai proxy response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ai proxy error: %s", parsed.Error)
	}
	if parsed.Response != "" {
		return parsed.Response, nil
	}
	if parsed.Message != "" {
		return parsed.Message, nil
	}
	return "", errors.New("ai proxy returned an empty response")
}

func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	var urlErr *url.Error
	return errors.As(err, &netErr) || errors.As(err, &urlErr)
}
