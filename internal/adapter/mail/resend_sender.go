package mail

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"interview-coach/internal/domain"

	"github.com/resend/resend-go/v2"
	"github.com/sethvargo/go-retry"
)

// ResendSender delivers mail through the Resend REST API.
type ResendSender struct {
	from   string
	client *resend.Client
}

var _ domain.MailSender = (*ResendSender)(nil)

func NewResendSender(apiKey, from string) (*ResendSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendSender{from: from, client: resend.NewClient(apiKey)}, nil
}

func (s *ResendSender) Channel() domain.DeliveryChannel {
	return domain.ChannelResend
}

// Send retries only when Resend rate-limits the request.
func (s *ResendSender) Send(ctx context.Context, msg domain.MailMessage) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Body,
	}

	backoff := retry.WithMaxRetries(2, retry.NewConstant(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := s.client.Emails.SendWithContext(ctx, params)
		if err == nil {
			return nil
		}
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			if wait := retryAfter(rateLimitErr.RetryAfter); wait > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(wait):
				}
			}
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}

func retryAfter(v string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || seconds <= 0 {
		return 0
	}
	if seconds > 30 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}
