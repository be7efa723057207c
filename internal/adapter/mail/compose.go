package mail

import (
	"net/url"
	"strings"

	"interview-coach/internal/domain"
)

// BuildComposeHandoff returns a mailto: handoff the client opens in the user's
// own mail app. Sending depends on the user confirming the draft.
func BuildComposeHandoff(msg domain.MailMessage) *domain.ComposeHandoff {
	q := url.Values{}
	q.Set("subject", msg.Subject)
	q.Set("body", msg.Body)
	// mailto wants %20, not '+'
	query := strings.ReplaceAll(q.Encode(), "+", "%20")

	return &domain.ComposeHandoff{
		URI:     "mailto:" + url.PathEscape(msg.To) + "?" + query,
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	}
}
