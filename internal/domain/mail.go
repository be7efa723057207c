package domain

import "context"

type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// MailSender delivers a message through one transport.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) error
	Channel() DeliveryChannel
}

// ComposeHandoff is a pre-filled message the client opens in the user's mail app.
// Delivery depends on the user confirming it.
type ComposeHandoff struct {
	URI     string `json:"uri"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
