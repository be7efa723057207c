package dto

import (
	"time"

	"interview-coach/internal/domain"
)

type VerificationSendRequest struct {
	Email string `json:"email"`
}

type VerificationVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerificationSendResponse struct {
	Status    domain.VerificationStatus `json:"status"`
	Channel   domain.DeliveryChannel    `json:"channel"`
	Handoff   *domain.ComposeHandoff    `json:"handoff,omitempty"`
	ExpiresAt string                    `json:"expires_at"`
}

func NewVerificationSendResponse(r *domain.SendResult) VerificationSendResponse {
	return VerificationSendResponse{
		Status:    r.Status,
		Channel:   r.Channel,
		Handoff:   r.Handoff,
		ExpiresAt: r.ExpiresAt.Format(time.RFC3339),
	}
}

type VerificationStatusResponse struct {
	Email    string                    `json:"email"`
	Status   domain.VerificationStatus `json:"status"`
	Verified bool                      `json:"verified"`
}
