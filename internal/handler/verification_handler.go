package handler

import (
	"strings"

	"interview-coach/internal/domain"
	"interview-coach/internal/dto"

	"github.com/gofiber/fiber/v2"
)

type VerificationHandler struct {
	sessions SessionRegistry
}

func NewVerificationHandler(sessions SessionRegistry) *VerificationHandler {
	return &VerificationHandler{sessions: sessions}
}

// Send issues a 6-digit code. When mail delivery fails the response carries a
// compose handoff for the client to open.
// @Summary Send verification code
// @Tags verification
// @Accept json
// @Produce json
// @Param request body dto.VerificationSendRequest true "Email"
// @Success 200 {object} dto.VerificationSendResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /verification/send [post]
func (h *VerificationHandler) Send(c *fiber.Ctx) error {
	var req dto.VerificationSendRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.sessions.New().SendVerificationCode(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVerificationSendResponse(res))
}

// Resend invalidates earlier codes and sends a new one.
// @Summary Resend verification code
// @Tags verification
// @Accept json
// @Produce json
// @Param request body dto.VerificationSendRequest true "Email"
// @Success 200 {object} dto.VerificationSendResponse
// @Router /verification/resend [post]
func (h *VerificationHandler) Resend(c *fiber.Ctx) error {
	var req dto.VerificationSendRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.sessions.New().ResendVerificationCode(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVerificationSendResponse(res))
}

// Verify checks a code. A wrong, expired or exhausted code is reported in the
// status with 200.
// @Summary Verify code
// @Tags verification
// @Accept json
// @Produce json
// @Param request body dto.VerificationVerifyRequest true "Email and code"
// @Success 200 {object} dto.VerificationStatusResponse
// @Router /verification/verify [post]
func (h *VerificationHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerificationVerifyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Code) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("code")}
	}
	status, err := h.sessions.New().VerifyCode(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(dto.VerificationStatusResponse{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Status:   status,
		Verified: status == domain.VerificationVerified,
	})
}

// Status reports the verification state of an email.
// @Summary Verification status
// @Tags verification
// @Produce json
// @Param email query string true "Email"
// @Success 200 {object} dto.VerificationStatusResponse
// @Router /verification/status [get]
func (h *VerificationHandler) Status(c *fiber.Ctx) error {
	email := c.Query("email")
	status, err := h.sessions.New().VerificationStatus(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(dto.VerificationStatusResponse{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Status:   status,
		Verified: status == domain.VerificationVerified,
	})
}
