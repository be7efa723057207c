package handler

import (
	"interview-coach/internal/dto"
	"interview-coach/internal/logger"
	"interview-coach/internal/middleware"
	"interview-coach/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	sessions  SessionRegistry
	validator *validation.Validator
}

func NewAuthHandler(sessions SessionRegistry, v *validation.Validator) *AuthHandler {
	return &AuthHandler{sessions: sessions, validator: v}
}

// SignUp creates an account. The user verifies the email before signing in.
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Account"
// @Success 201 {object} dto.ProfileResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Email already registered"
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, err := h.sessions.New().SignUp(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewProfileResponse(account))
}

// SignIn logs in with email and password.
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Credentials"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} middleware.ErrorResponse "Invalid credentials"
// @Failure 403 {object} middleware.ErrorResponse "Email not verified"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	o := h.sessions.New()
	sess, err := o.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := h.sessions.Register(o); err != nil {
		logger.Get().Error("Failed to register session", zap.String("sid", sess.ID), zap.Error(err))
		return err
	}
	return c.JSON(dto.NewSessionResponse(sess))
}

// SignOut revokes the current session.
// @Summary Sign out
// @Tags auth
// @Security ApiKeyAuth
// @Success 204
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	sid := o.SessionID()
	if err := o.SignOut(c.UserContext()); err != nil {
		return err
	}
	h.sessions.Remove(sid)
	return c.SendStatus(fiber.StatusNoContent)
}

// CurrentSession returns the session of the bearer token.
// @Summary Current session
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/session [get]
func (h *AuthHandler) CurrentSession(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	token, _ := c.Locals(middleware.TokenKey).(string)
	sess, err := o.RestoreSession(c.UserContext(), token)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(sess))
}

// RequestPasswordReset mails a reset token. Unknown emails get the same answer.
// @Summary Request password reset
// @Tags auth
// @Accept json
// @Param request body dto.PasswordResetRequest true "Email"
// @Success 202 {object} dto.MessageResponse
// @Router /auth/password-reset [post]
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}
	if err := h.sessions.New().ResetPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MessageResponse{Message: "비밀번호 재설정 메일을 보냈습니다."})
}

// ConfirmPasswordReset sets a new password.
// @Summary Confirm password reset
// @Tags auth
// @Accept json
// @Param request body dto.PasswordResetConfirmRequest true "Token and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid or expired token"
// @Router /auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}
	if err := h.sessions.New().ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "비밀번호가 변경되었습니다."})
}
