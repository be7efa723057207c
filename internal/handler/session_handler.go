package handler

import (
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// State godoc
// @Summary Session state
// @Description Snapshot of the caller's session: account, loaded questions and history, last upload and last error.
// @Tags session
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.SessionStateResponse
// @Router /session/state [get]
func (h *SessionHandler) State(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(newSessionStateResponse(o.Snapshot()))
}
