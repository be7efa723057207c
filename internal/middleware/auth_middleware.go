package middleware

import (
	"context"
	"strings"

	"interview-coach/internal/logger"
	"interview-coach/internal/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID"       // Key for storing UserID in fiber.Ctx locals
	OrchestratorKey     = "orchestrator" // *session.Orchestrator of the caller
	TokenKey            = "accessToken"
)

// SessionResolver finds the orchestrator of a bearer token.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Orchestrator, error)
}

// bearerToken extracts the access token. On failure it returns the rejection
// code and message instead.
func bearerToken(c *fiber.Ctx) (token, code, message string) {
	header := c.Get(AuthorizationHeader)
	switch {
	case header == "":
		return "", "MISSING_AUTH_HEADER", "Authorization header is missing"
	case !strings.HasPrefix(header, BearerSchema):
		return "", "INVALID_AUTH_SCHEME", "Authorization scheme is not Bearer"
	}
	token = strings.TrimSpace(strings.TrimPrefix(header, BearerSchema))
	if token == "" {
		return "", "EMPTY_TOKEN", "Token is empty"
	}
	return token, "", ""
}

// Protected requires a valid, non-revoked bearer token and stores the caller's
// orchestrator, token and user ID in the context.
func Protected(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, code, message := bearerToken(c)
		if code != "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    code,
				Message: message,
				Status:  fiber.StatusUnauthorized,
			})
		}

		o, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			logger.Get().Debug("Session rejected", zap.String("path", c.Path()), zap.Error(err))
			return err
		}

		c.Locals(OrchestratorKey, o)
		c.Locals(TokenKey, token)
		if acc := o.Snapshot().Account; acc != nil {
			c.Locals(UserIDKey, acc.ID)
		}
		return c.Next()
	}
}

// Orchestrator returns the orchestrator stored by Protected.
func Orchestrator(c *fiber.Ctx) (*session.Orchestrator, bool) {
	o, ok := c.Locals(OrchestratorKey).(*session.Orchestrator)
	return o, ok && o != nil
}
