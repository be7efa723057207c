package middleware

import (
	"interview-coach/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateIDParam rejects a path parameter that is not a ULID.
func (vm *ValidationMiddleware) ValidateIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(name)
		if err := vm.validator.ID(name, id); err != nil {
			return err // handled by ErrorHandler
		}
		c.Locals("validated_"+name, id)
		return c.Next()
	}
}

// ValidateEmailQuery requires a well-formed email query parameter.
func (vm *ValidationMiddleware) ValidateEmailQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := vm.validator.Email(c.Query("email")); err != nil {
			return err
		}
		return c.Next()
	}
}
