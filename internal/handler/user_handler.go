package handler

import (
	"interview-coach/internal/dto"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetMyProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	account, err := o.RefreshProfile(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(account))
}

// UpdateMyProfile changes name, job category, grade or the reminder time.
// @Summary Update My Profile
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateMyProfile(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	account, err := o.UpdateProfile(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(account))
}
