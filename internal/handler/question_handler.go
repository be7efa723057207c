package handler

import (
	"interview-coach/internal/adapter/spreadsheet"
	"interview-coach/internal/domain"
	"interview-coach/internal/dto"
	"interview-coach/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuestionHandler serves the shared question bank.
type QuestionHandler struct{}

func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{}
}

// ListQuestions godoc
// @Summary List questions
// @Description Returns every question, newest first
// @Tags questions
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	qs, err := o.LoadQuestions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionListResponse(qs))
}

// CreateQuestion godoc
// @Summary Add a question
// @Tags questions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.QuestionRequest true "Question"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	var req dto.QuestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	q, err := o.AddQuestion(c.UserContext(), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewQuestionResponse(q))
}

// UpdateQuestion godoc
// @Summary Edit a question
// @Tags questions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param request body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	var req dto.QuestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	q, err := o.UpdateQuestion(c.UserContext(), c.Params("id"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuestionResponse(q))
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags questions
// @Security ApiKeyAuth
// @Param id path string true "Question ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	if err := o.DeleteQuestion(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadQuestions godoc
// @Summary Import questions from a workbook
// @Description Reads the first sheet of an .xlsx file. Row failures are listed in the result.
// @Tags questions
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook (.xlsx)"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} middleware.ErrorResponse "Not a workbook or no question column"
// @Router /questions/upload [post]
func (h *QuestionHandler) UploadQuestions(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}
	if err := spreadsheet.ValidateExtension(fh.Filename); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return domain.NewInternalError("failed to open upload", err)
	}
	defer f.Close()

	outcome, err := o.UploadQuestions(c.UserContext(), f)
	if err != nil {
		return err
	}
	logger.Get().Info("Questions uploaded",
		zap.String("file", fh.Filename),
		zap.Int("success", outcome.SuccessCount),
		zap.Int("failure", outcome.FailureCount))
	return c.JSON(dto.NewUploadResponse(outcome))
}
