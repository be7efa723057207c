package handler

import (
	"errors"

	"interview-coach/internal/domain"
	"interview-coach/internal/dto"
	"interview-coach/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type InterviewHandler struct {
	validator *validation.Validator
}

func NewInterviewHandler(v *validation.Validator) *InterviewHandler {
	return &InterviewHandler{validator: v}
}

// History godoc
// @Summary Interview history
// @Tags interviews
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.InterviewRecordResponse
// @Router /interviews [get]
func (h *InterviewHandler) History(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	recs, err := o.LoadHistory(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInterviewRecordList(recs))
}

// ScoreAnswer godoc
// @Summary Score one answer
// @Description Feedback falls back to a length-based score when the model is unavailable.
// @Tags interviews
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.ScoreAnswerRequest true "Answer"
// @Success 201 {object} dto.InterviewRecordResponse
// @Router /interviews/answers [post]
func (h *InterviewHandler) ScoreAnswer(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ScoreAnswerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sub := req.Submission()
	if err := h.validator.Answers([]domain.AnswerSubmission{sub}); err != nil {
		return err
	}
	rec, err := o.ScoreAnswer(c.UserContext(), sub, req.GroupID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInterviewRecordResponse(rec))
}

// CompleteInterview godoc
// @Summary Score a whole practice session
// @Description Answers are scored concurrently. A partial result is returned with 200 and a message.
// @Tags interviews
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CompleteInterviewRequest true "Answers"
// @Success 200 {object} dto.CompleteInterviewResponse
// @Router /interviews/complete [post]
func (h *InterviewHandler) CompleteInterview(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CompleteInterviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validator.Answers(req.Answers); err != nil {
		return err
	}

	groupID, results, err := o.CompleteInterview(c.UserContext(), req.Answers, req.GroupID)
	resp := dto.CompleteInterviewResponse{
		GroupID:   groupID,
		Completed: len(results),
		Total:     len(req.Answers),
		Results:   dto.NewInterviewRecordList(results),
	}
	if err != nil {
		var de *domain.DomainError
		if !errors.As(err, &de) || de.Code != domain.CodePartialCompletion {
			return err
		}
		resp.Message = de.Message
	}
	return c.JSON(resp)
}

// RegenerateFeedback godoc
// @Summary Regenerate feedback for a stored answer
// @Tags interviews
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.RegenerateFeedbackRequest true "Record key"
// @Success 200 {object} dto.InterviewRecordResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "Model unavailable"
// @Router /interviews/feedback [post]
func (h *InterviewHandler) RegenerateFeedback(c *fiber.Ctx) error {
	o, err := orchestratorFrom(c)
	if err != nil {
		return err
	}
	var req dto.RegenerateFeedbackRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	var verrs domain.ValidationErrors
	if req.CreatedAt.IsZero() {
		verrs = append(verrs, domain.NewMissingFieldError("created_at"))
	}
	if req.QuestionID == "" {
		verrs = append(verrs, domain.NewMissingFieldError("question_id"))
	}
	if req.Question == "" {
		verrs = append(verrs, domain.NewMissingFieldError("question"))
	}
	if len(verrs) > 0 {
		return verrs
	}

	rec, err := o.RegenerateFeedback(c.UserContext(), req.CreatedAt, req.QuestionID, req.Question)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInterviewRecordResponse(rec))
}
