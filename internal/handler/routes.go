package handler

import (
	"interview-coach/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Verification *VerificationHandler
	Question     *QuestionHandler
	Interview    *InterviewHandler
	Session      *SessionHandler
}

// RegisterRoutes mounts the API under r. protected resolves the caller's
// session and guards every route that needs one.
func RegisterRoutes(r fiber.Router, h Handlers, protected fiber.Handler, vm *middleware.ValidationMiddleware) {
	auth := r.Group("/auth")
	auth.Post("/signup", h.Auth.SignUp)
	auth.Post("/signin", h.Auth.SignIn)
	auth.Post("/signout", protected, h.Auth.SignOut)
	auth.Get("/session", protected, h.Auth.CurrentSession)
	auth.Post("/password-reset", h.Auth.RequestPasswordReset)
	auth.Post("/password-reset/confirm", h.Auth.ConfirmPasswordReset)

	verification := r.Group("/verification")
	verification.Post("/send", h.Verification.Send)
	verification.Post("/verify", h.Verification.Verify)
	verification.Post("/resend", h.Verification.Resend)
	verification.Get("/status", vm.ValidateEmailQuery(), h.Verification.Status)

	users := r.Group("/users", protected)
	users.Get("/me", h.User.GetMyProfile)
	users.Patch("/me", h.User.UpdateMyProfile)

	questions := r.Group("/questions", protected)
	questions.Get("/", h.Question.ListQuestions)
	questions.Post("/", h.Question.CreateQuestion)
	questions.Post("/upload", h.Question.UploadQuestions)
	questions.Put("/:id", vm.ValidateIDParam("id"), h.Question.UpdateQuestion)
	questions.Delete("/:id", vm.ValidateIDParam("id"), h.Question.DeleteQuestion)

	interviews := r.Group("/interviews", protected)
	interviews.Get("/", h.Interview.History)
	interviews.Post("/answers", h.Interview.ScoreAnswer)
	interviews.Post("/complete", h.Interview.CompleteInterview)
	interviews.Post("/feedback", h.Interview.RegenerateFeedback)

	r.Get("/session/state", protected, h.Session.State)
}
