package handler

import (
	"interview-coach/internal/domain"
	"interview-coach/internal/dto"
	"interview-coach/internal/middleware"
	"interview-coach/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionRegistry creates orchestrators for signed-out callers and tracks
// them once signed in.
type SessionRegistry interface {
	New() *session.Orchestrator
	Register(o *session.Orchestrator) error
	Remove(sid string)
}

// orchestratorFrom returns the caller's orchestrator set by middleware.Protected.
func orchestratorFrom(c *fiber.Ctx) (*session.Orchestrator, error) {
	o, ok := middleware.Orchestrator(c)
	if !ok {
		return nil, session.ErrNotSignedIn
	}
	return o, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	return nil
}

func newSessionStateResponse(st session.State) dto.SessionStateResponse {
	resp := dto.SessionStateResponse{
		LoggedIn:  st.LoggedIn,
		Questions: dto.NewQuestionListResponse(st.Questions),
		History:   dto.NewInterviewRecordList(st.History),
		LastError: st.LastError,
		Loading:   st.Loading,
	}
	if st.Account != nil {
		p := dto.NewProfileResponse(st.Account)
		resp.Account = &p
	}
	if st.LastUpload != nil {
		u := dto.NewUploadResponse(st.LastUpload)
		resp.LastUpload = &u
	}
	return resp
}
