package dto

// SessionStateResponse is the orchestrator snapshot rendered for the client.
type SessionStateResponse struct {
	LoggedIn   bool                      `json:"logged_in"`
	Account    *ProfileResponse          `json:"account,omitempty"`
	Questions  []QuestionResponse        `json:"questions"`
	History    []InterviewRecordResponse `json:"history"`
	LastUpload *UploadResponse           `json:"last_upload,omitempty"`
	LastError  string                    `json:"last_error,omitempty"`
	Loading    bool                      `json:"loading"`
}
