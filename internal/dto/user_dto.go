package dto

import (
	"time"

	"interview-coach/internal/domain"
)

// ProfileResponse defines the structure for a user's profile information.
type ProfileResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	Grade     string  `json:"grade,omitempty"`
	AlarmTime *string `json:"alarm_time,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// UpdateProfileRequest carries the fields to change; omitted fields stay as they are.
// An empty alarm_time clears the reminder.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	Grade     *string `json:"grade"`
	AlarmTime *string `json:"alarm_time"`
}

func (r UpdateProfileRequest) ToDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:      r.Name,
		Category:  r.Category,
		Grade:     r.Grade,
		AlarmTime: r.AlarmTime,
	}
}

func NewProfileResponse(a *domain.Account) ProfileResponse {
	if a == nil {
		return ProfileResponse{}
	}
	return ProfileResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Category:  a.Category,
		Grade:     a.Grade,
		AlarmTime: a.AlarmTime,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}
