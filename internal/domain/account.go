package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Account is a registered user of the practice app. Accounts are never hard-deleted.
type Account struct {
	ID           string
	Name         string
	Category     string // 직군 (e.g. backend, frontend)
	Email        string
	Grade        string
	AlarmTime    *string // HH:MM, local time of the daily practice reminder
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SignUpInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
	Name     string `validate:"required,max=50"`
	Category string `validate:"max=50"`
	Grade    string `validate:"max=20"`
}

// ProfileUpdate carries only the fields the caller wants to change.
type ProfileUpdate struct {
	Name      *string
	Category  *string
	Grade     *string
	AlarmTime *string
}

var alarmTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Validate checks the profile patch before any remote call.
func (p ProfileUpdate) Validate() error {
	var errs ValidationErrors
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, NewMissingFieldError("name"))
	}
	if p.AlarmTime != nil && *p.AlarmTime != "" && !alarmTimePattern.MatchString(*p.AlarmTime) {
		errs = append(errs, NewInvalidFormatError("alarm_time", *p.AlarmTime))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the set fields onto a. An empty AlarmTime clears the reminder.
func (p ProfileUpdate) Apply(a *Account) {
	if p.Name != nil {
		a.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		a.Category = strings.TrimSpace(*p.Category)
	}
	if p.Grade != nil {
		a.Grade = strings.TrimSpace(*p.Grade)
	}
	if p.AlarmTime != nil {
		if *p.AlarmTime == "" {
			a.AlarmTime = nil
		} else {
			t := *p.AlarmTime
			a.AlarmTime = &t
		}
	}
}

// Session is an authenticated login. ID is the revocable session identifier
// embedded in the access token.
type Session struct {
	ID          string
	AccessToken string
	ExpiresAt   time.Time
	Account     *Account
}

// AccountRepository persists accounts in the "User" table.
// Lookups return (nil, nil) when no row matches.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
