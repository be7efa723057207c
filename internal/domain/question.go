package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Question is an interview question shown during practice.
type Question struct {
	ID         string
	Text       string
	Category   *string
	Company    *string
	QuestionAt *int // year the question was asked
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// QuestionInput is used for both creation and edits. ID is optional on create.
type QuestionInput struct {
	ID         string
	Text       string
	Category   *string
	Company    *string
	QuestionAt *int
}

var (
	yearOnlyPattern     = regexp.MustCompile(`^\d{4}$`)
	trailingYearPattern = regexp.MustCompile(`(\s*20\d{2})+$`)
)

// MinQuestionLength is the exclusive lower bound on question text length in runes.
const MinQuestionLength = 3

// IsYearToken reports whether s is exactly four digits.
func IsYearToken(s string) bool {
	return yearOnlyPattern.MatchString(s)
}

// StripTrailingYear removes every trailing 20xx token and the whitespace before it.
func StripTrailingYear(s string) string {
	return strings.TrimSpace(trailingYearPattern.ReplaceAllString(strings.TrimSpace(s), ""))
}

// NormalizeText trims the question text and strips a trailing year token.
func (in QuestionInput) NormalizeText() string {
	return StripTrailingYear(in.Text)
}

// Validate enforces the question text invariants on the normalized text.
func (in QuestionInput) Validate() error {
	var errs ValidationErrors
	raw := strings.TrimSpace(in.Text)
	text := in.NormalizeText()
	switch {
	case raw == "":
		errs = append(errs, NewMissingFieldError("question"))
	case IsYearToken(raw):
		errs = append(errs, NewInvalidFormatError("question", raw))
	case utf8.RuneCountInString(text) <= MinQuestionLength:
		errs = append(errs, ValidationError{
			Field:   "question",
			Code:    CodeOutOfRange,
			Message: "question must be longer than 3 characters",
			Value:   text,
		})
	}
	if in.QuestionAt != nil && (*in.QuestionAt < 1900 || *in.QuestionAt > 2100) {
		errs = append(errs, NewOutOfRangeError("question_at", *in.QuestionAt, 1900, 2100))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// QuestionRepository persists questions in the "Question" table.
type QuestionRepository interface {
	List(ctx context.Context) ([]*Question, error)
	GetByID(ctx context.Context, id string) (*Question, error)
	Create(ctx context.Context, q *Question) error
	Update(ctx context.Context, q *Question) error
	// Delete returns a not-found DomainError when no row was removed.
	Delete(ctx context.Context, id string) error
}
