package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"interview-coach/internal/domain"
	"interview-coach/internal/util"

	"github.com/go-playground/validator/v10"
)

// MaxAnswerLength bounds one interview answer in runes.
const MaxAnswerLength = 4000

// Validator converts go-playground validation failures into domain.ValidationErrors.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s by its `validate` tags. It returns nil or domain.ValidationErrors.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewInternalError("validation failed", err)
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toDomain(fe))
	}
	return out
}

func toDomain(fe validator.FieldError) domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "max", "len", "gte", "lte":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: "value violates " + fe.Tag() + "=" + fe.Param(),
			Value:   fe.Value(),
		}
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// Email checks a single address.
func (val *Validator) Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("email")}
	}
	if err := val.v.Var(email, "email"); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("email", email)}
	}
	return nil
}

// ID checks a ULID path or body identifier.
func (val *Validator) ID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !util.IsULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}

// Answers validates a batch of submissions. Empty answers are allowed; they are
// scored like any other answer.
func (val *Validator) Answers(answers []domain.AnswerSubmission) error {
	if len(answers) == 0 {
		return domain.ValidationErrors{domain.NewMissingFieldError("answers")}
	}
	var errs domain.ValidationErrors
	for _, a := range answers {
		if err := val.Struct(a); err != nil {
			var verrs domain.ValidationErrors
			if errors.As(err, &verrs) {
				errs = append(errs, verrs...)
				continue
			}
			return err
		}
		if n := utf8.RuneCountInString(a.Answer); n > MaxAnswerLength {
			errs = append(errs, domain.NewOutOfRangeError("answer", n, 0, MaxAnswerLength))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
