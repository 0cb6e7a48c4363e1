package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one violated constraint on one field.
type FieldError struct {
	Message  string   `json:"message"`
	Expected string   `json:"expected,omitempty"`
	Received string   `json:"received,omitempty"`
	Path     []string `json:"path,omitempty"`
}

// Violations is the full set of per-field failures for one request.
type Violations []FieldError

func (v Violations) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Validator validates request payloads against their schema tags.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("password_strength", validatePasswordStrength)
	return &Validator{validate: v}
}

const passwordMessage = "Invalid password, must contain at least one uppercase letter, " +
	"one lowercase letter, one number, and is at least 8 characters long"

// Struct validates a request payload. On failure it returns Violations
// with one entry per violated field.
func (v *Validator) Struct(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(Violations, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError(fe))
	}
	return out
}

func fieldError(fe validator.FieldError) FieldError {
	path := []string{"body"}
	// Namespace is Struct.Field or Struct.Nested.Field; drop the struct name.
	if parts := strings.Split(fe.Namespace(), "."); len(parts) > 1 {
		for _, p := range parts[1:] {
			path = append(path, lowerFirst(p))
		}
	}

	switch fe.Tag() {
	case "required":
		return FieldError{
			Message:  fmt.Sprintf("%s is required", lowerFirst(fe.Field())),
			Expected: fe.Kind().String(),
			Received: "undefined",
			Path:     path,
		}
	case "email":
		return FieldError{
			Message:  "Invalid email",
			Expected: "email",
			Received: fmt.Sprintf("%v", fe.Value()),
			Path:     path,
		}
	case "password_strength":
		return FieldError{
			Message: passwordMessage,
			Path:    path,
		}
	default:
		return FieldError{
			Message:  fmt.Sprintf("%s failed on %s", lowerFirst(fe.Field()), fe.Tag()),
			Expected: fe.Tag(),
			Path:     path,
		}
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

var (
	hasUpper = regexp.MustCompile(`[A-Z]`)
	hasLower = regexp.MustCompile(`[a-z]`)
	hasDigit = regexp.MustCompile(`\d`)
)

// validatePasswordStrength enforces the signup password policy: at least
// 8 characters with one uppercase letter, one lowercase letter, and one
// digit.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}
	return hasUpper.MatchString(password) &&
		hasLower.MatchString(password) &&
		hasDigit.MatchString(password)
}
