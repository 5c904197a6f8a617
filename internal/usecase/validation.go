package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

type ValidationReason string

// Reasons in reporting precedence.
const (
	ReasonMissingName  ValidationReason = "MissingName"
	ReasonMissingEmail ValidationReason = "MissingEmail"
	ReasonInvalidEmail ValidationReason = "InvalidEmail"
)

const minStrictNameLength = 2

type ValidationError struct {
	Field   string
	Reason  ValidationReason
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationResult is either Valid (no errors) or Invalid with every failed
// rule, first one in precedence order.
type ValidationResult struct {
	Submission entity.Submission
	Errors     []ValidationError
}

func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// First returns the error reported to the caller. Only meaningful when
// Valid is false.
func (r ValidationResult) First() ValidationError {
	if len(r.Errors) == 0 {
		return ValidationError{}
	}
	return r.Errors[0]
}

type Validator struct {
	v          *validator.Validate
	strictName bool
}

// NewValidator builds a validator; strictName enforces a minimum name length.
func NewValidator(strictName bool) *Validator {
	return &Validator{v: validator.New(), strictName: strictName}
}

// Validate evaluates every rule independently.
func (val *Validator) Validate(s entity.Submission) ValidationResult {
	var errs []ValidationError

	if s.ContactName == "" {
		errs = append(errs, ValidationError{"contact_name", ReasonMissingName, "Please provide your name."})
	} else if val.strictName && utf8.RuneCountInString(s.ContactName) < minStrictNameLength {
		errs = append(errs, ValidationError{"contact_name", ReasonMissingName, "Your name must be at least 2 characters long."})
	}

	if s.Email == "" {
		errs = append(errs, ValidationError{"email", ReasonMissingEmail, "Please provide your email address."})
	} else if !val.isValidEmail(s.Email) {
		errs = append(errs, ValidationError{"email", ReasonInvalidEmail, "Please provide a valid email address."})
	}

	return ValidationResult{Submission: s, Errors: errs}
}

func (val *Validator) isValidEmail(email string) bool {
	if err := val.v.Var(email, "email"); err != nil {
		return false
	}

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// IsSpam classifies a submission as automated when the honeypot is filled.
func IsSpam(honeypot string) bool {
	return honeypot != ""
}
