// Package validation implements the field rules applied to registration input
// before any storage access. Validation is pure: no I/O and no logging.
package validation

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"careauth/internal/domain/entity"
	domainerrors "careauth/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	// MinPasswordLength is the minimum number of characters in a secret.
	MinPasswordLength = 6
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72

	tagEmailTLD  = "email_tld"
	tagBcryptMax = "bcrypt_max"
	tagNonNegInt = "nonneg_int"
)

// emailDomainPattern requires a dotted domain ending in an alphabetic TLD of at
// least two letters. The local part has already been checked by the "email" tag.
var emailDomainPattern = regexp.MustCompile(`^[^@\s]+@(?:[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?\.)+[A-Za-z]{2,}$`)

// RegistrationInput is the raw, untrusted registration data. Age is kept as
// text so that non-numeric values surface as a field violation.
type RegistrationInput struct {
	Name           string
	Email          string
	Password       string
	Specialization string
	Age            string
}

// Registration is validated and normalized registration data.
type Registration struct {
	Kind           entity.Kind
	Name           string
	Email          string
	Password       string
	Specialization string
	Age            int
}

type credentialFields struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"email,email_tld"`
	Password string `json:"password" validate:"min=6,bcrypt_max"`
}

type providerFields struct {
	credentialFields
	Specialization string `json:"specialization" validate:"required"`
}

type recipientFields struct {
	credentialFields
	Age string `json:"age" validate:"nonneg_int"`
}

// CredentialValidator applies one rule set to every account kind.
// It is safe for concurrent use.
type CredentialValidator struct {
	validate *validator.Validate
}

// NewCredentialValidator builds a validator with the custom credential tags registered.
func NewCredentialValidator() *CredentialValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	mustRegister(v, tagEmailTLD, func(fl validator.FieldLevel) bool {
		return emailDomainPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, tagBcryptMax, func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	mustRegister(v, tagNonNegInt, func(fl validator.FieldLevel) bool {
		_, ok := parseAge(fl.Field().String())
		return ok
	})

	return &CredentialValidator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(errors.Wrapf(err, "register validation %q", tag))
	}
}

// ValidateRegistration checks input for the given kind. All rule violations are
// collected; on failure the error is a *domainerrors.ValidationError.
func (cv *CredentialValidator) ValidateRegistration(kind entity.Kind, input RegistrationInput) (*Registration, error) {
	creds := credentialFields{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Password: input.Password,
	}

	var target any
	switch kind {
	case entity.KindProvider:
		target = &providerFields{credentialFields: creds, Specialization: strings.TrimSpace(input.Specialization)}
	case entity.KindRecipient:
		target = &recipientFields{credentialFields: creds, Age: strings.TrimSpace(input.Age)}
	default:
		return nil, errors.Wrapf(entity.ErrUnknownKind, "%q", kind)
	}

	if err := cv.validate.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, errors.Wrap(err, "validate registration")
		}

		violations := make([]domainerrors.FieldViolation, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			violations = append(violations, toViolation(fe))
		}

		return nil, domainerrors.NewValidationError(violations)
	}

	reg := &Registration{
		Kind:     kind,
		Name:     creds.Name,
		Email:    NormalizeEmail(creds.Email),
		Password: creds.Password,
	}
	switch fields := target.(type) {
	case *providerFields:
		reg.Specialization = fields.Specialization
	case *recipientFields:
		reg.Age, _ = parseAge(fields.Age)
	}

	return reg, nil
}

// NormalizeEmail trims surrounding whitespace and case-folds the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseAge(raw string) (int, bool) {
	age, err := strconv.Atoi(raw)
	if err != nil || age < 0 {
		return 0, false
	}

	return age, true
}

func toViolation(fe validator.FieldError) domainerrors.FieldViolation {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return domainerrors.FieldViolation{Field: field, Code: domainerrors.CodeRequiredField, Message: requiredMessage(field)}
	case "email", tagEmailTLD:
		return domainerrors.FieldViolation{Field: field, Code: domainerrors.CodeInvalidFormat, Message: "Please enter a valid email address"}
	case "min":
		return domainerrors.FieldViolation{
			Field:   field,
			Code:    domainerrors.CodeTooShort,
			Message: "Password must be at least " + strconv.Itoa(MinPasswordLength) + " characters long",
		}
	case tagBcryptMax:
		return domainerrors.FieldViolation{
			Field:   field,
			Code:    domainerrors.CodeTooLong,
			Message: "Password must be at most " + strconv.Itoa(MaxPasswordBytes) + " bytes long",
		}
	case tagNonNegInt:
		return domainerrors.FieldViolation{Field: field, Code: domainerrors.CodeInvalidRange, Message: "Age must be a non-negative integer"}
	default:
		return domainerrors.FieldViolation{Field: field, Code: domainerrors.CodeInvalidFormat, Message: "Invalid value"}
	}
}

func requiredMessage(field string) string {
	switch field {
	case "name":
		return "Name is required"
	case "specialization":
		return "Specialization is required"
	default:
		return field + " is required"
	}
}
