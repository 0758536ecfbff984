// Package validation holds request validation rules shared by gin binding
// and the service layer.
package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TagName is the struct tag read by both gin binding and Struct.
const TagName = "binding"

// SpecialCharacters is the punctuation set accepted by the password policy.
const SpecialCharacters = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?`~"

// MinPasswordLength applies to registration and admin password resets.
const MinPasswordLength = 8

// MaxEmailLength is the longest stored email address.
const MaxEmailLength = 255

var validate = newValidator()

// syntax runs the built-in rules that custom rules delegate to.
var syntax = validator.New()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName(TagName)
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Register adds the custom rules to v.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("accountemail", func(fl validator.FieldLevel) bool {
		return AccountEmail(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
}

// AccountEmail reports whether email, ignoring surrounding whitespace, is a
// well-formed address of at most MaxEmailLength bytes. Case and padding are
// normalised before storage, so they must not fail validation.
func AccountEmail(email string) bool {
	email = strings.TrimSpace(email)
	return len(email) <= MaxEmailLength && syntax.Var(email, "required,email") == nil
}

// RegisterBinding installs the custom rules on gin's shared validator so
// ShouldBind enforces them.
func RegisterBinding() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return Register(v)
}

// StrongPassword reports whether password has at least MinPasswordLength
// characters with an upper-case letter, a lower-case letter, a digit and a
// character from SpecialCharacters.
func StrongPassword(password string) bool {
	if len([]rune(password)) < MinPasswordLength {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(SpecialCharacters, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// Struct validates s and returns a readable error, or nil.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return errors.New(Message(err))
	}
	return nil
}

// Var validates a single value against tag.
func Var(value any, tag string) bool {
	return validate.Var(value, tag) == nil
}

// Message turns binding and validation errors into a client-facing message.
func Message(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			return "invalid JSON body"
		case errors.As(err, &typeErr):
			return typeErr.Field + " has an invalid type"
		default:
			return "invalid request body"
		}
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := fe.Field()
		param := fe.Param()

		switch fe.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "min":
			messages = append(messages, field+" must be at least "+param+" characters")
		case "max":
			messages = append(messages, field+" must be at most "+param+" characters")
		case "email", "accountemail":
			messages = append(messages, field+" must be a valid email")
		case "oneof":
			messages = append(messages, field+" must be one of: "+param)
		case "strongpassword":
			messages = append(messages, field+" must be at least 8 characters and include upper-case, lower-case, digit and special characters")
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, ", ")
}
