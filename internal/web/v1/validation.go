package v1

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a per-field validation message, mirroring the
// express-validator style error array clients already consume.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// fieldErrors converts a gin binding error into per-field messages.
// Non-validator errors (malformed JSON, wrong types) collapse into a
// single body-level message.
func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: "Invalid request body"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		out = append(out, FieldError{Field: field, Message: messageFor(field, fe.Tag())})
	}
	return out
}

func messageFor(field, tag string) string {
	switch field {
	case "name":
		if tag == "required" || tag == "min" {
			return "Name is required"
		}
	case "email":
		return "Please enter a valid email"
	case "password":
		if tag == "min" {
			return "Password must be at least 6 characters"
		}
		return "Password is required"
	case "age":
		return "Age must be between 1 and 150"
	case "dob":
		return "Invalid date format"
	}
	return "Invalid value for " + field
}
