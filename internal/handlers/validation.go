package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"alumniconnect/internal/models"
)

const (
	roleTag             = "role"
	mentorshipStatusTag = "mentorship_status"
	notBlankTag         = "notblank"
)

var registerOnce sync.Once

// RegisterValidators installs the custom tags on gin's validator engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		// Use JSON tag names for errors instead of Go struct names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		_ = v.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
			return models.UserRole(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation(mentorshipStatusTag, func(fl validator.FieldLevel) bool {
			return models.MentorshipStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// bindingMessage turns a gin binding failure into one client-facing sentence.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "Request body is required"
	case errors.As(err, &syntaxErr):
		return "Request body must be valid JSON"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}
	return "Invalid request"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", notBlankTag:
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case roleTag:
		return field + " must be one of: student, alumni, staff"
	case mentorshipStatusTag:
		return "Invalid status"
	}
	return field + " is invalid"
}
