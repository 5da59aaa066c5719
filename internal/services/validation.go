package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/taskforge/task-manager-api/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().Int()).Valid()
	}))
	// The email tag accepts single-label domains such as user@localhost.
	must(v.RegisterValidation("dotted_domain", func(fl validator.FieldLevel) bool {
		at := strings.LastIndex(fl.Field().String(), "@")
		if at < 0 {
			return false
		}
		domain := fl.Field().String()[at+1:]
		return strings.Contains(domain, ".") &&
			!strings.HasPrefix(domain, ".") &&
			!strings.HasSuffix(domain, ".")
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// validateStruct runs the struct tags of s and folds failures into one
// validation error.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return &Error{Kind: ErrValidation, Msg: strings.Join(msgs, "; ")}
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email", "dotted_domain":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "role":
		names := make([]string, len(models.Roles))
		for i, r := range models.Roles {
			names[i] = string(r)
		}
		return field + " must be one of: " + strings.Join(names, ", ")
	case "priority":
		return fmt.Sprintf("%s must be one of: %d, %d, %d", field,
			models.PriorityHigh, models.PriorityMedium, models.PriorityLow)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
