package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/derdiedas/internal/domain"
)

var (
	// ErrValidation wraps validator failures from Validate.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps JSON or form decoding failures.
	ErrBinding = errors.New("binding failed")
)

// Validator is the shared validator. Field errors are named by JSON key and
// the target_language tag accepts domain.TargetLanguages.
var Validator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	if err := v.RegisterValidation("target_language", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseLanguage(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}

	return v
})

// Validate runs the struct tags of v.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes a JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	return bind(c, v, binding.JSON)
}

// BindFormAndValidate decodes an HTML form submission into v and validates it.
func BindFormAndValidate(c *gin.Context, v any) error {
	return bind(c, v, binding.Form)
}

func bind(c *gin.Context, v any, b binding.Binding) error {
	if err := c.ShouldBindWith(v, b); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// ValidationErrors maps each failing JSON field to a readable message. It
// returns an empty map for errors that did not come from the validator.
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		for _, fe := range fields {
			out[fe.Field()] = fieldMessage(fe)
		}
	}

	return out
}

// IsValidationError reports whether err carries validator field errors.
func IsValidationError(err error) bool {
	var fields validator.ValidationErrors
	return errors.As(err, &fields)
}

func fieldMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "must be at least " + fe.Param() + unit
	case "max":
		return "must be at most " + fe.Param() + unit
	case "oneof":
		return "must be one of: " + fe.Param()
	case "target_language":
		return "must be one of: " + targetCodes()
	default:
		return "failed validation: " + fe.Tag()
	}
}

func targetCodes() string {
	targets := domain.TargetLanguages()

	codes := make([]string, len(targets))
	for i, l := range targets {
		codes[i] = string(l)
	}

	return strings.Join(codes, " ")
}
