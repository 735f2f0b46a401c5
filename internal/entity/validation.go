package entity

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
)

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so callers see the same keys they sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "stage", func(fl validator.FieldLevel) bool {
		return Stage(fl.Field().String()).Valid()
	})
	mustRegister(v, "source", func(fl validator.FieldLevel) bool {
		return Source(fl.Field().String()).Valid()
	})
	mustRegister(v, "leademail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("entity: register validation " + tag + ": " + err.Error())
	}
}

// IsValidEmail checks the local@domain.tld shape.
func IsValidEmail(email string) bool {
	if !emailShape.MatchString(email) {
		return false
	}
	return checkmail.ValidateFormat(email) == nil
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isText && fe.Param() == "1" {
			return "is required"
		}
		return "must be at least " + fe.Param()
	case "max":
		if isText {
			return "cannot exceed " + fe.Param() + " characters"
		}
		return "cannot exceed " + fe.Param()
	case "gte":
		if fe.Param() == "0" {
			return "cannot be negative"
		}
		return "must be at least " + fe.Param()
	case "lte":
		return "cannot exceed " + fe.Param()
	case "leademail":
		return "must be a valid email"
	case "stage":
		return "must be one of " + StageNames()
	case "source":
		return "must be one of " + SourceNames()
	default:
		return "is invalid"
	}
}
