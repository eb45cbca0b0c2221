package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Messages keyed by tag.
var messages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"handle":   "must be at least 3 characters",
	"secret":   "must be at least 6 characters",
	"notblank": "cannot be empty",
	"len":      "must contain exactly %s items",
	"min":      "must be at least %s",
	"gte":      "must be greater than or equal to %s",
	"gt":       "must be greater than %s",
}

var (
	std     *validator.Validate
	stdOnce sync.Once
)

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= 3
	})
	v.RegisterAlias("secret", "min=6")
}

// Init configures the validator used by Gin's binding.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

// Validator returns the process validator used for service-level inputs.
func Validator() *validator.Validate {
	stdOnce.Do(func() {
		std = validator.New(validator.WithRequiredStructEnabled())
		configure(std)
	})
	return std
}

// Struct validates s and returns every violation keyed by field name, or nil.
func Struct(s any) map[string]string {
	return ToDetails(Validator().Struct(s))
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	msg, ok := messages[tag]
	if !ok {
		if fe.Param() != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, fe.Param())
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
