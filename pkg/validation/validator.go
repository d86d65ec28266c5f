package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags used by request payloads.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=6")
		v.RegisterAlias("role", "oneof=teacher student")
		v.RegisterAlias("tokens", "gte=0")
	}
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
			out[fieldPath(fe)] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// fieldPath drops the top-level struct name: "sections[0].title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url", "uri":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "pwd":
		return "must be at least 6 characters"
	case "role", "oneof":
		if fe.Tag() == "role" {
			return "must be one of: teacher student"
		}
		return "must be one of: " + param
	case "tokens", "gte":
		if fe.Tag() == "tokens" {
			return "must not be negative"
		}
		return "must be greater than or equal to " + param
	case "min":
		if isSized(fe.Kind()) {
			return "must contain at least " + param + " items"
		}
		return "must be at least " + param + " characters"
	case "max":
		if isSized(fe.Kind()) {
			return "must contain at most " + param + " items"
		}
		return "must be at most " + param + " characters"
	case "gt":
		return "must be greater than " + param
	case "lte":
		return "must be less than or equal to " + param
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}

func isSized(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}
