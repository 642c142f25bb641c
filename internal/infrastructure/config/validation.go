package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var configValidator = newConfigValidator()

// newConfigValidator names fields by their config key so messages read
// "sync.poll_interval" rather than "Config.Sync.PollInterval".
func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateConfig checks every section and lists all offending keys at once.
func ValidateConfig(cfg *Config) error {
	err := configValidator.Struct(cfg)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		problems = append(problems, fmt.Sprintf("%s: %s (got %v)", key, describeRule(fe), fe.Value()))
	}
	return fmt.Errorf("%d invalid setting(s):\n  %s", len(problems), strings.Join(problems, "\n  "))
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be set"
	case "required_if":
		return "must be set when " + strings.Replace(fe.Param(), " ", " is ", 1)
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "url":
		return "must be an absolute URL"
	case "startswith":
		return "must start with " + fe.Param()
	default:
		return "fails " + fe.Tag()
	}
}
