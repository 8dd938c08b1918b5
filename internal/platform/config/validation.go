package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Route prefixes owned by the gin router. The dispatcher mount is a catch-all
// and may not shadow them.
const (
	contextRoutePrefix  = "/api/v1/context"
	internalRoutePrefix = "/-"
)

// validate reports fields by their koanf keys, the names used in YAML and env.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "" {
			return strings.ToLower(fld.Name)
		}

		return name
	})

	return v
}

// Validate checks the configuration. The service must not start on error.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if err := c.Dispatch.validateMountPath(); err != nil {
		return fmt.Errorf("config validation failed:\n  %w", err)
	}

	return nil
}

// validateMountPath rejects mounts that would claim the context or health routes.
func (d *DispatchConfig) validateMountPath() error {
	mount := strings.TrimSuffix(d.MountPath, "/")

	switch {
	case mount == "":
		return errors.New("dispatch.mount_path must not be the root path")
	case strings.HasPrefix(contextRoutePrefix+"/", mount+"/"):
		return fmt.Errorf("dispatch.mount_path %s would shadow %s", d.MountPath, contextRoutePrefix)
	case mount == internalRoutePrefix || strings.HasPrefix(mount, internalRoutePrefix+"/"):
		return fmt.Errorf("dispatch.mount_path %s is reserved for health endpoints", d.MountPath)
	case strings.HasPrefix(mount, contextRoutePrefix+"/"):
		return fmt.Errorf("dispatch.mount_path %s is inside %s", d.MountPath, contextRoutePrefix)
	}

	return nil
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, formatFieldError(e))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

var fieldMessages = map[string]string{
	"required":    "is required",
	"required_if": "is required when {param}",
	"min":         "must be at least {param}",
	"max":         "must be at most {param}",
	"oneof":       "must be one of: {param}",
	"startswith":  "must start with {param}",
	"url":         "must be a valid URL",
}

func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	msg, ok := fieldMessages[e.Tag()]
	if !ok {
		return field + " failed validation: " + e.Tag()
	}

	return field + " " + strings.ReplaceAll(msg, "{param}", e.Param())
}

// formatFieldPath drops the root struct name: "Config.dispatch.mount_path"
// becomes "dispatch.mount_path".
func formatFieldPath(namespace string) string {
	_, path, ok := strings.Cut(namespace, ".")
	if !ok {
		return namespace
	}

	return path
}
