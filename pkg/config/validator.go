package config

import (
	"regexp"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
)

// endpointPathPattern matches absolute REST paths without query or fragment
var endpointPathPattern = regexp.MustCompile(`^/[A-Za-z0-9_\-./]*[A-Za-z0-9_\-]$`)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("endpoint_path", validateEndpointPath); err != nil {
		return err
	}
	return v.RegisterValidation("time_zone", validateTimeZone)
}

func validateEndpointPath(fl validator.FieldLevel) bool {
	return endpointPathPattern.MatchString(fl.Field().String())
}

// validateTimeZone accepts an empty value, meaning local time
func validateTimeZone(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
