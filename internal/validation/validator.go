// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the singleton go-playground validator instance.
// The validator is initialized once and caches struct info; this function is
// thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// structFieldErrors validates a struct with the singleton validator and
// converts any violations to FieldErrors. Field names use the json tag name
// convention of the input struct's validate tags being applied to exported
// fields; the lowercased leading character matches the wire field names.
//
// An unexpected (non-ValidationErrors) failure is reported as a single
// generic entry rather than panicking the caller.
func structFieldErrors(s interface{}) []FieldError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{
			Field:   "unknown",
			Code:    "internal",
			Message: err.Error(),
		}}
	}

	out := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		out[i] = FieldError{
			Field:   wireFieldName(fe.Field()),
			Code:    fe.Tag(),
			Message: translateError(fe),
		}
	}
	return out
}

// wireFieldName lowercases the leading character of a struct field name so
// violations line up with the JSON wire names (UID -> uid, StartUTC -> startUtc).
func wireFieldName(field string) string {
	if name, ok := wireFieldNames[field]; ok {
		return name
	}
	if field == "" {
		return field
	}
	return string(field[0]|0x20) + field[1:]
}

// wireFieldNames maps struct field names whose wire form is not a simple
// leading-lowercase of the Go name.
var wireFieldNames = map[string]string{
	"UID":            "uid",
	"URL":            "url",
	"StartUTC":       "startUtc",
	"EndUTC":         "endUtc",
	"LastSeenAtUTC":  "lastSeenAtUtc",
	"OrganizerEmail": "organizerEmail",
	"ContactEmail":   "contactEmail",
}

// errorMessageTemplates maps validation tags to message templates taking the
// field name.
var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"datetime": "%s must be a valid date/time in RFC3339 format",
}

// errorMessageWithParam maps validation tags to templates taking the field
// name and the tag parameter.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := wireFieldName(fe.Field())
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind().String() == "string"
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
