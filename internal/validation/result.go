// Eventide - Personal Event Aggregation and Normalization Service
// Copyright 2026 Eventide Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eventide-app/eventide

package validation

import (
	"fmt"

	"github.com/eventide-app/eventide/internal/models"
)

// FieldError is a single field-level validation error or warning carrying a
// machine-readable code and a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error renders the violation in "<field>: <message>" form.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result is the outcome of validating a complete event.
//
// Errors are fatal to acceptance; Warnings are advisory and attached to an
// otherwise-valid result. Data is populated only when Errors is empty.
type Result struct {
	IsValid  bool                   `json:"isValid"`
	Errors   []FieldError           `json:"errors"`
	Warnings []FieldError           `json:"warnings"`
	Data     *models.ValidatedEvent `json:"data,omitempty"`
}

// addError appends a fatal violation and marks the result invalid.
func (r *Result) addError(field, code, message string) {
	r.IsValid = false
	r.Errors = append(r.Errors, FieldError{Field: field, Code: code, Message: message})
}

// addWarning appends an advisory violation. Warnings never block acceptance.
func (r *Result) addWarning(field, code, message string) {
	r.Warnings = append(r.Warnings, FieldError{Field: field, Code: code, Message: message})
}

// ErrorStrings returns all errors in "<field>: <message>" form.
func (r *Result) ErrorStrings() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Error()
	}
	return out
}
