// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"testing"
)

func TestUnwrap(t *testing.T) {
	rootCause := errors.New("root cause error")

	validationErr := NewValidation("validation failed", rootCause)

	unwrapped := validationErr.Unwrap()
	if unwrapped == nil {
		t.Error("Expected unwrapped error to not be nil")
	}

	// errors.Is must traverse the joined chain down to the root cause
	if !errors.Is(validationErr, rootCause) {
		t.Error("errors.Is should find the root cause in the wrapped error")
	}

	simpleErr := NewValidation("simple error")
	if simpleErr.Unwrap() != nil {
		t.Error("Expected Unwrap to return nil for error with no wrapped cause")
	}
}

func TestUnwrapWithDifferentErrorTypes(t *testing.T) {
	rootCause := errors.New("storage medium failed")

	testCases := []struct {
		name string
		err  error
	}{
		{"Validation", NewValidation("validation error", rootCause)},
		{"NotFound", NewNotFound("not found error", rootCause)},
		{"Conflict", NewConflict("conflict error", rootCause)},
		{"Unexpected", NewUnexpected("unexpected error", rootCause)},
		{"ServiceUnavailable", NewServiceUnavailable("service unavailable", rootCause)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, rootCause) {
				t.Errorf("errors.Is should find root cause in %s error", tc.name)
			}

			type unwrapper interface {
				Unwrap() error
			}

			if u, ok := tc.err.(unwrapper); ok {
				underlying := u.Unwrap()
				if underlying == nil {
					t.Errorf("Expected %s error to have an underlying error", tc.name)
				}
				if !errors.Is(underlying, rootCause) {
					t.Errorf("errors.Is should find root cause in unwrapped %s error", tc.name)
				}
			} else {
				t.Errorf("%s error should implement Unwrap()", tc.name)
			}
		})
	}
}

func TestErrorsAsDistinguishesKinds(t *testing.T) {
	// The service layer branches on these kinds; NotFound and Conflict must
	// never match each other.
	notFound := NewNotFound("group not found")
	conflict := NewConflict("group name already in use")

	var nf NotFound
	var cf Conflict

	if !errors.As(notFound, &nf) {
		t.Error("errors.As should match NotFound against NotFound")
	}
	if errors.As(notFound, &cf) {
		t.Error("errors.As should not match NotFound against Conflict")
	}
	if !errors.As(conflict, &cf) {
		t.Error("errors.As should match Conflict against Conflict")
	}
	if errors.As(conflict, &nf) {
		t.Error("errors.As should not match Conflict against NotFound")
	}
}
