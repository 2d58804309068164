// Package errors provides structured error handling with error codes for simple-profile.
//
// Every package in the signup client reports programmatic failures with the
// same Error type so that rendering layers can decide how to react without
// string matching.
//
// # Overview
//
// The errors package provides:
//   - Structured Error type with error codes
//   - Error wrapping with context
//   - HTTP status code mapping for the web front end
//   - Error inspection utilities
//
// # Basic Usage
//
//	import "github.com/tendant/simple-profile/pkg/errors"
//
//	// Create a simple error
//	err := errors.New(errors.ErrCodeUnknownField, "unknown form field")
//
//	// Wrap an existing error
//	err := errors.Wrap(netErr, errors.ErrCodeTransport, "signup request failed")
//
//	// Convenience constructors
//	err := errors.InvalidState("submit", "submitting")
//	err := errors.InvalidInput("profilePicture", "file is empty")
//
// # Error Codes
//
// Form:
//   - ErrCodeValidationFailed
//   - ErrCodeMissingRequired
//   - ErrCodeUnknownField
//   - ErrCodeFileTooLarge
//
// State machine:
//   - ErrCodeInvalidState
//   - ErrCodeSubmitInProgress
//
// Account service:
//   - ErrCodeTransport
//   - ErrCodeUpstreamStatus
//   - ErrCodeNavigation
//
// # Error Inspection
//
//	if errors.IsCode(err, errors.ErrCodeSubmitInProgress) {
//		// keep the submit control disabled
//	}
//
//	code := errors.GetCode(err)
//	details := errors.GetDetails(err)
//
// # HTTP Status Code Mapping
//
//	var structuredErr *errors.Error
//	if stderrors.As(err, &structuredErr) {
//		http.Error(w, structuredErr.Message, structuredErr.HTTPStatusCode())
//		return
//	}
//
// Error code to HTTP status mapping:
//   - ErrCodeInvalidInput, ErrCodeUnknownField → 400 Bad Request
//   - ErrCodeInvalidState, ErrCodeSubmitInProgress → 409 Conflict
//   - ErrCodeFileTooLarge → 413 Request Entity Too Large
//   - ErrCodeTransport, ErrCodeUpstreamStatus → 502 Bad Gateway
//   - ErrCodeInternal → 500 Internal Server Error
package errors
