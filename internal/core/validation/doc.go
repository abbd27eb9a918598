// Package validation provides pure validation functions for API handlers.
//
// This package contains the functional core logic for validating API requests.
// All functions are pure (no I/O, no side effects).
//
// # Functions
//
//   - ValidateCreateEntryFields: Validate required fields for entry creation
//   - ValidateCaptureParams: Validate the parameters of a server-side capture
//   - ValidatePage: Validate a 1-based page number
//
// # Usage
//
// The API handlers use these functions to validate requests before processing:
//
//	if field, msg := validation.ValidateCreateEntryFields(typ, title, slug); field != "" {
//	    // Return 400 Bad Request with msg
//	}
package validation
