// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly
//     noted.
//   - Generic codes (e.g., bad_request, conflict) mirror common HTTP status
//     semantics to aid interoperability.
//   - Domain-specific codes describe generation-pipeline outcomes that a bare
//     status cannot convey: the 4 generation_* codes distinguish backend
//     misconfiguration, upstream failure, deadline expiry, and empty output.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Generation pipeline:
	ErrCodeQuotaExceeded    = "quota_exceeded"
	ErrCodeGenUnavailable   = "generation_unavailable"
	ErrCodeGenFailed        = "generation_failed"
	ErrCodeGenTimeout       = "generation_timeout"
	ErrCodeGenEmpty         = "generation_empty"
	ErrCodeInvalidGenerated = "invalid_generated_content"
	ErrCodePolicyViolation  = "policy_violation"
	ErrCodeDuplicateContent = "duplicate_content"

	// Content CRUD:
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeSearchFailed     = "search_failed"
	ErrCodeRenderFailed     = "render_failed"
	ErrCodeBotFailed        = "bot_run_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
