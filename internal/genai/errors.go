// Package genai implements the AI content-generation pipeline: prompt
// composition, the external text-generation client, and the parser/guard
// that turns raw model output into a structured draft.
//
// This file centralizes the pipeline's error values so that they can be
// consistently returned by pipeline stages and checked by callers.
// Translation into user-facing messages or HTTP status codes is performed
// at the handler layer; raw backend error text must never reach end users.
package genai

import "errors"

var (
	// ErrUnavailable indicates the generation backend is not configured at
	// all (no API credential). Surfaced generically to users.
	ErrUnavailable = errors.New("generation service unavailable")

	// ErrRequestFailed indicates the single generation attempt failed with
	// a transport error or a non-success API status.
	ErrRequestFailed = errors.New("generation request failed")

	// ErrTimeout indicates the generation call exceeded its deadline.
	// No partial draft is produced on timeout.
	ErrTimeout = errors.New("generation timed out")

	// ErrEmptyResult indicates the service responded but produced no usable
	// text after trimming. Distinct from a hard failure: retrying with the
	// same prompt may succeed.
	ErrEmptyResult = errors.New("generation produced no content")

	// ErrInvalidTitle indicates the extracted title failed basic sanity
	// checks (too short, or a meaningless placeholder).
	ErrInvalidTitle = errors.New("invalid or meaningless title")

	// ErrMeaninglessContent indicates the generated body is too short or
	// matches the placeholder denylist.
	ErrMeaninglessContent = errors.New("content not meaningful")
)
