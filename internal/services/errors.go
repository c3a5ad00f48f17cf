// Package services defines the business logic for content generation, guides,
// blog posts, categories, and subscription quotas. This file centralizes
// common service-level error values so that they can be consistently returned
// by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Generation pipeline errors.
var (
	// ErrTopicRequired is returned when a generation request carries an empty
	// or whitespace-only topic.
	ErrTopicRequired = errors.New("topic is required")

	// ErrInvalidContentType is returned when the requested content type is
	// neither "guide" nor "blog".
	ErrInvalidContentType = errors.New("content type must be guide or blog")

	// ErrQuotaExceeded is returned when the requester has already created as
	// many posts this calendar month as their subscription tier allows.
	ErrQuotaExceeded = errors.New("monthly generation quota exceeded")

	// ErrPolicyViolation is returned when generated content matches a blocked
	// policy pattern and the caller asked to publish it.
	ErrPolicyViolation = errors.New("content violates publishing policy")

	// ErrDuplicateContent is returned when a published item with the same or
	// conflicting title/slug already exists.
	ErrDuplicateContent = errors.New("similar content already exists")
)

// Content errors.
var (
	// ErrGuideNotFound indicates that the requested guide does not exist.
	ErrGuideNotFound = errors.New("guide not found")

	// ErrBlogNotFound indicates that the requested blog post does not exist.
	ErrBlogNotFound = errors.New("blog post not found")

	// ErrCategoryNotFound indicates that the referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrEmptyQuery is returned when a search request contains an empty query.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrInvalidTier is returned when a subscription update names an unknown tier.
	ErrInvalidTier = errors.New("unknown subscription tier")
)
