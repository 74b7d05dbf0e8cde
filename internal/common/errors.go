package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Content errors
	ErrInvalidContentType = errors.New("invalid content type")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrContentExists = errors.New("content already exists")
	ErrInvalidSlug = errors.New("invalid slug")
	ErrInvalidCampaign = errors.New("invalid campaign")

	// Image errors
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrInvalidReference     = errors.New("invalid file reference")
)
