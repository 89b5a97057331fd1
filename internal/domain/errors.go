package domain

import "errors"

var (
	ErrUnsupportedFormat  = errors.New("unsupported schedule file format")
	ErrEmptyDocument      = errors.New("schedule document has no extractable rows or pages")
	ErrExtraction         = errors.New("model response could not be parsed as a JSON object")
	ErrModelUnavailable   = errors.New("generative model provider unavailable")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrSessionNotFound    = errors.New("import session not found")
	ErrInvalidTransition  = errors.New("invalid import session transition")
	ErrExtractionInFlight = errors.New("an extraction is already in progress for this session")
	ErrCandidateNotFound  = errors.New("import candidate not found")
	ErrInvalidBuffer      = errors.New("due date buffer must be a non-negative number of days")
	ErrNotFound           = errors.New("resource not found")
)
