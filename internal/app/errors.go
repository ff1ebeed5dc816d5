package app

import "errors"

// Sentinel errors services return to the transport layer. Handlers map them
// to HTTP statuses; anything else is a 500.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("operation conflicts with current state")
	ErrQuotaExceeded = errors.New("daily quota exceeded")
)

// ExtractionError marks failures while downloading or reading the PDF
// itself, as opposed to analyzer failures downstream.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return "text extraction failed: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// AnalyzerError marks failures of the analysis model call or its response
// parsing. Extracted chunks persisted before the call stay in place.
type AnalyzerError struct {
	Err error
}

func (e *AnalyzerError) Error() string {
	return "analyzer failed: " + e.Err.Error()
}

func (e *AnalyzerError) Unwrap() error {
	return e.Err
}
