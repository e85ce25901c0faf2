package domain

import "errors"

// Domain errors.
var (
	// ErrJobNotFound is returned when a download job cannot be found.
	ErrJobNotFound = errors.New("download not found")

	// ErrFileNotFound is returned when a downloaded file cannot be found.
	ErrFileNotFound = errors.New("video not found")

	// ErrMissingQuery is returned when a search is attempted without a query.
	ErrMissingQuery = errors.New("query parameter is required")

	// ErrMissingSourceID is returned when a download request has no video ID.
	ErrMissingSourceID = errors.New("video ID is required")

	// ErrAPIKeyMissing is returned when no provider API key is configured.
	ErrAPIKeyMissing = errors.New("provider API key not configured")

	// ErrToolMissing is returned when the downloader executable is absent.
	ErrToolMissing = errors.New("yt-dlp not found")

	// ErrInvalidFilename is returned for filenames containing path separators.
	ErrInvalidFilename = errors.New("invalid filename")
)

// ProviderError wraps a failure reported by the search provider. The
// upstream message is surfaced verbatim to the caller.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return "provider error: " + e.Message
}

// NewProviderError creates a ProviderError with the upstream message.
func NewProviderError(message string) *ProviderError {
	return &ProviderError{Message: message}
}
