package domain

import "errors"

var (
	// ErrArticleNotFound is returned by repository lookups on unknown ids.
	ErrArticleNotFound = errors.New("article not found")

	// ErrRunBoundExceeded aborts a run whose state machine took more
	// transitions than the configured cap allows.
	ErrRunBoundExceeded = errors.New("run transition bound exceeded")

	// ErrDownloadFailed marks an article page that could not be retrieved.
	ErrDownloadFailed = errors.New("download failed")
)
