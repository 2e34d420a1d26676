package repodata

import (
	"fmt"

	"github.com/glorpus-work/repodex/pkg/errors"
)

// Common repodata errors.
var (
	// ErrFetchFailed is returned when a channel document request comes back
	// with a non-success status.
	ErrFetchFailed = fmt.Errorf("repodata fetch failed")

	// ErrDocumentParse is returned when a fetched document is not valid JSON
	// of the expected shape.
	ErrDocumentParse = fmt.Errorf("invalid repodata document")

	// ErrUnknownColumn is returned when a query names a column the table
	// does not carry.
	ErrUnknownColumn = fmt.Errorf("unknown column")

	// ErrCacheInvalid is returned when a cache file cannot be read back as
	// a record table.
	ErrCacheInvalid = fmt.Errorf("invalid cache file")
)

// Wrap wraps an error with additional context specific to the repodata package.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, "repodata: "+msg)
}

// Wrapf wraps an error with additional formatted context specific to the repodata package.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, "repodata: "+format, args...)
}
