package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogUnavailable means the format catalog could not be loaded.
	ErrCatalogUnavailable = errors.New("format catalog unavailable")
	// ErrBusy means a conversion or import is in flight.
	ErrBusy = errors.New("a conversion is in progress")
	// ErrNotReady means no file or no target is selected.
	ErrNotReady = errors.New("no file or target format selected")
	// ErrUnknownTarget means the target is not offered for the selected file.
	ErrUnknownTarget = errors.New("target format not offered for this file")
	// ErrInvalidURL means an import URL was empty or not http(s).
	ErrInvalidURL = errors.New("invalid media URL")
)

// UnsupportedInputError reports a file whose extension the catalog does not know.
type UnsupportedInputError struct {
	Ext string
}

func (e *UnsupportedInputError) Error() string {
	if e.Ext == "" {
		return "unsupported input: file has no extension"
	}
	return fmt.Sprintf("unsupported input format %q", e.Ext)
}

// ConversionError carries the user-facing message of a failed conversion or import.
type ConversionError struct {
	Message string
	Err     error
}

func (e *ConversionError) Error() string {
	return e.Message
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
