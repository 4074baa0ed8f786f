package catalog

import "errors"

var (
	// ErrDatasetNotFound indicates the catalog file does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrMissingColumn indicates a required header column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedCSV indicates the file could not be parsed as CSV.
	ErrMalformedCSV = errors.New("malformed catalog csv")
)
