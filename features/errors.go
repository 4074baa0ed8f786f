package features

import "errors"

var (
	// ErrVocabularyMismatch is returned when a restored vocabulary and its
	// weights disagree in length.
	ErrVocabularyMismatch = errors.New("vocabulary and weights length mismatch")

	// ErrDuplicateColumn is returned when a schema or vocabulary names the
	// same column twice.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrMatrixShape is returned when matrix values do not fill rows × columns.
	ErrMatrixShape = errors.New("matrix values do not match rows and columns")

	// ErrSchemaMismatch is returned when a matrix and an encoder set
	// disagree on the feature columns.
	ErrSchemaMismatch = errors.New("matrix columns do not match encoder schema")

	// ErrInvalidBlock is returned for a column whose block is unknown.
	ErrInvalidBlock = errors.New("invalid feature block")
)
