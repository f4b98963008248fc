package datasets

import "github.com/pkg/errors"

var (
	// ErrMissingColumn is returned when a CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing column")

	// ErrUnknownLabel is returned for a class index outside the label set.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrEmpty is returned when a dataset has no records.
	ErrEmpty = errors.New("empty dataset")

	// ErrFraction is returned for a held-out fraction outside (0, 1).
	ErrFraction = errors.New("held-out fraction must be in (0, 1)")
)
