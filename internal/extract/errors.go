package extract

import "errors"

// Extraction failure taxonomy. Schema-level problems abort the run;
// record-level problems exclude the record and are counted by the
// Diagnostics collector.

var (
	// ErrMissingColumn: a raw source is missing a required column. Fatal.
	ErrMissingColumn = errors.New("required column missing from source")

	// ErrEmptySource: a source file exists but has no header row. Fatal.
	ErrEmptySource = errors.New("source has no header row")

	// ErrMalformedRecord: a numeric or date value in one record could
	// not be parsed. The record is excluded, the run continues.
	ErrMalformedRecord = errors.New("malformed record value")
)
