package lifecycle

import "errors"

var (
	// ErrPhaseNotFound is returned when a phase update names a phase id
	// that does not exist on the record.
	ErrPhaseNotFound = errors.New("phase not found")

	// ErrUnknownRecordType is returned when no type spec exists for a record type.
	ErrUnknownRecordType = errors.New("unknown record type")

	// ErrInvalidStatusTransition is returned when an explicit status action
	// is not permitted for the record's type or current status.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
