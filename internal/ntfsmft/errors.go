package ntfsmft

import "errors"

// Sentinel error values for the decoder's error taxonomy. Callers use
// errors.Is against these; wrapped instances carry additional context via
// fmt.Errorf("...: %w", ...).
var (
	ErrTruncatedInput            = errors.New("ntfsmft: truncated input")
	ErrInvalidBootSector         = errors.New("ntfsmft: invalid boot sector")
	ErrInvalidMftEntry           = errors.New("ntfsmft: invalid mft entry")
	ErrUnknownAttributeType      = errors.New("ntfsmft: unknown attribute type")
	ErrTruncatedAttributeContent = errors.New("ntfsmft: truncated attribute content")
	ErrTornWrite                 = errors.New("ntfsmft: fixup sector trailer mismatch")
)
