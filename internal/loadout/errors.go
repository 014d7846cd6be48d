package loadout

import "errors"

var (
	// ErrImportExport is returned when a build-like input cannot be decoded
	// or fails validation. The entity is left unchanged.
	ErrImportExport = errors.New("import/export error")

	// ErrIllegalState is returned when the caller asks for something the
	// entity's invariants forbid.
	ErrIllegalState = errors.New("illegal state")
)
