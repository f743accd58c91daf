package composer

import "errors"

var (
	// ErrDuplicateModule is returned by Validate when a module identifier appears more than once.
	ErrDuplicateModule = errors.New("module identifiers must be unique")
	// ErrEmptyStyle is returned by Validate when a stylesheet path is blank.
	ErrEmptyStyle = errors.New("stylesheet paths must not be empty")
	// ErrMissingCompatibilityDate is returned by Validate when the compatibility marker is empty.
	ErrMissingCompatibilityDate = errors.New("compatibility date must be set")
)
