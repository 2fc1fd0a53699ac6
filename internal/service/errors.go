package service

import "errors"

// Sentinel errors for batch operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidPath indicates the input path does not exist, or in single-file
	// mode is not a regular file. No conversion is attempted.
	ErrInvalidPath = errors.New("invalid path")

	// ErrIsDirectory accompanies ErrInvalidPath when a directory was given in
	// single-file mode.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrJobPanicked indicates a job escaped its worker with a panic. The
	// pool recovers it and delivers it as a failed result.
	ErrJobPanicked = errors.New("job panicked")
)
