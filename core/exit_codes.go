package core

// Process exit codes. Kept small and stable so service wrappers and
// deployment scripts can react to specific failure classes.
const (
	// ExitCodeSuccess indicates normal termination.
	ExitCodeSuccess = 0

	// ExitCodeError indicates a generic startup or runtime failure.
	ExitCodeError = 1

	// ExitCodeConfigError indicates configuration validation failed.
	ExitCodeConfigError = 2
)
