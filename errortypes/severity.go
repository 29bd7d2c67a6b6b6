package errortypes

// Severity represents the severity level of a provisioning error.
type Severity int

const (
	// SeverityUnknown represents an unknown severity level.
	SeverityUnknown Severity = iota

	// SeverityFatal represents an error which aborts the provisioning run.
	SeverityFatal

	// SeverityRecoverable represents an error the caller is expected to
	// handle locally, such as a duplicate-association conflict.
	SeverityRecoverable
)

func isFatal(err error) bool {
	s, ok := err.(Coder)
	return !ok || s.Severity() == SeverityFatal
}

// IsRecoverable returns true if an error is labeled with SeverityRecoverable.
func IsRecoverable(err error) bool {
	s, ok := err.(Coder)
	return ok && s.Severity() == SeverityRecoverable
}

// ContainsFatalError checks if the error list contains a fatal error.
func ContainsFatalError(errors []error) bool {
	for _, err := range errors {
		if isFatal(err) {
			return true
		}
	}

	return false
}
