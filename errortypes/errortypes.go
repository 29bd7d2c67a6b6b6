package errortypes

import (
	"fmt"
	"strconv"
)

// Validation should be used when a price granularity or provisioning request
// fails local checks before any remote call is made (non-increasing buckets,
// non-positive increment, missing required fields). Never retried.
type Validation struct {
	Message string
}

func (err *Validation) Error() string {
	return err.Message
}

func (err *Validation) Code() int {
	return ValidationErrorCode
}

func (err *Validation) Severity() Severity {
	return SeverityFatal
}

// TooManyPricePoints is raised when a granularity expands into a price ladder
// larger than the remote system can hold. It is a validation failure, never a
// silent truncation.
type TooManyPricePoints struct {
	Count int
	Limit int
}

func (err *TooManyPricePoints) Error() string {
	return "price granularity expands to " + strconv.Itoa(err.Count) +
		" or more price points, remote limit is " + strconv.Itoa(err.Limit)
}

func (err *TooManyPricePoints) Code() int {
	return TooManyPricePointsErrorCode
}

func (err *TooManyPricePoints) Severity() Severity {
	return SeverityFatal
}

// RemoteUnavailable should be used for connection or auth failures reaching
// the remote inventory system. Retry policy, if any, belongs to the transport.
type RemoteUnavailable struct {
	Message string
}

func (err *RemoteUnavailable) Error() string {
	return err.Message
}

func (err *RemoteUnavailable) Code() int {
	return RemoteUnavailableErrorCode
}

func (err *RemoteUnavailable) Severity() Severity {
	return SeverityFatal
}

// Remote wraps an error response from the remote inventory system that is not
// handled locally. RemoteCode holds the remote system's error identifier.
type Remote struct {
	Message    string
	RemoteCode string
}

// remoteCodeMessages annotates recognized remote error codes with a
// human-readable hint.
var remoteCodeMessages = map[string]string{
	"NOT_UNIQUE":              "not unique",
	"CONCURRENT_MODIFICATION": "concurrent modification, try again",
	"PERMISSION_DENIED":       "permission denied",
	"QUOTA_EXCEEDED":          "remote quota exceeded",
}

func (err *Remote) Error() string {
	if hint, ok := remoteCodeMessages[err.RemoteCode]; ok {
		return fmt.Sprintf("%s: %s (%s)", err.RemoteCode, hint, err.Message)
	}
	if err.RemoteCode != "" {
		return fmt.Sprintf("%s: %s", err.RemoteCode, err.Message)
	}
	return err.Message
}

func (err *Remote) Code() int {
	return RemoteErrorCode
}

func (err *Remote) Severity() Severity {
	return SeverityFatal
}

// AssociationConflict reports that one or more line-item-creative pairs in a
// batched association call already exist remotely. OffendingIndices are
// zero-based positions into the submitted batch. The association batcher
// handles this class locally by pruning the listed pairs and resubmitting.
type AssociationConflict struct {
	Message          string
	OffendingIndices []int
}

func (err *AssociationConflict) Error() string {
	return fmt.Sprintf("%s (offending indices %v)", err.Message, err.OffendingIndices)
}

func (err *AssociationConflict) Code() int {
	return AssociationConflictErrorCode
}

func (err *AssociationConflict) Severity() Severity {
	return SeverityRecoverable
}

// NotFound should be used when a referenced order, line item or config record
// is absent locally or remotely. Surfaced directly, no retry.
type NotFound struct {
	ID       string
	DataType string
}

func (err *NotFound) Error() string {
	return fmt.Sprintf(`%s with ID="%s" not found`, err.DataType, err.ID)
}

func (err *NotFound) Code() int {
	return NotFoundErrorCode
}

func (err *NotFound) Severity() Severity {
	return SeverityFatal
}
