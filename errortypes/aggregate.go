package errortypes

import (
	"bytes"
	"strconv"
)

// AggregateErrors represents one or more errors.
type AggregateErrors struct {
	Message string
	Errors  []error
}

// NewAggregateErrors builds a AggregateErrors struct.
func NewAggregateErrors(msg string, errs []error) AggregateErrors {
	return AggregateErrors{
		Message: msg,
		Errors:  errs,
	}
}

// Error implements the standard error interface.
func (e AggregateErrors) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}

	b := bytes.Buffer{}
	b.WriteString(e.Message)

	if len(e.Errors) == 1 {
		b.WriteString(" (1 error):\n")
	} else {
		b.WriteString(" (")
		b.WriteString(strconv.Itoa(len(e.Errors)))
		b.WriteString(" errors):\n")
	}

	for i, err := range e.Errors {
		b.WriteString("  ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}

	return b.String()
}

// Code returns the code of the first coded error in the aggregate, so a
// wrapped validation failure still maps to the right response status.
func (e AggregateErrors) Code() int {
	for _, err := range e.Errors {
		if c, ok := err.(Coder); ok {
			return c.Code()
		}
	}
	return UnknownErrorCode
}

// Severity of an aggregate is fatal when any member is fatal.
func (e AggregateErrors) Severity() Severity {
	if ContainsFatalError(e.Errors) {
		return SeverityFatal
	}
	return SeverityRecoverable
}
