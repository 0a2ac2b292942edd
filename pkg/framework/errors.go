package framework

import "strings"

// AggregatedError collects the errors of several independent operations
// so one failing link or runner does not hide the others.
type AggregatedError struct {
	Errors []error
}

// Error implements the error interface, one collected error per line.
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	msg := make([]string, len(e.Errors)+1)
	msg[0] = "Multiple errors:"
	for n, err := range e.Errors {
		msg[n+1] = err.Error()
	}
	return strings.Join(msg, "\n")
}

// Add collects errors, skipping nil values, and returns the receiver
// for chaining.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// Aggregate returns the collected errors as one error, or nil when
// nothing was collected.
func (e *AggregatedError) Aggregate() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
