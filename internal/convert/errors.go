package convert

import "fmt"

// ConversionError reports a failed conversion operation.
type ConversionError struct {
    Op     string
    Reason string
    Cause  error
}

func (e *ConversionError) Error() string {
    if e.Cause != nil {
        return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Cause)
    }
    return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ConversionError) Unwrap() error { return e.Cause }

// EmptyInputError reports text input with no usable lines.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string { return "input text contains no non-empty lines" }
