package extract

import "fmt"

// ExtractionError reports a failed extraction for a given format.
type ExtractionError struct {
    Format string
    Cause  error
}

func (e *ExtractionError) Error() string {
    return fmt.Sprintf("%s extraction failed: %v", e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// UnsupportedFormatError reports a file extension no extractor handles.
type UnsupportedFormatError struct {
    Extension string
}

func (e *UnsupportedFormatError) Error() string {
    if e.Extension == "" {
        return "unsupported file format: missing extension"
    }
    return fmt.Sprintf("unsupported file format: %s", e.Extension)
}
