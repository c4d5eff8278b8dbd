package extract

import (
    "os"
    "strings"
    "unicode/utf8"
)

// Text reads a plain-text file as UTF-8, replacing invalid bytes with the
// Unicode replacement character. No further filtering is applied.
func Text(path string) (string, error) {
    raw, err := os.ReadFile(path)
    if err != nil {
        return "", &ExtractionError{Format: "txt", Cause: err}
    }
    if utf8.Valid(raw) {
        return string(raw), nil
    }
    return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), nil
}
