// Package extract produces a normalized plain-text representation of a
// document: one extractor per supported format, plus a generic dispatcher
// keyed on the filename extension.
package extract

import (
    "github.com/local/docconvert/internal/config"
    "github.com/local/docconvert/internal/format"
)

// Extractor bundles the per-format extraction functions behind a single
// extension-dispatched entry point.
type Extractor struct {
    ocr config.OCRConfig
}

// New creates an Extractor.
func New(ocr config.OCRConfig) *Extractor {
    return &Extractor{ocr: ocr}
}

// Any classifies the file by extension and delegates to the matching
// extractor. An unsupported extension fails with UnsupportedFormatError.
func (e *Extractor) Any(path string) (string, error) {
    switch format.Classify(path) {
    case format.PDF:
        return PDF(path)
    case format.DOCX, format.DOC:
        return DOCX(path)
    case format.XLSX:
        return XLSX(path)
    case format.XLS:
        return XLS(path)
    case format.CSV:
        return CSV(path)
    case format.TXT:
        return Text(path)
    case format.Image:
        return Image(path, e.ocr)
    default:
        return "", &UnsupportedFormatError{Extension: format.Extension(path)}
    }
}
