package extract

import (
    "strings"

    fitz "github.com/gen2brain/go-fitz"
    "github.com/rs/zerolog/log"
)

// PDF extracts the text layer of every page in document order, then filters
// the result to basic-multilingual-plane code points.
func PDF(path string) (string, error) {
    doc, err := fitz.New(path)
    if err != nil {
        return "", &ExtractionError{Format: "pdf", Cause: err}
    }
    defer doc.Close()

    var b strings.Builder
    for i := 0; i < doc.NumPage(); i++ {
        text, err := doc.Text(i)
        if err != nil {
            return "", &ExtractionError{Format: "pdf", Cause: err}
        }
        b.WriteString(text)
    }

    out := filterBMP(b.String())
    log.Debug().Str("pdf", path).Int("chars", len(out)).Msg("extracted PDF text")
    return out, nil
}

// PDFPageCount returns the number of pages in a PDF.
func PDFPageCount(path string) (int, error) {
    doc, err := fitz.New(path)
    if err != nil {
        return 0, &ExtractionError{Format: "pdf", Cause: err}
    }
    defer doc.Close()
    return doc.NumPage(), nil
}
