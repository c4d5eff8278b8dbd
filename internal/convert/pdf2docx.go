package convert

import (
    "strings"

    "github.com/rs/zerolog/log"

    "github.com/local/docconvert/internal/extract"
)

const (
    pdfToDocxHeading     = "Document converted from PDF"
    pdfToDocxPlaceholder = "No text could be extracted from the PDF document."
)

// PDFToDocx builds a fresh DOCX from a PDF's text layer. It always produces
// a document: when extraction fails or yields nothing, a placeholder
// paragraph is inserted instead of failing the conversion. Only an error
// writing the output itself is fatal.
func PDFToDocx(inputPath, outputPath string) error {
    doc := newDocxBuilder()
    doc.AddHeading(pdfToDocxHeading)

    text, err := extract.PDF(inputPath)
    switch {
    case err != nil:
        log.Warn().Err(err).Str("pdf", inputPath).Msg("PDF text extraction failed, inserting placeholder")
        doc.AddParagraph("Text extraction failed: " + err.Error())
    case strings.TrimSpace(text) == "":
        log.Warn().Str("pdf", inputPath).Msg("PDF yielded no text, inserting placeholder")
        doc.AddParagraph(pdfToDocxPlaceholder)
    default:
        // split on blank-line boundaries into paragraphs
        count := 0
        for _, para := range strings.Split(text, "\n\n") {
            if strings.TrimSpace(para) == "" {
                continue
            }
            doc.AddParagraph(SanitizeForXML(para))
            count++
        }
        log.Info().Str("pdf", inputPath).Int("paragraphs", count).Msg("PDF text added to document")
    }

    if err := doc.WriteFile(outputPath); err != nil {
        return &ConversionError{Op: "pdf-to-docx", Reason: "write output document", Cause: err}
    }
    return nil
}

// SanitizeForXML replaces characters a DOCX document part cannot carry with
// spaces. Tab, CR and LF are allowed, as is any code point >= 32 outside the
// 0xFFFE-0xFFFF noncharacter pair.
func SanitizeForXML(s string) string {
    var b strings.Builder
    b.Grow(len(s))
    for _, r := range s {
        if r == '\t' || r == '\r' || r == '\n' || (r >= 32 && r != 0xFFFE && r != 0xFFFF) {
            b.WriteRune(r)
        } else {
            b.WriteByte(' ')
        }
    }
    return b.String()
}
