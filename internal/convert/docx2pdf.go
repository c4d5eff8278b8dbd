package convert

import (
    "context"
    "strings"

    "github.com/jung-kurt/gofpdf"
    "github.com/rs/zerolog/log"

    "github.com/local/docconvert/internal/config"
    "github.com/local/docconvert/internal/extract"
)

// Backend is one strategy for producing a PDF from a word-processing
// document. Backends are tried in order until one succeeds.
type Backend interface {
    Name() string
    Convert(ctx context.Context, inputPath, outputPath string) error
}

// DocxToPDF converts DOCX/DOC files to PDF through an ordered backend chain:
// the native word-processor binary, a headless office suite, and finally a
// manual paragraph-by-paragraph rebuild.
type DocxToPDF struct {
    backends []Backend
}

// NewDocxToPDF builds the standard three-tier backend chain.
func NewDocxToPDF(cfg config.ConvertConfig) *DocxToPDF {
    return &DocxToPDF{
        backends: []Backend{
            newSofficeBackend("soffice", cfg.SofficeTimeout, cfg.MaxConcurrent),
            newSofficeBackend("libreoffice", cfg.SofficeTimeout, cfg.MaxConcurrent),
            &rebuildBackend{},
        },
    }
}

// NewDocxToPDFWithBackends builds a converter over an explicit backend chain.
func NewDocxToPDFWithBackends(backends ...Backend) *DocxToPDF {
    return &DocxToPDF{backends: backends}
}

// Convert tries each backend in order. A backend failure is logged and the
// next backend attempted; only when all are exhausted does the conversion
// fail.
func (c *DocxToPDF) Convert(ctx context.Context, inputPath, outputPath string) error {
    for _, b := range c.backends {
        err := b.Convert(ctx, inputPath, outputPath)
        if err == nil {
            log.Info().Str("backend", b.Name()).Str("input", inputPath).Msg("DOCX to PDF conversion succeeded")
            return nil
        }
        log.Warn().Err(err).Str("backend", b.Name()).Str("input", inputPath).Msg("DOCX to PDF backend failed")
    }
    return &ConversionError{Op: "docx-to-pdf", Reason: "no conversion backend available"}
}

// rebuildBackend lays the document's paragraphs out sequentially in a fresh
// PDF, mapping Heading 1/Heading 2 styles to larger bold type.
type rebuildBackend struct{}

func (r *rebuildBackend) Name() string { return "manual-rebuild" }

func (r *rebuildBackend) Convert(_ context.Context, inputPath, outputPath string) error {
    paras, err := extract.DOCXParagraphs(inputPath)
    if err != nil {
        return err
    }

    pdf := gofpdf.New("P", "mm", "A4", "")
    tr := pdf.UnicodeTranslatorFromDescriptor("")
    pdf.AddPage()

    for _, p := range paras {
        text := strings.TrimSpace(p.Text)
        if text == "" {
            continue
        }
        switch p.HeadingLevel() {
        case 1:
            pdf.SetFont("Arial", "B", 16)
        case 2:
            pdf.SetFont("Arial", "B", 14)
        default:
            pdf.SetFont("Arial", "", 11)
        }
        pdf.MultiCell(0, 6, tr(text), "", "L", false)
        pdf.Ln(3)
    }

    return pdf.OutputFileAndClose(outputPath)
}
