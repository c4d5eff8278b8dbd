package convert

import (
    "fmt"
    "image/png"
    "os"
    "path/filepath"

    fitz "github.com/gen2brain/go-fitz"
    "github.com/rs/zerolog/log"
)

// pdfNativeDPI is the PDF unit resolution; pages render at twice that.
const pdfNativeDPI = 72

// PDFToImages renders each page of a PDF at 2x native resolution into one
// PNG per page inside the given workspace directory. Files are named
// page_<n>.png with 1-indexed page numbers and returned in page order.
func PDFToImages(inputPath, workspaceDir string) ([]string, error) {
    if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
        return nil, &ConversionError{Op: "pdf-to-images", Reason: "create workspace", Cause: err}
    }

    doc, err := fitz.New(inputPath)
    if err != nil {
        return nil, &ConversionError{Op: "pdf-to-images", Reason: "open PDF", Cause: err}
    }
    defer doc.Close()

    var paths []string
    for i := 0; i < doc.NumPage(); i++ {
        img, err := doc.ImageDPI(i, 2*pdfNativeDPI)
        if err != nil {
            return nil, &ConversionError{
                Op:     "pdf-to-images",
                Reason: fmt.Sprintf("render page %d", i+1),
                Cause:  err,
            }
        }

        path := filepath.Join(workspaceDir, fmt.Sprintf("page_%d.png", i+1))
        f, err := os.Create(path)
        if err != nil {
            return nil, &ConversionError{Op: "pdf-to-images", Reason: "create image file", Cause: err}
        }
        if err := png.Encode(f, img); err != nil {
            f.Close()
            return nil, &ConversionError{
                Op:     "pdf-to-images",
                Reason: fmt.Sprintf("encode page %d", i+1),
                Cause:  err,
            }
        }
        if err := f.Close(); err != nil {
            return nil, &ConversionError{Op: "pdf-to-images", Reason: "close image file", Cause: err}
        }

        paths = append(paths, path)
        log.Debug().Int("page", i+1).Str("path", path).Msg("page rendered")
    }

    log.Info().Str("pdf", inputPath).Int("pages", len(paths)).Msg("PDF rendered to images")
    return paths, nil
}
