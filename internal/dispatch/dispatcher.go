// Package dispatch routes an uploaded byte stream with a claimed extension
// to the matching extraction or conversion strategy and manages the upload,
// workspace and output artifact lifecycle around it.
package dispatch

import (
    "archive/zip"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strings"

    pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
    "github.com/rs/zerolog/log"

    "github.com/local/docconvert/internal/convert"
    "github.com/local/docconvert/internal/extract"
    "github.com/local/docconvert/internal/filestore"
    "github.com/local/docconvert/internal/format"
)

// Upload is an uploaded file: the untrusted original filename and its bytes.
type Upload struct {
    Filename string
    Content  io.Reader
}

// Artifact is a conversion output materialized in the output directory.
// DownloadName is derived from the original filename and used only for the
// Content-Disposition header, never as a storage path. Workspace, when set,
// is a temp directory to remove once the response has been fully sent.
type Artifact struct {
    Path         string
    DownloadName string
    ContentType  string
    Workspace    string
}

// Mirror copies output artifacts to remote storage. Failures are logged,
// never fatal.
type Mirror interface {
    Upload(ctx context.Context, localPath string) error
}

// Dispatcher wires the file store, extractors and converters together.
type Dispatcher struct {
    store     *filestore.Store
    extractor *extract.Extractor
    docxToPDF *convert.DocxToPDF
    mirror    Mirror
}

// Options configures a Dispatcher. Mirror may be nil.
type Options struct {
    Store     *filestore.Store
    Extractor *extract.Extractor
    DocxToPDF *convert.DocxToPDF
    Mirror    Mirror
}

// New creates a Dispatcher.
func New(opts Options) *Dispatcher {
    return &Dispatcher{
        store:     opts.Store,
        extractor: opts.Extractor,
        docxToPDF: opts.DocxToPDF,
        mirror:    opts.Mirror,
    }
}

const (
    pdfContentType  = "application/pdf"
    docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
    zipContentType  = "application/zip"
)

// ConvertDocxToPDF persists the upload, runs the backend chain and returns
// the PDF artifact.
func (d *Dispatcher) ConvertDocxToPDF(ctx context.Context, up Upload) (*Artifact, error) {
    if err := requireExtension(up.Filename, format.DOCX, format.DOC); err != nil {
        return nil, err
    }
    uploadPath, err := d.persist(up)
    if err != nil {
        return nil, err
    }

    outPath := d.store.OutputPath("pdf")
    if err := d.docxToPDF.Convert(ctx, uploadPath, outPath); err != nil {
        return nil, err
    }
    if n, err := pdfapi.PageCountFile(outPath); err != nil {
        return nil, &convert.ConversionError{Op: "docx-to-pdf", Reason: "produced PDF is invalid", Cause: err}
    } else {
        log.Info().Str("output", outPath).Int("pages", n).Msg("DOCX converted to PDF")
    }

    d.mirrorArtifact(ctx, outPath)
    return &Artifact{
        Path:         outPath,
        DownloadName: SwapExtension(up.Filename, "pdf"),
        ContentType:  pdfContentType,
    }, nil
}

// ConvertPDFToDocx persists the upload and builds the DOCX artifact.
func (d *Dispatcher) ConvertPDFToDocx(ctx context.Context, up Upload) (*Artifact, error) {
    if err := requireExtension(up.Filename, format.PDF); err != nil {
        return nil, err
    }
    uploadPath, err := d.persist(up)
    if err != nil {
        return nil, err
    }

    outPath := d.store.OutputPath("docx")
    if err := convert.PDFToDocx(uploadPath, outPath); err != nil {
        return nil, err
    }

    d.mirrorArtifact(ctx, outPath)
    return &Artifact{
        Path:         outPath,
        DownloadName: SwapExtension(up.Filename, "docx"),
        ContentType:  docxContentType,
    }, nil
}

// ConvertPDFToImages persists the upload, renders one PNG per page into a
// fresh workspace and packages them into a ZIP artifact. The returned
// artifact carries the workspace path; the caller removes it after the
// response is fully sent.
func (d *Dispatcher) ConvertPDFToImages(ctx context.Context, up Upload) (*Artifact, error) {
    if err := requireExtension(up.Filename, format.PDF); err != nil {
        return nil, err
    }
    uploadPath, err := d.persist(up)
    if err != nil {
        return nil, err
    }

    if n, err := pdfapi.PageCountFile(uploadPath); err != nil {
        return nil, &convert.ConversionError{Op: "pdf-to-images", Reason: "unreadable PDF", Cause: err}
    } else {
        log.Debug().Int("pages", n).Str("pdf", uploadPath).Msg("rendering PDF pages")
    }

    workspace, err := d.store.NewWorkspace()
    if err != nil {
        return nil, &StorageError{Cause: err}
    }

    images, err := convert.PDFToImages(uploadPath, workspace)
    if err != nil {
        d.store.RemoveWorkspace(workspace)
        return nil, err
    }
    if len(images) == 0 {
        d.store.RemoveWorkspace(workspace)
        return nil, &convert.ConversionError{Op: "pdf-to-images", Reason: "document has no pages"}
    }

    zipPath := d.store.OutputPath("zip")
    if err := zipFiles(images, zipPath); err != nil {
        d.store.RemoveWorkspace(workspace)
        return nil, &StorageError{Cause: err}
    }

    d.mirrorArtifact(ctx, zipPath)
    base := strings.TrimSuffix(up.Filename, filepath.Ext(up.Filename))
    return &Artifact{
        Path:         zipPath,
        DownloadName: base + "_images.zip",
        ContentType:  zipContentType,
        Workspace:    workspace,
    }, nil
}

// ExtractText persists the upload, extracts text by the claimed extension
// and stores the result as a JSON side artifact in the output directory.
func (d *Dispatcher) ExtractText(ctx context.Context, up Upload) (string, error) {
    uploadPath, err := d.persist(up)
    if err != nil {
        return "", err
    }
    text, err := d.extractor.Any(uploadPath)
    if err != nil {
        return "", err
    }
    d.saveTextArtifact(ctx, text)
    return text, nil
}

// ExtractTextFromCSV validates the .csv extension, then extracts with
// encoding detection. The delimiter token forces a separator; empty or
// "auto" detects it from the content.
func (d *Dispatcher) ExtractTextFromCSV(ctx context.Context, up Upload, delimiter string) (string, error) {
    if err := requireExtension(up.Filename, format.CSV); err != nil {
        return "", err
    }
    uploadPath, err := d.persist(up)
    if err != nil {
        return "", err
    }
    return extract.CSVWithDelimiter(uploadPath, resolveCSVDelimiter(delimiter))
}

// resolveCSVDelimiter maps the request's delimiter token to a rune, zero
// meaning detect from content.
func resolveCSVDelimiter(token string) rune {
    switch token {
    case "", "auto":
        return 0
    case "tab", "\\t":
        return '\t'
    default:
        for _, r := range token {
            return r
        }
        return 0
    }
}

// TextToCSVResult carries the produced CSV and where it was materialized.
type TextToCSVResult struct {
    CSVContent string
    Path       string
    Filename   string
}

// TextToCSV converts free text to a CSV artifact in the output directory.
func (d *Dispatcher) TextToCSV(ctx context.Context, text, delimiter string) (*TextToCSVResult, error) {
    outPath := d.store.OutputPath("csv")
    if err := convert.TextToCSV(text, outPath, delimiter); err != nil {
        return nil, err
    }
    content, err := os.ReadFile(outPath)
    if err != nil {
        return nil, &StorageError{Cause: err}
    }
    d.mirrorArtifact(ctx, outPath)
    return &TextToCSVResult{
        CSVContent: string(content),
        Path:       outPath,
        Filename:   filepath.Base(outPath),
    }, nil
}

// Download resolves a previously produced artifact by bare filename. Path
// separators are rejected so the output directory cannot be escaped.
func (d *Dispatcher) Download(filename string) (string, error) {
    if filename == "" || filename != filepath.Base(filename) {
        return "", &InvalidInputError{Message: "invalid download filename"}
    }
    path := filepath.Join(d.store.OutputDir(), filename)
    if _, err := os.Stat(path); err != nil {
        return "", &NotFoundError{Filename: filename}
    }
    return path, nil
}

func (d *Dispatcher) persist(up Upload) (string, error) {
    path, err := d.store.SaveUpload(up.Content, up.Filename)
    if err != nil {
        return "", &StorageError{Cause: err}
    }
    return path, nil
}

func (d *Dispatcher) mirrorArtifact(ctx context.Context, path string) {
    if d.mirror == nil {
        return
    }
    if err := d.mirror.Upload(ctx, path); err != nil {
        log.Warn().Err(err).Str("path", path).Msg("artifact mirroring failed")
    }
}

// saveTextArtifact writes extracted text as a JSON artifact, matching the
// response body shape. Best effort: a failure only logs.
func (d *Dispatcher) saveTextArtifact(ctx context.Context, text string) {
    path := d.store.OutputPath("json")
    payload, err := json.Marshal(map[string]string{"text": text})
    if err != nil {
        log.Warn().Err(err).Msg("failed to encode text artifact")
        return
    }
    if err := os.WriteFile(path, payload, 0o644); err != nil {
        log.Warn().Err(err).Str("path", path).Msg("failed to write text artifact")
        return
    }
    d.mirrorArtifact(ctx, path)
}

// SwapExtension replaces the filename's extension with a new one. Used only
// for the user-facing download name.
func SwapExtension(filename, newExt string) string {
    base := strings.TrimSuffix(filename, filepath.Ext(filename))
    if base == "" {
        base = "document"
    }
    return base + "." + newExt
}

// requireExtension validates the claimed extension against the operation's
// expected set before any processing happens.
func requireExtension(filename string, allowed ...format.Tag) error {
    tag := format.Classify(filename)
    for _, a := range allowed {
        if tag == a {
            return nil
        }
    }
    names := make([]string, len(allowed))
    for i, a := range allowed {
        names[i] = string(a)
    }
    return &InvalidInputError{
        Message: fmt.Sprintf("file must have one of the extensions: %s", strings.Join(names, ", ")),
    }
}

// zipFiles packages the given files into a ZIP archive; each entry is named
// by its base filename only, with no directory prefix.
func zipFiles(paths []string, zipPath string) error {
    out, err := os.Create(zipPath)
    if err != nil {
        return fmt.Errorf("create zip: %w", err)
    }
    defer out.Close()

    zw := zip.NewWriter(out)
    for _, p := range paths {
        w, err := zw.Create(filepath.Base(p))
        if err != nil {
            return fmt.Errorf("create zip entry %s: %w", filepath.Base(p), err)
        }
        f, err := os.Open(p)
        if err != nil {
            return fmt.Errorf("open %s: %w", p, err)
        }
        _, err = io.Copy(w, f)
        f.Close()
        if err != nil {
            return fmt.Errorf("write zip entry %s: %w", filepath.Base(p), err)
        }
    }
    return zw.Close()
}
