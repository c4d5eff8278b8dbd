// Package api exposes the conversion and extraction pipeline over HTTP.
package api

import (
    "context"
    "encoding/json"
    "errors"
    "io"
    "mime"
    "net/http"
    "os"
    "strings"
    "time"

    "github.com/gabriel-vasile/mimetype"
    "github.com/rs/zerolog/log"

    "github.com/local/docconvert/internal/convert"
    "github.com/local/docconvert/internal/dispatch"
    "github.com/local/docconvert/internal/extract"
    "github.com/local/docconvert/internal/history"
    "github.com/local/docconvert/internal/metrics"
    "github.com/local/docconvert/internal/statuscheck"
)

// 64MB in memory before multipart parts spill to temp files.
const maxMultipartMemory = 64 << 20

// Server routes HTTP requests to the dispatcher.
type Server struct {
    dispatcher *dispatch.Dispatcher
    checker    *statuscheck.Checker
    history    *history.Store
}

// Options configures a Server. Checker and History may be nil.
type Options struct {
    Dispatcher *dispatch.Dispatcher
    Checker    *statuscheck.Checker
    History    *history.Store
}

// New creates a Server.
func New(opts Options) *Server {
    return &Server{
        dispatcher: opts.Dispatcher,
        checker:    opts.Checker,
        history:    opts.History,
    }
}

// RegisterRoutes attaches all endpoints to the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
    mux.HandleFunc("/health", s.handleHealth)
    mux.HandleFunc("/api/status", s.handleStatus)
    mux.HandleFunc("/api/history", s.handleHistory)
    mux.HandleFunc("/api/convert/docx-to-pdf/", s.conversionHandler("docx-to-pdf", s.dispatcher.ConvertDocxToPDF))
    mux.HandleFunc("/api/convert/pdf-to-docx/", s.conversionHandler("pdf-to-docx", s.dispatcher.ConvertPDFToDocx))
    mux.HandleFunc("/api/convert/pdf-to-images/", s.conversionHandler("pdf-to-images", s.dispatcher.ConvertPDFToImages))
    mux.HandleFunc("/api/pdf-to-images/", s.conversionHandler("pdf-to-images", s.dispatcher.ConvertPDFToImages))
    mux.HandleFunc("/api/extract-text/", s.handleExtractText)
    mux.HandleFunc("/api/extract-text-unified/", s.handleExtractText)
    mux.HandleFunc("/api/text-to-csv/", s.handleTextToCSV)
    mux.HandleFunc("/api/extract-text-from-csv/", s.handleExtractTextFromCSV)
    mux.HandleFunc("/api/download/", s.handleDownload)
    mux.Handle("/metrics", metrics.Handler())
}

type errorBody struct {
    Error   string `json:"error"`
    Message string `json:"message"`
}

// writeError maps the error taxonomy onto a single JSON envelope.
func writeError(w http.ResponseWriter, err error) {
    status, kind := classifyError(err)
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(errorBody{Error: kind, Message: err.Error()})
}

func classifyError(err error) (int, string) {
    var (
        invalid     *dispatch.InvalidInputError
        empty       *convert.EmptyInputError
        unsupported *extract.UnsupportedFormatError
        notFound    *dispatch.NotFoundError
        storageErr  *dispatch.StorageError
        convErr     *convert.ConversionError
        extractErr  *extract.ExtractionError
    )
    switch {
    case errors.As(err, &invalid):
        return http.StatusBadRequest, "invalid_input"
    case errors.As(err, &empty):
        return http.StatusBadRequest, "invalid_input"
    case errors.As(err, &unsupported):
        return http.StatusBadRequest, "unsupported_format"
    case errors.As(err, &notFound):
        return http.StatusNotFound, "not_found"
    case errors.As(err, &storageErr):
        return http.StatusInternalServerError, "storage_failure"
    case errors.As(err, &convErr):
        return http.StatusInternalServerError, "conversion_failed"
    case errors.As(err, &extractErr):
        return http.StatusInternalServerError, "extraction_failed"
    }
    return http.StatusInternalServerError, "internal_error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

// record observes the outcome in metrics and, when configured, history.
func (s *Server) record(ctx context.Context, op, original, artifact string, start time.Time, err error) {
    dur := time.Since(start)
    result := "success"
    errMsg := ""
    if err != nil {
        result = "error"
        errMsg = err.Error()
    }
    metrics.Observe(op, result, dur)
    if s.history != nil {
        s.history.Record(ctx, history.Entry{
            Operation:    op,
            OriginalName: original,
            Artifact:     artifact,
            Result:       result,
            Error:        errMsg,
            DurationMS:   dur.Milliseconds(),
            Timestamp:    time.Now().UTC(),
        })
    }
}

// formFile pulls the uploaded file out of the multipart form.
func formFile(r *http.Request) (dispatch.Upload, func(), error) {
    if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
        return dispatch.Upload{}, nil, &dispatch.InvalidInputError{Message: "invalid multipart form"}
    }
    file, hdr, err := r.FormFile("file")
    if err != nil {
        return dispatch.Upload{}, nil, &dispatch.InvalidInputError{Message: "missing file field"}
    }
    return dispatch.Upload{Filename: hdr.Filename, Content: file}, func() { _ = file.Close() }, nil
}

// conversionHandler streams the artifact produced by op back to the client.
func (s *Server) conversionHandler(name string, op func(context.Context, dispatch.Upload) (*dispatch.Artifact, error)) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost {
            w.WriteHeader(http.StatusMethodNotAllowed)
            return
        }
        start := time.Now()
        up, closeFile, err := formFile(r)
        if err != nil {
            s.record(r.Context(), name, "", "", start, err)
            writeError(w, err)
            return
        }
        defer closeFile()

        artifact, err := op(r.Context(), up)
        s.record(r.Context(), name, up.Filename, artifactName(artifact), start, err)
        if err != nil {
            log.Error().Err(err).Str("operation", name).Str("file", up.Filename).Msg("conversion failed")
            writeError(w, err)
            return
        }
        s.streamArtifact(w, name, artifact)
    }
}

// contentDisposition builds the attachment header, escaping the untrusted
// filename so quotes or non-ASCII bytes cannot break the header.
func contentDisposition(filename string) string {
    return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

func artifactName(a *dispatch.Artifact) string {
    if a == nil {
        return ""
    }
    return a.DownloadName
}

// streamArtifact sends the artifact body. The temp workspace, if any, is
// removed only after the copy finishes so the stream never races deletion.
func (s *Server) streamArtifact(w http.ResponseWriter, op string, a *dispatch.Artifact) {
    if a.Workspace != "" {
        defer func() {
            if err := os.RemoveAll(a.Workspace); err != nil {
                log.Warn().Err(err).Str("workspace", a.Workspace).Msg("workspace cleanup failed")
            }
        }()
    }

    f, err := os.Open(a.Path)
    if err != nil {
        writeError(w, &dispatch.StorageError{Cause: err})
        return
    }
    defer f.Close()

    w.Header().Set("Content-Type", a.ContentType)
    w.Header().Set("Content-Disposition", contentDisposition(a.DownloadName))
    n, err := io.Copy(w, f)
    if err != nil {
        log.Warn().Err(err).Str("artifact", a.Path).Msg("artifact stream interrupted")
        return
    }
    metrics.AddArtifactBytes(op, n)
}

type textResponse struct {
    Text string `json:"text"`
}

func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    start := time.Now()
    up, closeFile, err := formFile(r)
    if err != nil {
        s.record(r.Context(), "extract-text", "", "", start, err)
        writeError(w, err)
        return
    }
    defer closeFile()

    text, err := s.dispatcher.ExtractText(r.Context(), up)
    s.record(r.Context(), "extract-text", up.Filename, "", start, err)
    if err != nil {
        log.Error().Err(err).Str("file", up.Filename).Msg("text extraction failed")
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, textResponse{Text: text})
}

func (s *Server) handleExtractTextFromCSV(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    start := time.Now()
    up, closeFile, err := formFile(r)
    if err != nil {
        s.record(r.Context(), "extract-text-from-csv", "", "", start, err)
        writeError(w, err)
        return
    }
    defer closeFile()

    delimiter := r.FormValue("delimiter")
    text, err := s.dispatcher.ExtractTextFromCSV(r.Context(), up, delimiter)
    s.record(r.Context(), "extract-text-from-csv", up.Filename, "", start, err)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, textResponse{Text: text})
}

type textToCSVResponse struct {
    Success     bool   `json:"success"`
    Message     string `json:"message"`
    CSVContent  string `json:"csv_content"`
    FilePath    string `json:"file_path"`
    DownloadURL string `json:"download_url"`
}

func (s *Server) handleTextToCSV(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    start := time.Now()
    text := r.FormValue("text")
    delimiter := r.FormValue("delimiter")
    if delimiter == "" {
        delimiter = "auto"
    }

    res, err := s.dispatcher.TextToCSV(r.Context(), text, delimiter)
    s.record(r.Context(), "text-to-csv", "", resultFilename(res), start, err)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, textToCSVResponse{
        Success:     true,
        Message:     "Text converted to CSV successfully",
        CSVContent:  res.CSVContent,
        FilePath:    res.Path,
        DownloadURL: "/api/download/" + res.Filename,
    })
}

func resultFilename(res *dispatch.TextToCSVResult) string {
    if res == nil {
        return ""
    }
    return res.Filename
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    filename := strings.TrimPrefix(r.URL.Path, "/api/download/")
    path, err := s.dispatcher.Download(filename)
    if err != nil {
        writeError(w, err)
        return
    }

    contentType := "application/octet-stream"
    if mt, err := mimetype.DetectFile(path); err == nil {
        contentType = mt.String()
    }
    w.Header().Set("Content-Type", contentType)
    w.Header().Set("Content-Disposition", contentDisposition(filename))
    http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    writeJSON(w, http.StatusOK, map[string]string{
        "status":    "healthy",
        "timestamp": time.Now().UTC().Format(time.RFC3339),
    })
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    if s.checker == nil {
        writeJSON(w, http.StatusOK, map[string]string{"status": "unknown"})
        return
    }
    writeJSON(w, http.StatusOK, s.checker.Summary(r.Context()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    if s.history == nil {
        writeJSON(w, http.StatusOK, []history.Entry{})
        return
    }
    entries, err := s.history.Recent(r.Context(), 50)
    if err != nil {
        writeError(w, &dispatch.StorageError{Cause: err})
        return
    }
    if entries == nil {
        entries = []history.Entry{}
    }
    writeJSON(w, http.StatusOK, entries)
}
