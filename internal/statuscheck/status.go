package statuscheck

import (
    "context"
    "errors"
    "os"
    "os/exec"
    "time"

    "github.com/local/docconvert/internal/config"
)

// Pinger models the minimal reachability capability we need for status checks.
type Pinger interface {
    Ping(ctx context.Context) error
}

// Checker aggregates readiness checks for the external tools and services
// the conversion pipeline depends on.
type Checker struct {
    redis      Pinger
    mirror     Pinger
    ocr        config.OCRConfig
    storageDir string
}

// Options configures the Checker. Redis and Mirror may be nil when the
// corresponding feature is not configured.
type Options struct {
    Redis      Pinger
    Mirror     Pinger
    OCR        config.OCRConfig
    StorageDir string
}

// Status represents the readiness of a subsystem.
type Status struct {
    OK      bool   `json:"ok"`
    Message string `json:"message"`
}

// Summary bundles all subsystem statuses.
type Summary struct {
    LibreOffice Status `json:"libreoffice"`
    Tesseract   Status `json:"tesseract"`
    MuPDF       Status `json:"mupdf"`
    Storage     Status `json:"storage"`
    Redis       Status `json:"redis"`
    S3          Status `json:"s3"`
}

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
    return &Checker{
        redis:      opts.Redis,
        mirror:     opts.Mirror,
        ocr:        opts.OCR,
        storageDir: opts.StorageDir,
    }
}

// Summary returns the current status snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
    return Summary{
        LibreOffice: checkBinary("soffice"),
        Tesseract:   c.checkTesseract(),
        MuPDF:       Status{OK: true, Message: "Embedded"},
        Storage:     c.checkStorage(),
        Redis:       c.checkPinger(ctx, c.redis, "History disabled"),
        S3:          c.checkPinger(ctx, c.mirror, "Mirroring disabled"),
    }
}

func (c *Checker) checkTesseract() Status {
    binary := c.ocr.Binary
    if binary == "" {
        binary = "tesseract"
    }
    return checkBinary(binary)
}

func (c *Checker) checkStorage() Status {
    if c.storageDir == "" {
        return Status{OK: false, Message: "Not configured"}
    }
    info, err := os.Stat(c.storageDir)
    if err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    if !info.IsDir() {
        return Status{OK: false, Message: "Not a directory"}
    }
    return Status{OK: true, Message: "Writable"}
}

func (c *Checker) checkPinger(ctx context.Context, p Pinger, disabledMsg string) Status {
    if p == nil {
        return Status{OK: false, Message: disabledMsg}
    }
    ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    if err := p.Ping(ctx); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Connected"}
}

func checkBinary(name string) Status {
    if _, err := exec.LookPath(name); err != nil {
        return Status{OK: false, Message: "Binary not found"}
    }
    return Status{OK: true, Message: "Available"}
}

func trimError(err error) string {
    if err == nil {
        return ""
    }
    var netErr interface{ Timeout() bool }
    if errors.As(err, &netErr) && netErr.Timeout() {
        return "timeout"
    }
    msg := err.Error()
    if len(msg) > 120 {
        return msg[:120]
    }
    return msg
}
