package convert

import (
    "context"
    "fmt"
    "os"
    "os/exec"
    "path/filepath"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog/log"
)

// sofficeBackend converts documents to PDF by driving an office-suite binary
// in headless mode. Two instances cover the "native word processor" and
// "headless office suite" tiers, they differ only in the binary driven.
type sofficeBackend struct {
    binary  string
    timeout time.Duration
    sem     chan struct{}
}

func newSofficeBackend(binary string, timeout time.Duration, maxConcurrent int) *sofficeBackend {
    if maxConcurrent <= 0 {
        maxConcurrent = 2
    }
    if timeout <= 0 {
        timeout = 3 * time.Minute
    }
    return &sofficeBackend{
        binary:  binary,
        timeout: timeout,
        sem:     make(chan struct{}, maxConcurrent),
    }
}

func (b *sofficeBackend) Name() string { return b.binary }

// Convert runs "<binary> --headless --convert-to pdf" on the input and moves
// the produced file to outputPath. Each run gets its own profile directory so
// concurrent conversions do not fight over the user installation lock.
func (b *sofficeBackend) Convert(ctx context.Context, inputPath, outputPath string) error {
    if _, err := exec.LookPath(b.binary); err != nil {
        return fmt.Errorf("%s not found in PATH: %w", b.binary, err)
    }

    b.sem <- struct{}{}
    defer func() { <-b.sem }()

    if err := validateInput(inputPath); err != nil {
        return fmt.Errorf("input validation failed: %w", err)
    }
    if protected := b.isPasswordProtected(inputPath); protected {
        return fmt.Errorf("document is password protected")
    }

    profileDir := filepath.Join(os.TempDir(), "soffice_profile_"+uuid.NewString())
    if err := os.MkdirAll(profileDir, 0o755); err != nil {
        return fmt.Errorf("create profile dir: %w", err)
    }
    defer os.RemoveAll(profileDir)

    outputDir := filepath.Dir(outputPath)
    if err := os.MkdirAll(outputDir, 0o755); err != nil {
        return fmt.Errorf("create output dir: %w", err)
    }

    ctx, cancel := context.WithTimeout(ctx, b.timeout)
    defer cancel()

    cmd := exec.CommandContext(
        ctx,
        b.binary,
        fmt.Sprintf("-env:UserInstallation=file://%s", profileDir),
        "--headless",
        "--convert-to", "pdf",
        "--outdir", outputDir,
        inputPath,
    )
    log.Debug().Str("cmd", strings.Join(cmd.Args, " ")).Msg("office conversion command")

    start := time.Now()
    if out, err := cmd.CombinedOutput(); err != nil {
        if ctx.Err() == context.DeadlineExceeded {
            return fmt.Errorf("conversion timeout after %v", b.timeout)
        }
        return fmt.Errorf("conversion failed: %w: %s", err, strings.TrimSpace(string(out)))
    }

    // The suite names the output after the input file; move it where we want it.
    produced := expectedOutputPath(inputPath, outputDir)
    if produced != outputPath {
        if err := os.Rename(produced, outputPath); err != nil {
            return fmt.Errorf("output file not created: %w", err)
        }
    }
    if _, err := os.Stat(outputPath); err != nil {
        return fmt.Errorf("output file not created: %w", err)
    }

    log.Info().
        Str("backend", b.binary).
        Str("output", outputPath).
        Dur("duration", time.Since(start)).
        Msg("office conversion successful")
    return nil
}

// isPasswordProtected does a quick headless probe for encryption markers.
func (b *sofficeBackend) isPasswordProtected(inputPath string) bool {
    cmd := exec.Command(b.binary, "--headless", "--cat", inputPath)
    out, err := cmd.CombinedOutput()
    if err == nil {
        return false
    }
    s := strings.ToLower(string(out))
    return strings.Contains(s, "password") ||
        strings.Contains(s, "encrypted") ||
        strings.Contains(s, "protected")
}

func validateInput(path string) error {
    info, err := os.Stat(path)
    if err != nil {
        return fmt.Errorf("file not found: %w", err)
    }
    if info.IsDir() {
        return fmt.Errorf("path is a directory, not a file")
    }
    if info.Size() == 0 {
        return fmt.Errorf("file is empty")
    }
    f, err := os.Open(path)
    if err != nil {
        return fmt.Errorf("file not readable: %w", err)
    }
    f.Close()
    return nil
}

func expectedOutputPath(inputPath, outputDir string) string {
    base := filepath.Base(inputPath)
    name := strings.TrimSuffix(base, filepath.Ext(base))
    return filepath.Join(outputDir, name+".pdf")
}
