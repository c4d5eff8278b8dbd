package extract

import (
    "bytes"
    "fmt"
    "os/exec"
    "strings"

    "github.com/rs/zerolog/log"

    "github.com/local/docconvert/internal/config"
)

// lookPath is the exec.LookPath implementation used to probe for the OCR
// binary. Tests may replace it to simulate a missing install.
var lookPath = exec.LookPath

// OCRAvailable reports whether the configured OCR binary is on PATH.
func OCRAvailable(cfg config.OCRConfig) bool {
    _, err := lookPath(cfg.Binary)
    return err == nil
}

// Image runs OCR over an image file and returns the recognized text.
// The recognition language comes from configuration.
func Image(path string, cfg config.OCRConfig) (string, error) {
    if !OCRAvailable(cfg) {
        return "", &ExtractionError{
            Format: "image",
            Cause:  fmt.Errorf("%s not found in PATH", cfg.Binary),
        }
    }

    cmd := exec.Command(cfg.Binary, path, "stdout", "-l", cfg.Language)
    var out, stderr bytes.Buffer
    cmd.Stdout = &out
    cmd.Stderr = &stderr
    if err := cmd.Run(); err != nil {
        return "", &ExtractionError{
            Format: "image",
            Cause:  fmt.Errorf("ocr failed: %w: %s", err, strings.TrimSpace(stderr.String())),
        }
    }

    text := out.String()
    log.Debug().Str("image", path).Str("lang", cfg.Language).Int("chars", len(text)).Msg("OCR complete")
    return text, nil
}
