package extract

import (
    "errors"
    "os"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/docconvert/internal/config"
)

func TestFilterBMP(t *testing.T) {
    assert.Equal(t, "hello", filterBMP("hello"))
    assert.Equal(t, "héllo", filterBMP("héllo"))
    // out-of-range code points are dropped, not substituted
    assert.Equal(t, "ab", filterBMP("a\U0001F600b"))
    assert.Equal(t, "", filterBMP("\U0001F680\U0001F681"))
    // U+FFFF is still in range, U+10000 is not
    assert.Equal(t, "￿", filterBMP("￿\U00010000"))
}

func TestTextReplacesInvalidUTF8(t *testing.T) {
    path := filepath.Join(t.TempDir(), "latin.txt")
    require.NoError(t, os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o644))

    text, err := Text(path)
    require.NoError(t, err)
    assert.Equal(t, "caf�", text)
}

func TestTextPlain(t *testing.T) {
    path := filepath.Join(t.TempDir(), "plain.txt")
    require.NoError(t, os.WriteFile(path, []byte("emoji stay: \U0001F600"), 0o644))

    text, err := Text(path)
    require.NoError(t, err)
    // plain text is not BMP-filtered
    assert.Equal(t, "emoji stay: \U0001F600", text)
}

func TestAnyUnsupported(t *testing.T) {
    e := New(config.OCRConfig{Language: "fra", Binary: "tesseract"})
    _, err := e.Any("/tmp/whatever.pptx")
    var unsupported *UnsupportedFormatError
    require.ErrorAs(t, err, &unsupported)
    assert.Equal(t, "pptx", unsupported.Extension)
}

func TestAnyDispatchesText(t *testing.T) {
    path := filepath.Join(t.TempDir(), "notes.TXT")
    require.NoError(t, os.WriteFile(path, []byte("ok"), 0o644))

    e := New(config.OCRConfig{Language: "fra", Binary: "tesseract"})
    text, err := e.Any(path)
    require.NoError(t, err)
    assert.Equal(t, "ok", text)
}

func TestImageOCRUnavailable(t *testing.T) {
    orig := lookPath
    lookPath = func(string) (string, error) { return "", errors.New("not found") }
    defer func() { lookPath = orig }()

    cfg := config.OCRConfig{Language: "fra", Binary: "tesseract"}
    assert.False(t, OCRAvailable(cfg))

    _, err := Image("scan.png", cfg)
    var exErr *ExtractionError
    require.ErrorAs(t, err, &exErr)
    assert.Equal(t, "image", exErr.Format)
}

func TestXLSInvalidFile(t *testing.T) {
    path := filepath.Join(t.TempDir(), "bogus.xls")
    require.NoError(t, os.WriteFile(path, []byte("not an xls"), 0o644))

    _, err := XLS(path)
    var exErr *ExtractionError
    require.ErrorAs(t, err, &exErr)
    assert.Equal(t, "xls", exErr.Format)
}

func TestPDFInvalidFile(t *testing.T) {
    path := filepath.Join(t.TempDir(), "bogus.pdf")
    require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

    _, err := PDF(path)
    var exErr *ExtractionError
    require.ErrorAs(t, err, &exErr)
    assert.Equal(t, "pdf", exErr.Format)
}
