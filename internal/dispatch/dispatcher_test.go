package dispatch

import (
    "archive/zip"
    "context"
    "encoding/json"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/local/docconvert/internal/config"
    "github.com/local/docconvert/internal/convert"
    "github.com/local/docconvert/internal/extract"
    "github.com/local/docconvert/internal/filestore"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
    t.Helper()
    root := t.TempDir()
    store, err := filestore.New(config.StorageConfig{
        UploadDir: filepath.Join(root, "uploads"),
        OutputDir: filepath.Join(root, "output"),
        TempDir:   filepath.Join(root, "temp"),
    })
    require.NoError(t, err)
    return New(Options{
        Store:     store,
        Extractor: extract.New(config.OCRConfig{Language: "fra", Binary: "tesseract"}),
        DocxToPDF: convert.NewDocxToPDF(config.ConvertConfig{}),
    })
}

func TestSwapExtension(t *testing.T) {
    assert.Equal(t, "report.pdf", SwapExtension("report.docx", "pdf"))
    assert.Equal(t, "Report.docx", SwapExtension("Report.pdf", "docx"))
    assert.Equal(t, "a.b.pdf", SwapExtension("a.b.docx", "pdf"))
    assert.Equal(t, "noext.pdf", SwapExtension("noext", "pdf"))
    assert.Equal(t, "document.pdf", SwapExtension("", "pdf"))
}

func TestRequireExtension(t *testing.T) {
    d := newTestDispatcher(t)

    _, err := d.ConvertDocxToPDF(context.Background(), Upload{
        Filename: "file.pdf",
        Content:  strings.NewReader("x"),
    })
    var invalid *InvalidInputError
    require.ErrorAs(t, err, &invalid)
    assert.Contains(t, invalid.Message, "docx")

    _, err = d.ConvertPDFToImages(context.Background(), Upload{
        Filename: "file.docx",
        Content:  strings.NewReader("x"),
    })
    require.ErrorAs(t, err, &invalid)
}

func TestConvertPDFToImagesUnreadablePDF(t *testing.T) {
    d := newTestDispatcher(t)

    _, err := d.ConvertPDFToImages(context.Background(), Upload{
        Filename: "claims-to-be.pdf",
        Content:  strings.NewReader("not really a pdf"),
    })
    var convErr *convert.ConversionError
    require.ErrorAs(t, err, &convErr)
    assert.Equal(t, "pdf-to-images", convErr.Op)
}

func TestExtractTextPersistsJSONArtifact(t *testing.T) {
    d := newTestDispatcher(t)

    text, err := d.ExtractText(context.Background(), Upload{
        Filename: "notes.txt",
        Content:  strings.NewReader("hello world"),
    })
    require.NoError(t, err)
    assert.Equal(t, "hello world", text)

    entries, err := os.ReadDir(d.store.OutputDir())
    require.NoError(t, err)
    require.Len(t, entries, 1)
    assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))

    data, err := os.ReadFile(filepath.Join(d.store.OutputDir(), entries[0].Name()))
    require.NoError(t, err)
    var payload map[string]string
    require.NoError(t, json.Unmarshal(data, &payload))
    assert.Equal(t, "hello world", payload["text"])
}

func TestExtractTextUnsupported(t *testing.T) {
    d := newTestDispatcher(t)

    _, err := d.ExtractText(context.Background(), Upload{
        Filename: "slides.pptx",
        Content:  strings.NewReader("x"),
    })
    var unsupported *extract.UnsupportedFormatError
    require.ErrorAs(t, err, &unsupported)
}

func TestExtractTextFromCSVRequiresCSV(t *testing.T) {
    d := newTestDispatcher(t)

    _, err := d.ExtractTextFromCSV(context.Background(), Upload{
        Filename: "data.txt",
        Content:  strings.NewReader("a,b"),
    }, "auto")
    var invalid *InvalidInputError
    require.ErrorAs(t, err, &invalid)

    text, err := d.ExtractTextFromCSV(context.Background(), Upload{
        Filename: "data.csv",
        Content:  strings.NewReader("a,b\n1,2\n"),
    }, "auto")
    require.NoError(t, err)
    assert.Contains(t, text, "a")
    assert.Contains(t, text, "2")
}

func TestTextToCSVThroughDispatcher(t *testing.T) {
    d := newTestDispatcher(t)

    res, err := d.TextToCSV(context.Background(), "a,b\n1,2", "auto")
    require.NoError(t, err)
    assert.Equal(t, "a,b\n1,2\n", res.CSVContent)
    assert.True(t, strings.HasSuffix(res.Filename, ".csv"))

    // artifact is downloadable afterwards
    path, err := d.Download(res.Filename)
    require.NoError(t, err)
    assert.Equal(t, res.Path, path)
}

func TestTextToCSVEmpty(t *testing.T) {
    d := newTestDispatcher(t)
    _, err := d.TextToCSV(context.Background(), "  \n ", "auto")
    var emptyErr *convert.EmptyInputError
    require.ErrorAs(t, err, &emptyErr)
}

func TestDownloadRejectsTraversal(t *testing.T) {
    d := newTestDispatcher(t)

    for _, name := range []string{"", "../secret", "a/b.txt", "..%2Fx"} {
        _, err := d.Download(name)
        require.Error(t, err, "name %q", name)
    }

    _, err := d.Download("missing.pdf")
    var notFound *NotFoundError
    require.ErrorAs(t, err, &notFound)
    assert.Equal(t, "missing.pdf", notFound.Filename)
}

func TestZipFilesUsesBaseNames(t *testing.T) {
    dir := t.TempDir()
    sub := filepath.Join(dir, "nested", "deeper")
    require.NoError(t, os.MkdirAll(sub, 0o755))

    p1 := filepath.Join(sub, "page_1.png")
    p2 := filepath.Join(sub, "page_2.png")
    require.NoError(t, os.WriteFile(p1, []byte("one"), 0o644))
    require.NoError(t, os.WriteFile(p2, []byte("two"), 0o644))

    zipPath := filepath.Join(dir, "out.zip")
    require.NoError(t, zipFiles([]string{p1, p2}, zipPath))

    zr, err := zip.OpenReader(zipPath)
    require.NoError(t, err)
    defer zr.Close()

    require.Len(t, zr.File, 2)
    assert.Equal(t, "page_1.png", zr.File[0].Name)
    assert.Equal(t, "page_2.png", zr.File[1].Name)
    for _, f := range zr.File {
        assert.NotContains(t, f.Name, "/")
    }
}
