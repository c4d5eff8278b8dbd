package extract

import (
    "archive/zip"
    "os"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func writeDocx(t *testing.T, documentXML string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "test.docx")
    f, err := os.Create(path)
    require.NoError(t, err)
    defer f.Close()

    zw := zip.NewWriter(f)
    w, err := zw.Create("word/document.xml")
    require.NoError(t, err)
    _, err = w.Write([]byte(documentXML))
    require.NoError(t, err)
    require.NoError(t, zw.Close())
    return path
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Title</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>First </w:t></w:r>
      <w:r><w:t>paragraph.</w:t></w:r>
    </w:p>
    <w:p/>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading2"/></w:pPr>
      <w:r><w:t>Sub</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

func TestDOCXParagraphs(t *testing.T) {
    path := writeDocx(t, sampleDocumentXML)
    paras, err := DOCXParagraphs(path)
    require.NoError(t, err)
    require.Len(t, paras, 4)

    assert.Equal(t, "Title", paras[0].Text)
    assert.Equal(t, "Heading1", paras[0].Style)
    assert.Equal(t, 1, paras[0].HeadingLevel())

    assert.Equal(t, "First paragraph.", paras[1].Text)
    assert.Equal(t, 0, paras[1].HeadingLevel())

    assert.Equal(t, "", paras[2].Text)

    assert.Equal(t, "Sub", paras[3].Text)
    assert.Equal(t, 2, paras[3].HeadingLevel())
}

func TestDOCXOneParagraphPerLine(t *testing.T) {
    path := writeDocx(t, sampleDocumentXML)
    text, err := DOCX(path)
    require.NoError(t, err)
    // empty paragraphs still contribute an empty line
    assert.Equal(t, "Title\nFirst paragraph.\n\nSub", text)
}

func TestDOCXMissingDocumentXML(t *testing.T) {
    path := filepath.Join(t.TempDir(), "broken.docx")
    f, err := os.Create(path)
    require.NoError(t, err)
    zw := zip.NewWriter(f)
    require.NoError(t, zw.Close())
    require.NoError(t, f.Close())

    _, err = DOCX(path)
    var exErr *ExtractionError
    require.ErrorAs(t, err, &exErr)
    assert.Equal(t, "docx", exErr.Format)
}

func TestDOCXNotAnArchive(t *testing.T) {
    path := filepath.Join(t.TempDir(), "plain.docx")
    require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

    _, err := DOCX(path)
    var exErr *ExtractionError
    require.ErrorAs(t, err, &exErr)
}

func TestHeadingLevelVariants(t *testing.T) {
    assert.Equal(t, 1, Paragraph{Style: "Titre1"}.HeadingLevel())
    assert.Equal(t, 2, Paragraph{Style: "Heading 2"}.HeadingLevel())
    assert.Equal(t, 0, Paragraph{Style: "Heading3"}.HeadingLevel())
    assert.Equal(t, 0, Paragraph{Style: "Normal"}.HeadingLevel())
    assert.Equal(t, 0, Paragraph{}.HeadingLevel())
}
