package convert

import (
    "archive/zip"
    "bytes"
    "encoding/xml"
    "fmt"
    "os"
    "strings"
)

// docxBuilder assembles a minimal WordprocessingML package: content types,
// package relationships, a styles part defining the heading style, and the
// document body itself. This is the write-side mirror of the read path in
// the extract package, which walks word/document.xml the same way.
type docxBuilder struct {
    body strings.Builder
}

func newDocxBuilder() *docxBuilder {
    return &docxBuilder{}
}

// AddHeading appends a Heading1-styled paragraph.
func (d *docxBuilder) AddHeading(text string) {
    d.body.WriteString(`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr>`)
    d.writeRuns(text)
    d.body.WriteString(`</w:p>`)
}

// AddParagraph appends a normal paragraph. Newlines inside the text become
// line breaks within the paragraph.
func (d *docxBuilder) AddParagraph(text string) {
    d.body.WriteString(`<w:p>`)
    d.writeRuns(text)
    d.body.WriteString(`</w:p>`)
}

func (d *docxBuilder) writeRuns(text string) {
    lines := strings.Split(text, "\n")
    for i, line := range lines {
        if i > 0 {
            d.body.WriteString(`<w:r><w:br/></w:r>`)
        }
        d.body.WriteString(`<w:r><w:t xml:space="preserve">`)
        d.body.WriteString(escapeXML(line))
        d.body.WriteString(`</w:t></w:r>`)
    }
}

// WriteFile zips the package parts into a .docx file.
func (d *docxBuilder) WriteFile(path string) error {
    f, err := os.Create(path)
    if err != nil {
        return fmt.Errorf("create docx: %w", err)
    }
    defer f.Close()

    zw := zip.NewWriter(f)
    parts := []struct {
        name    string
        content string
    }{
        {"[Content_Types].xml", docxContentTypes},
        {"_rels/.rels", docxPackageRels},
        {"word/_rels/document.xml.rels", docxDocumentRels},
        {"word/styles.xml", docxStyles},
        {"word/document.xml", d.documentXML()},
    }
    for _, p := range parts {
        w, err := zw.Create(p.name)
        if err != nil {
            return fmt.Errorf("create part %s: %w", p.name, err)
        }
        if _, err := w.Write([]byte(p.content)); err != nil {
            return fmt.Errorf("write part %s: %w", p.name, err)
        }
    }
    if err := zw.Close(); err != nil {
        return fmt.Errorf("finalize docx: %w", err)
    }
    return nil
}

func (d *docxBuilder) documentXML() string {
    return xml.Header +
        `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
        d.body.String() +
        `</w:body></w:document>`
}

func escapeXML(s string) string {
    var buf bytes.Buffer
    _ = xml.EscapeText(&buf, []byte(s))
    return buf.String()
}

const docxContentTypes = xml.Header +
    `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
    `<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
    `<Default Extension="xml" ContentType="application/xml"/>` +
    `<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
    `<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
    `</Types>`

const docxPackageRels = xml.Header +
    `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
    `<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
    `</Relationships>`

const docxDocumentRels = xml.Header +
    `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
    `<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
    `</Relationships>`

const docxStyles = xml.Header +
    `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
    `<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
    `<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/>` +
    `<w:pPr><w:spacing w:before="240" w:after="120"/></w:pPr>` +
    `<w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>` +
    `</w:styles>`
