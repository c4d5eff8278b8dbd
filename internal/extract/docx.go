package extract

import (
    "archive/zip"
    "encoding/xml"
    "fmt"
    "io"
    "strings"

    "github.com/rs/zerolog/log"
)

// Paragraph is one paragraph of a word-processing document, with the raw
// style identifier from the document (e.g. "Heading1", "Titre2", "Normal").
type Paragraph struct {
    Text  string
    Style string
}

// DOCX extracts paragraph text, one paragraph per line, in document order.
// Empty paragraphs still contribute an empty line.
func DOCX(path string) (string, error) {
    paras, err := DOCXParagraphs(path)
    if err != nil {
        return "", err
    }
    lines := make([]string, len(paras))
    for i, p := range paras {
        lines[i] = p.Text
    }
    text := strings.Join(lines, "\n")
    log.Debug().Str("docx", path).Int("paragraphs", len(paras)).Msg("extracted DOCX text")
    return text, nil
}

// DOCXParagraphs parses word/document.xml out of the DOCX archive and returns
// every paragraph with its style. Used both for plain extraction and for the
// paragraph-level PDF rebuild.
func DOCXParagraphs(path string) ([]Paragraph, error) {
    r, err := zip.OpenReader(path)
    if err != nil {
        return nil, &ExtractionError{Format: "docx", Cause: fmt.Errorf("open archive: %w", err)}
    }
    defer r.Close()

    var docFile *zip.File
    for _, f := range r.File {
        if f.Name == "word/document.xml" {
            docFile = f
            break
        }
    }
    if docFile == nil {
        return nil, &ExtractionError{Format: "docx", Cause: fmt.Errorf("word/document.xml not found in archive")}
    }

    rc, err := docFile.Open()
    if err != nil {
        return nil, &ExtractionError{Format: "docx", Cause: fmt.Errorf("open document.xml: %w", err)}
    }
    defer rc.Close()

    paras, err := parseDocumentXML(rc)
    if err != nil {
        return nil, &ExtractionError{Format: "docx", Cause: err}
    }
    return paras, nil
}

func parseDocumentXML(r io.Reader) ([]Paragraph, error) {
    decoder := xml.NewDecoder(r)

    var paras []Paragraph
    var current strings.Builder
    var style string
    var inParagraph, inText bool

    for {
        tok, err := decoder.Token()
        if err == io.EOF {
            break
        }
        if err != nil {
            return nil, fmt.Errorf("parse document.xml: %w", err)
        }

        switch t := tok.(type) {
        case xml.StartElement:
            switch t.Name.Local {
            case "p":
                inParagraph = true
                current.Reset()
                style = ""
            case "pStyle":
                if inParagraph {
                    for _, attr := range t.Attr {
                        if attr.Name.Local == "val" {
                            style = attr.Value
                        }
                    }
                }
            case "t":
                inText = inParagraph
            case "tab":
                if inParagraph {
                    current.WriteByte('\t')
                }
            case "br":
                if inParagraph {
                    current.WriteByte('\n')
                }
            }

        case xml.CharData:
            if inText {
                current.Write(t)
            }

        case xml.EndElement:
            switch t.Name.Local {
            case "t":
                inText = false
            case "p":
                if inParagraph {
                    inParagraph = false
                    paras = append(paras, Paragraph{Text: current.String(), Style: style})
                }
            }
        }
    }
    return paras, nil
}

// HeadingLevel reports the heading level a paragraph style maps to:
// 1 for "Heading 1"/"Heading1"/"Titre1", 2 for the level-2 variants,
// 0 for everything else.
func (p Paragraph) HeadingLevel() int {
    s := strings.ToLower(strings.ReplaceAll(p.Style, " ", ""))
    for _, prefix := range []string{"heading", "titre"} {
        if strings.HasPrefix(s, prefix) {
            rest := s[len(prefix):]
            if rest == "1" {
                return 1
            }
            if rest == "2" {
                return 2
            }
        }
    }
    return 0
}
