package format

import (
    "path/filepath"
    "strings"
)

// Tag identifies which extractor or converter applies to a file.
type Tag string

const (
    PDF         Tag = "pdf"
    DOCX        Tag = "docx"
    DOC         Tag = "doc"
    XLSX        Tag = "xlsx"
    XLS         Tag = "xls"
    CSV         Tag = "csv"
    TXT         Tag = "txt"
    Image       Tag = "image"
    Unsupported Tag = "unsupported"
)

var imageExtensions = map[string]bool{
    "png": true, "jpg": true, "jpeg": true, "bmp": true, "tiff": true, "tif": true,
}

// Classify maps a filename to a Tag by its extension. It is total: unknown
// or missing extensions classify as Unsupported, never an error.
func Classify(filename string) Tag {
    switch ext := Extension(filename); ext {
    case "pdf":
        return PDF
    case "docx":
        return DOCX
    case "doc":
        return DOC
    case "xlsx":
        return XLSX
    case "xls":
        return XLS
    case "csv":
        return CSV
    case "txt":
        return TXT
    default:
        if imageExtensions[ext] {
            return Image
        }
        return Unsupported
    }
}

// Extension returns the filename's extension, lowercased, without the dot.
func Extension(filename string) string {
    return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
