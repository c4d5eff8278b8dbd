package extract

import (
    "bytes"
    "encoding/csv"
    "strings"
    "text/tabwriter"

    "github.com/rs/zerolog/log"
    "github.com/xuri/excelize/v2"
)

// XLSX extracts text from every sheet in workbook order. Each sheet emits a
// "=== Sheet: <name> ===" header followed by a whitespace-aligned table of its
// rows; if that rendering fails, a CSV rendering is tried, then a plain
// tab-joined dump. An empty sheet emits "(Sheet empty)". Sheets are joined
// with a blank line and the result is BMP-filtered.
func XLSX(path string) (string, error) {
    f, err := excelize.OpenFile(path)
    if err != nil {
        return "", &ExtractionError{Format: "xlsx", Cause: err}
    }
    defer f.Close()

    var blocks []string
    for _, sheet := range f.GetSheetList() {
        rows, err := f.GetRows(sheet)
        if err != nil {
            return "", &ExtractionError{Format: "xlsx", Cause: err}
        }

        blocks = append(blocks, sheetHeader(sheet))
        if len(rows) == 0 {
            blocks = append(blocks, emptySheetMarker)
            continue
        }
        blocks = append(blocks, renderRows(sheet, rows))
    }

    return filterBMP(strings.Join(blocks, "\n\n")), nil
}

const emptySheetMarker = "(Sheet empty)"

func sheetHeader(name string) string {
    return "=== Sheet: " + name + " ==="
}

// renderRows renders a sheet as an aligned table, falling back to CSV and
// finally a tab-joined dump when a rendering stage fails.
func renderRows(sheet string, rows [][]string) string {
    if text, err := renderAligned(rows); err == nil {
        return text
    } else {
        log.Warn().Err(err).Str("sheet", sheet).Msg("aligned rendering failed, trying CSV")
    }
    if text, err := renderCSV(rows); err == nil {
        return text
    } else {
        log.Warn().Err(err).Str("sheet", sheet).Msg("CSV rendering failed, using tab dump")
    }
    return renderTabs(rows)
}

func renderAligned(rows [][]string) (string, error) {
    var buf bytes.Buffer
    w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
    for _, row := range rows {
        if _, err := w.Write([]byte(strings.Join(row, "\t") + "\n")); err != nil {
            return "", err
        }
    }
    if err := w.Flush(); err != nil {
        return "", err
    }
    return strings.TrimRight(buf.String(), "\n"), nil
}

func renderCSV(rows [][]string) (string, error) {
    var buf bytes.Buffer
    w := csv.NewWriter(&buf)
    if err := w.WriteAll(rows); err != nil {
        return "", err
    }
    return strings.TrimRight(buf.String(), "\n"), nil
}

func renderTabs(rows [][]string) string {
    lines := make([]string, len(rows))
    for i, row := range rows {
        lines[i] = strings.Join(row, "\t")
    }
    return strings.Join(lines, "\n")
}
