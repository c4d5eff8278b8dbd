package extract

import (
    "fmt"
    "strings"

    "github.com/extrame/xls"
    "github.com/rs/zerolog/log"
)

// XLS extracts text from a legacy binary Excel workbook. Per-sheet structure
// matches XLSX ("=== Sheet: <name> ===" headers, blank line between sheets)
// but rows are always tab-joined; the first row is plain data like any other.
func XLS(path string) (string, error) {
    wb, err := xls.Open(path, "utf-8")
    if err != nil {
        return "", &ExtractionError{Format: "xls", Cause: err}
    }

    var blocks []string
    for i := 0; i < wb.NumSheets(); i++ {
        sheet := wb.GetSheet(i)
        if sheet == nil {
            return "", &ExtractionError{Format: "xls", Cause: fmt.Errorf("sheet %d unreadable", i)}
        }

        blocks = append(blocks, sheetHeader(sheet.Name))

        var lines []string
        for r := 0; r <= int(sheet.MaxRow); r++ {
            row := sheet.Row(r)
            if row == nil {
                continue
            }
            cells := make([]string, 0, row.LastCol()+1)
            for c := 0; c <= row.LastCol(); c++ {
                cells = append(cells, row.Col(c))
            }
            lines = append(lines, strings.Join(cells, "\t"))
        }
        if len(lines) == 0 {
            blocks = append(blocks, emptySheetMarker)
            continue
        }
        blocks = append(blocks, strings.Join(lines, "\n"))
    }

    log.Debug().Str("xls", path).Int("sheets", wb.NumSheets()).Msg("extracted XLS text")
    return filterBMP(strings.Join(blocks, "\n\n")), nil
}
