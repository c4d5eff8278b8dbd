package convert

import (
    "encoding/csv"
    "os"
    "path/filepath"
    "regexp"
    "strings"

    "github.com/rs/zerolog/log"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// delimiterSpec is the resolved pair of input-split and CSV-output
// delimiters. Space mode splits on whitespace runs but writes commas.
type delimiterSpec struct {
    input      string
    output     rune
    splitRegex bool
}

// resolveDelimiter maps a delimiter token to concrete split/output behavior:
// "tab"/"\t" means tab for both; "space" splits on whitespace runs and
// outputs commas; "auto" inspects the first non-blank line for tab, then
// semicolon, then comma, defaulting to space mode; anything else is used
// verbatim on both sides.
func resolveDelimiter(token, firstLine string) delimiterSpec {
    switch token {
    case "tab", `\t`:
        return delimiterSpec{input: "\t", output: '\t'}
    case "space":
        return delimiterSpec{input: " ", output: ',', splitRegex: true}
    case "auto":
        switch {
        case strings.Contains(firstLine, "\t"):
            return delimiterSpec{input: "\t", output: '\t'}
        case strings.Contains(firstLine, ";"):
            return delimiterSpec{input: ";", output: ';'}
        case strings.Contains(firstLine, ","):
            return delimiterSpec{input: ",", output: ','}
        default:
            return delimiterSpec{input: " ", output: ',', splitRegex: true}
        }
    default:
        out := ','
        for _, r := range token {
            out = r
            break
        }
        return delimiterSpec{input: token, output: out}
    }
}

// TextToCSV converts free text, one record per non-blank line, into a CSV
// file at outputPath. Cells are trimmed before writing. Fully blank input
// fails with EmptyInputError.
func TextToCSV(text, outputPath, delimiter string) error {
    var lines []string
    for _, line := range strings.Split(text, "\n") {
        if trimmed := strings.TrimSpace(line); trimmed != "" {
            lines = append(lines, trimmed)
        }
    }
    if len(lines) == 0 {
        return &EmptyInputError{}
    }

    spec := resolveDelimiter(delimiter, lines[0])
    log.Debug().
        Str("token", delimiter).
        Str("input_delimiter", spec.input).
        Str("output_delimiter", string(spec.output)).
        Msg("resolved CSV delimiters")

    if dir := filepath.Dir(outputPath); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil {
            return &ConversionError{Op: "text-to-csv", Reason: "create output dir", Cause: err}
        }
    }
    f, err := os.Create(outputPath)
    if err != nil {
        return &ConversionError{Op: "text-to-csv", Reason: "create output file", Cause: err}
    }
    defer f.Close()

    w := csv.NewWriter(f)
    w.Comma = spec.output
    for _, line := range lines {
        var cells []string
        if spec.splitRegex {
            cells = whitespaceRun.Split(line, -1)
        } else {
            cells = strings.Split(line, spec.input)
        }
        for i := range cells {
            cells[i] = strings.TrimSpace(cells[i])
        }
        if err := w.Write(cells); err != nil {
            return &ConversionError{Op: "text-to-csv", Reason: "write row", Cause: err}
        }
    }
    w.Flush()
    if err := w.Error(); err != nil {
        return &ConversionError{Op: "text-to-csv", Reason: "flush output", Cause: err}
    }

    log.Info().Str("output", outputPath).Int("rows", len(lines)).Msg("text converted to CSV")
    return nil
}
