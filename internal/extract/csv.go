package extract

import (
    "bytes"
    "encoding/csv"
    "io"
    "os"
    "strings"
    "text/tabwriter"

    "github.com/rs/zerolog/log"
    "github.com/saintfish/chardet"
    "golang.org/x/text/encoding/htmlindex"
)

// csvDelimiters are the candidate delimiters, in tie-breaking order.
var csvDelimiters = []rune{',', ';', '\t', '|'}

// CSV extracts text from a CSV file. The byte encoding is sniffed
// statistically, the delimiter is picked by counting candidate occurrences in
// the first 4KB, and the parsed rows are rendered as a whitespace-aligned
// table. Malformed rows are skipped with a warning, not fatal.
func CSV(path string) (string, error) {
    return CSVWithDelimiter(path, 0)
}

// CSVWithDelimiter extracts text from a CSV file using the given delimiter.
// A zero delimiter means detect it from the content.
func CSVWithDelimiter(path string, delim rune) (string, error) {
    raw, err := os.ReadFile(path)
    if err != nil {
        return "", &ExtractionError{Format: "csv", Cause: err}
    }

    decoded := decodeBytes(raw)
    if delim == 0 {
        delim = DetectDelimiter(decoded)
        log.Debug().Str("csv", path).Str("delimiter", string(delim)).Msg("detected CSV delimiter")
    }

    r := csv.NewReader(strings.NewReader(decoded))
    r.Comma = delim
    r.FieldsPerRecord = -1

    var rows [][]string
    for {
        record, err := r.Read()
        if err == io.EOF {
            break
        }
        if err != nil {
            log.Warn().Err(err).Str("csv", path).Msg("skipping malformed CSV row")
            continue
        }
        rows = append(rows, record)
    }

    var buf bytes.Buffer
    w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
    for _, row := range rows {
        if _, err := w.Write([]byte(strings.Join(row, "\t") + "\n")); err != nil {
            return "", &ExtractionError{Format: "csv", Cause: err}
        }
    }
    if err := w.Flush(); err != nil {
        return "", &ExtractionError{Format: "csv", Cause: err}
    }
    return strings.TrimRight(buf.String(), "\n"), nil
}

// DetectDelimiter counts candidate delimiter occurrences in the first ~4KB
// and returns the most frequent one. Comma wins ties and the all-zero case.
func DetectDelimiter(sample string) rune {
    if len(sample) > 4096 {
        sample = sample[:4096]
    }
    best := ','
    bestCount := 0
    for _, d := range csvDelimiters {
        if n := strings.Count(sample, string(d)); n > bestCount {
            best = d
            bestCount = n
        }
    }
    return best
}

// decodeBytes sniffs the byte encoding and decodes to UTF-8. Unknown or
// undecodable encodings fall back to treating the input as UTF-8.
func decodeBytes(raw []byte) string {
    det, err := chardet.NewTextDetector().DetectBest(raw)
    if err != nil || det == nil {
        return string(raw)
    }
    enc, err := htmlindex.Get(strings.ToLower(det.Charset))
    if err != nil {
        log.Debug().Str("charset", det.Charset).Msg("no decoder for detected charset, using raw bytes")
        return string(raw)
    }
    decoded, err := enc.NewDecoder().Bytes(raw)
    if err != nil {
        return string(raw)
    }
    return string(decoded)
}
