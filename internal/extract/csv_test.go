package extract

import (
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
    cases := []struct {
        name   string
        sample string
        want   rune
    }{
        {"comma", "a,b,c\n1,2,3\n", ','},
        {"semicolon", "a;b;c\n1;2;3\n", ';'},
        {"tab", "a\tb\tc\n", '\t'},
        {"pipe", "a|b|c\n", '|'},
        {"none defaults to comma", "one two three", ','},
        {"majority wins", "a;b,c;d\n1;2;3;4\n", ';'},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, DetectDelimiter(tc.sample))
        })
    }
}

func TestCSVAlignedRendering(t *testing.T) {
    path := filepath.Join(t.TempDir(), "data.csv")
    require.NoError(t, os.WriteFile(path, []byte("name;city\nalice;paris\nbob;lyon\n"), 0o644))

    text, err := CSV(path)
    require.NoError(t, err)

    lines := strings.Split(text, "\n")
    require.Len(t, lines, 3)
    assert.Contains(t, lines[0], "name")
    assert.Contains(t, lines[0], "city")
    assert.Contains(t, lines[1], "alice")
    assert.Contains(t, lines[2], "lyon")
    // aligned output pads with spaces, no raw delimiter remains
    assert.NotContains(t, text, ";")
}

func TestCSVForcedDelimiter(t *testing.T) {
    // commas dominate the sample, but the caller's delimiter wins
    path := filepath.Join(t.TempDir(), "forced.csv")
    require.NoError(t, os.WriteFile(path, []byte("a,b;c,d\n1,2;3,4\n"), 0o644))

    text, err := CSVWithDelimiter(path, ';')
    require.NoError(t, err)
    lines := strings.Split(text, "\n")
    require.Len(t, lines, 2)
    assert.Contains(t, lines[0], "a,b")
    assert.Contains(t, lines[0], "c,d")
}

func TestCSVVariableFieldCounts(t *testing.T) {
    path := filepath.Join(t.TempDir(), "ragged.csv")
    require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2\nx,y,z,w\n"), 0o644))

    text, err := CSV(path)
    require.NoError(t, err)
    assert.Contains(t, text, "w")
}

func TestCSVMissingFile(t *testing.T) {
    _, err := CSV(filepath.Join(t.TempDir(), "missing.csv"))
    var exErr *ExtractionError
    require.ErrorAs(t, err, &exErr)
    assert.Equal(t, "csv", exErr.Format)
}
