package extract

import "strings"

// filterBMP drops every code point at or above U+10000. Downstream XML-bearing
// formats only cope with the basic multilingual plane; out-of-range runes are
// removed, not substituted.
func filterBMP(s string) string {
    var b strings.Builder
    b.Grow(len(s))
    for _, r := range s {
        if r < 0x10000 {
            b.WriteRune(r)
        }
    }
    return b.String()
}
