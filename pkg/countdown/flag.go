package countdown

import "strings"

// regionalIndicatorOffset maps 'A' onto U+1F1E6 REGIONAL INDICATOR SYMBOL LETTER A.
const regionalIndicatorOffset = 127397

// FlagEmoji turns a two-letter region code into its flag glyph. Callers must
// pass exactly two ASCII letters; other input is not checked.
func FlagEmoji(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		b.WriteRune(r + regionalIndicatorOffset)
	}
	return b.String()
}

func isRegionCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < 2; i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
