// Package sanitize cleans user supplied strings before validation and storage.
package sanitize

import "strings"

// String removes every ASCII control character (U+0000..U+001F and U+007F)
// and then trims surrounding whitespace. String(String(s)) == String(s).
func String(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}
