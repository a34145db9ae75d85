package discogs

import (
	"strings"
	"unicode/utf8"
)

// FormatKey turns a ROOT_QUERY field-call key into the key the referenced
// record is stored under in data:
//
//	release({"discogsId":624390}) -> Release:{"discogsId":624390}
func FormatKey(raw string) string {
	s := capitalize(raw)
	s = strings.ReplaceAll(s, "discogsid", "discogsId")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	if i := strings.IndexByte(s, '{'); i >= 0 {
		s = s[:i] + ":" + s[i:]
	}
	return s
}

// capitalize upper-cases the first character and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return strings.ToLower(s)
	}
	return strings.ToUpper(string(r)) + strings.ToLower(s[size:])
}
