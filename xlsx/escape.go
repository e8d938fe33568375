package xlsx

import (
	"strings"
	"unicode/utf8"
)

// The apostrophe is written as a numeric reference because some spreadsheet
// readers mishandle a raw one inside attribute values.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeXML escapes s for use in XML element content and attribute values.
// Invalid UTF-8 and code points XML 1.0 does not allow become U+FFFD.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(replaceIllegalXMLChars(s))
}

func replaceIllegalXMLChars(s string) string {
	i := firstIllegalXMLChar(s)
	if i < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteString(s[:i])
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || !isXMLChar(r) {
			r = utf8.RuneError
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

// firstIllegalXMLChar returns the byte offset of the first invalid UTF-8
// sequence or disallowed code point in s, or -1.
func firstIllegalXMLChar(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || !isXMLChar(r) {
			return i
		}
		i += size
	}
	return -1
}

// isXMLChar reports whether r matches the Char production of XML 1.0.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= utf8.MaxRune:
		return true
	}
	return false
}

// IsValidUTF8 reports whether b is well-formed UTF-8.
func IsValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}

// needsSpacePreserve reports whether s has leading or trailing whitespace that
// readers would otherwise collapse.
func needsSpacePreserve(s string) bool {
	if s == "" {
		return false
	}
	return isXMLSpace(s[0]) || isXMLSpace(s[len(s)-1])
}

func isXMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
