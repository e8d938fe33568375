package internal

import "strings"

// SanitizeFilename removes control characters and characters that are not
// portable in file names.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		switch r {
		case '<', '>', '?', '"', ':', '|', '\\', '/', '*', '&':
			return -1
		}
		return r
	}, name)
}
