package util

import (
	"errors"
	"strings"
	"unicode"
)

// MaxFileNameRunes caps stored object names.
const MaxFileNameRunes = 100

// ErrInvalidFileName is returned for empty or traversal-like names.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName makes name safe as the last segment of a storage key:
// separators and whitespace become "_", control characters are dropped and
// the result is capped at MaxFileNameRunes. Names containing ".." are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	var b strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(name) {
		if n == MaxFileNameRunes {
			break
		}
		switch {
		case r == '/', r == '\\', unicode.IsSpace(r):
			b.WriteRune('_')
		case unicode.IsControl(r):
			continue
		default:
			b.WriteRune(r)
		}
		n++
	}
	if b.Len() == 0 {
		return "", ErrInvalidFileName
	}
	return b.String(), nil
}
