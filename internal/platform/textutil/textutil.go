package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean trims surrounding space and converts s to NFC so that the same surname
// typed on different terminals compares equal in exact-match lookups.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
