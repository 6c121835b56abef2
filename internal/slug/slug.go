// SPDX-License-Identifier: MPL-2.0

// Package slug normalizes human-chosen names into filesystem and URL safe
// identifiers. The same rule is used for derived assignment identifiers and
// for page slugs inside object-reference tokens, so the two never disagree.
package slug

import (
	"regexp"
	"strings"
)

// nonAlnumRegex matches every run of characters that cannot appear in a slug.
var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases name, collapses each run of non-alphanumeric characters
// into a single hyphen, and trims leading/trailing hyphens.
func Make(name string) string {
	s := strings.ToLower(name)
	s = nonAlnumRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Stem returns the filename without its final extension, e.g.
// "week-01-homework.json" -> "week-01-homework".
func Stem(filename string) string {
	if i := strings.LastIndex(filename, "."); i > 0 {
		return filename[:i]
	}
	return filename
}
