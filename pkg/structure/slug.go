package structure

import (
	"regexp"
	"strings"
)

var separatorRuns = regexp.MustCompile(`[\s/]+`)

// Slug derives a node id from its path. Distinct paths can collide
// ("A B" and "a/b" both give "a-b"); ids are for display keys only.
func Slug(path string) string {
	return separatorRuns.ReplaceAllString(strings.ToLower(path), "-")
}
