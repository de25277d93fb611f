// Package normalize holds the small value parsers shared by all statement formats.
package normalize

import (
	"regexp"
	"strings"
)

var innPattern = regexp.MustCompile(`(?i)[,\s]+(?:ИНН|INN)[:\s]+(\d+)`)

// SplitCounterparty splits a combined "Name, ИНН: 1234567890" string into
// name and tax id. When no tax id is embedded, the whole trimmed string is the name.
func SplitCounterparty(s string) (name, inn string) {
	s = strings.TrimSpace(s)
	loc := innPattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, ""
	}
	return strings.TrimSpace(s[:loc[0]]), s[loc[2]:loc[3]]
}

// CollapseSpaces trims s and replaces runs of whitespace with a single space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
