package candidate

import (
	"regexp"
	"strings"
)

var techSeparators = regexp.MustCompile(`[,;\n]+`)

// ParseTechStack splits free text on commas, semicolons and newlines and
// returns the trimmed, non-empty pieces in their original order. Duplicates
// are kept.
func ParseTechStack(text string) []string {
	parts := techSeparators.Split(text, -1)

	techs := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		techs = append(techs, part)
	}

	return techs
}
