package evaluator

import "strings"

const frontmatterDelimiter = "---"

// ParseFrontmatter splits SKILL.md content into a flat key/value header and a
// body string. Only flat `key: value` lines are recognized; values are trimmed
// of whitespace and a single layer of surrounding quotes. A nil header map is
// returned when the frontmatter is absent or malformed, with the failure
// reported as an error Issue rather than a Go error.
func ParseFrontmatter(content string) (map[string]string, string, []Issue) {
	var issues []Issue

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     "NO_FRONTMATTER",
			Message:  "SKILL.md must start with YAML frontmatter (---)",
		})
		return nil, content, issues
	}

	parts := strings.SplitN(content, frontmatterDelimiter, 3)
	if len(parts) < 3 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     "MALFORMED_FRONTMATTER",
			Message:  "Missing closing --- for frontmatter",
		})
		return nil, content, issues
	}

	headerBlock := strings.TrimSpace(parts[1])
	body := strings.TrimSpace(parts[2])

	// A body that opens with another delimiter is almost always a copy-paste
	// mistake that duplicates the whole frontmatter block.
	if strings.HasPrefix(body, frontmatterDelimiter) {
		issues = append(issues, Issue{
			Severity:   SeverityError,
			Code:       "DUPLICATE_FRONTMATTER",
			Message:    "Duplicate YAML frontmatter block detected",
			Suggestion: "Remove the duplicate --- block",
		})
	}

	frontmatter := make(map[string]string)
	for _, line := range strings.Split(headerBlock, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		// Last occurrence wins for duplicate keys.
		frontmatter[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	return frontmatter, body, issues
}

// unquote strips one layer of surrounding double quotes, then one layer of
// surrounding single quotes.
func unquote(s string) string {
	s = trimQuote(s, `"`)
	return trimQuote(s, `'`)
}

func trimQuote(s, quote string) string {
	s = strings.TrimPrefix(s, quote)
	return strings.TrimSuffix(s, quote)
}
