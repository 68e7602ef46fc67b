package pdf

import "strings"

// ParseIdentifiers splits a pasted block of identifiers into lines.
// Surrounding whitespace is trimmed from the block and from each line, and
// blank lines are skipped. Order and duplicates are preserved.
func ParseIdentifiers(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var identifiers []string
	for _, line := range strings.FieldsFunc(raw, isLineBreak) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		identifiers = append(identifiers, line)
	}
	return identifiers
}

// isLineBreak reports whether r ends a line. Besides CR and LF this covers
// the vertical tab, form feed, file/group/record separators, NEL and the
// Unicode line and paragraph separators that office suites paste.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// FindPage returns the 1-based number of the first page whose text contains
// identifier, ignoring case.
func FindPage(pages []string, identifier string) (int, bool) {
	needle := strings.ToLower(identifier)
	for i, text := range pages {
		if strings.Contains(strings.ToLower(text), needle) {
			return i + 1, true
		}
	}
	return 0, false
}
