// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package importer

import (
	"fmt"
	"regexp"
	"strings"
)

// extractObjectLiteral finds `const <name> =` in the legacy page source and
// returns the balanced object literal that follows. The scanner tracks
// single-, double-, and backtick-quoted strings so braces inside string
// values do not break the depth count.
func extractObjectLiteral(source, name string) (string, error) {
	declIndex := strings.Index(source, "const "+name+" =")
	if declIndex < 0 {
		return "", fmt.Errorf("variable %q not found in legacy source", name)
	}

	start := strings.IndexByte(source[declIndex:], '{')
	if start < 0 {
		return "", fmt.Errorf("object start for %q not found", name)
	}
	start += declIndex

	depth := 0
	inSingle, inDouble, inTemplate, escaped := false, false, false, false

	for i := start; i < len(source); i++ {
		c := source[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}

		switch {
		case c == '\'' && !inDouble && !inTemplate:
			inSingle = !inSingle
		case c == '"' && !inSingle && !inTemplate:
			inDouble = !inDouble
		case c == '`' && !inSingle && !inDouble:
			inTemplate = !inTemplate
		case inSingle || inDouble || inTemplate:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return source[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced object literal for %q", name)
}

var (
	// () => confirm('some note') is the legacy page's lightweight way of
	// attaching a referral note; the note text is the value.
	confirmFnPattern = regexp.MustCompile(`\(\s*\)\s*=>\s*confirm\(\s*'((?:[^'\\]|\\.)*)'\s*\)`)

	// Any other parameterless arrow function collapses to an empty string.
	arrowFnPattern = regexp.MustCompile(`\(\s*\)\s*=>\s*[^,}\]\n]*`)

	bareKeyPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*`)
)

// replaceFunctions rewrites the arrow-function values the legacy page uses
// before JSON conversion.
func replaceFunctions(literal string) string {
	literal = confirmFnPattern.ReplaceAllString(literal, "'$1'")
	return arrowFnPattern.ReplaceAllString(literal, "''")
}

// jsToJSON converts a JS object literal to JSON: single-quoted and template
// strings become double-quoted, bare keys get quoted, and trailing commas are
// dropped. It is a best-effort converter for the specific shape the legacy
// page uses, not a JS parser.
func jsToJSON(literal string) string {
	var out strings.Builder
	out.Grow(len(literal))

	i := 0
	expectKey := true

	for i < len(literal) {
		c := literal[i]

		switch c {
		case '\'', '`':
			segment, next := convertQuoted(literal, i, c)
			out.WriteString(segment)
			i = next
			expectKey = false
			continue
		case '"':
			segment, next := copyQuoted(literal, i)
			out.WriteString(segment)
			i = next
			expectKey = false
			continue
		case '{', '[', ',':
			expectKey = c != '['
			// Drop a trailing comma directly before a closing bracket.
			if c == ',' {
				j := i + 1
				for j < len(literal) && (literal[j] == ' ' || literal[j] == '\n' || literal[j] == '\t' || literal[j] == '\r') {
					j++
				}
				if j < len(literal) && (literal[j] == '}' || literal[j] == ']') {
					i++
					continue
				}
			}
			out.WriteByte(c)
			i++
			continue
		case ':':
			expectKey = false
			out.WriteByte(c)
			i++
			continue
		case ' ', '\t', '\n', '\r':
			out.WriteByte(c)
			i++
			continue
		}

		if expectKey {
			if key := bareKeyPattern.FindString(literal[i:]); key != "" && key != "true" && key != "false" && key != "null" {
				out.WriteByte('"')
				out.WriteString(key)
				out.WriteByte('"')
				i += len(key)
				continue
			}
		}

		out.WriteByte(c)
		i++
	}

	return out.String()
}

// convertQuoted converts a single-quoted or backtick string starting at
// position start into a double-quoted JSON string, returning the converted
// segment and the position after the closing quote.
func convertQuoted(literal string, start int, quote byte) (string, int) {
	var out strings.Builder
	out.WriteByte('"')

	i := start + 1
	for i < len(literal) {
		c := literal[i]

		if c == '\\' && i+1 < len(literal) {
			next := literal[i+1]
			if next == quote {
				// The quote no longer needs escaping in a JSON string,
				// unless it is a double quote.
				if next == '"' {
					out.WriteString(`\"`)
				} else {
					out.WriteByte(next)
				}
			} else {
				out.WriteByte('\\')
				out.WriteByte(next)
			}
			i += 2
			continue
		}

		if c == quote {
			out.WriteByte('"')
			return out.String(), i + 1
		}

		switch c {
		case '"':
			out.WriteString(`\"`)
		case '\n':
			out.WriteString(`\n`)
		default:
			out.WriteByte(c)
		}
		i++
	}

	out.WriteByte('"')
	return out.String(), i
}

// copyQuoted copies a double-quoted string verbatim, returning the segment
// and the position after the closing quote.
func copyQuoted(literal string, start int) (string, int) {
	i := start + 1
	for i < len(literal) {
		if literal[i] == '\\' {
			i += 2
			continue
		}
		if literal[i] == '"' {
			return literal[start : i+1], i + 1
		}
		i++
	}
	return literal[start:], i
}

// parseLegacyObject extracts a named object literal from the page source and
// decodes it into dst.
func parseLegacyObject(source, name string, dst interface{}) error {
	literal, err := extractObjectLiteral(source, name)
	if err != nil {
		return err
	}

	converted := jsToJSON(replaceFunctions(literal))
	if err := jsonUnmarshal([]byte(converted), dst); err != nil {
		return fmt.Errorf("failed to decode %q from legacy source: %w", name, err)
	}
	return nil
}
