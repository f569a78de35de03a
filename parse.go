package jqesque

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse parses an assignment string using the default Dot separator.
func Parse(input string) (*Assignment, error) {
	return ParseWithSeparator(input, Dot)
}

// ParseWithSeparator parses an assignment string of the form
// "[op]path=value" into an immutable Assignment.
//
// The first character may be one of the operation markers '+', '=',
// '-', '?', '>' or '~'; without a marker the operation defaults to
// Insert. Everything before the first unescaped '=' is the path,
// everything after it is the raw value. Remove is the only operation
// that takes no value.
func ParseWithSeparator(input string, sep Separator) (*Assignment, error) {
	op := OpInsert
	rest := input
	if rest != "" {
		r, size := utf8.DecodeRuneInString(rest)
		if o, ok := operationForMarker(r); ok {
			op = o
			rest = rest[size:]
		} else if !isKeyRune(r) && r != '"' && r != '[' && r != rune(sep) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, r)
		}
	}

	pathPart, rawValue, hasValue, err := splitAssignment(rest)
	if err != nil {
		return nil, err
	}

	if hasValue {
		// A single space may follow '=' without joining the value.
		rawValue = strings.TrimPrefix(rawValue, " ")
	}

	path, err := parsePath(pathPart, rune(sep))
	if err != nil {
		return nil, err
	}

	if op == OpRemove {
		if hasValue {
			return nil, fmt.Errorf("%w: remove takes no value", ErrUnexpectedValue)
		}
	} else {
		if !hasValue || rawValue == "" {
			return nil, fmt.Errorf("%w: operation %s requires a value", ErrMissingValue, op)
		}
	}

	a := &Assignment{
		op:   op,
		path: path,
		sep:  sep,
	}
	if op != OpRemove {
		a.value = inferValue(rawValue)
		a.hasValue = true
	}
	return a, nil
}

// splitAssignment splits the input at the first '=' that is outside a
// quoted key. Returns the path part, the raw value, and whether an '='
// was present at all.
func splitAssignment(input string) (string, string, bool, error) {
	inQuote := false
	escaped := false
	for i, r := range input {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && inQuote:
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case r == '=' && !inQuote:
			return input[:i], input[i+1:], true, nil
		}
	}
	if inQuote {
		return "", "", false, ErrUnterminatedQuote
	}
	return input, "", false, nil
}

// parsePath splits the path into segments. The separator divides key
// segments; bracket segments attach directly and are never divided by
// the separator. Quoted keys suspend both the separator and brackets.
func parsePath(s string, sep rune) ([]Segment, error) {
	if s == "" {
		return nil, ErrEmptyPath
	}

	runes := []rune(s)
	var path []Segment
	expectSegment := true
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == sep:
			if expectSegment {
				return nil, fmt.Errorf("%w: doubled or leading separator", ErrEmptySegment)
			}
			expectSegment = true
			i++
		case r == '[':
			seg, n, err := parseBracket(runes[i:])
			if err != nil {
				return nil, err
			}
			path = append(path, seg)
			i += n
			expectSegment = false
		case !expectSegment:
			return nil, fmt.Errorf("%w: unexpected %q after segment", ErrInvalidSegment, r)
		case r == '"':
			key, n, err := parseQuotedKey(runes[i:])
			if err != nil {
				return nil, err
			}
			path = append(path, Key(key))
			i += n
			expectSegment = false
		default:
			start := i
			for i < len(runes) && runes[i] != sep && runes[i] != '[' {
				if !isKeyRune(runes[i]) {
					return nil, fmt.Errorf("%w: invalid character %q", ErrInvalidSegment, runes[i])
				}
				i++
			}
			path = append(path, Key(string(runes[start:i])))
			expectSegment = false
		}
	}
	if expectSegment {
		return nil, fmt.Errorf("%w: trailing separator", ErrEmptySegment)
	}

	// The append marker has no children, so it can only close a path.
	for _, seg := range path[:len(path)-1] {
		if seg.Kind == SegmentAppend {
			return nil, fmt.Errorf("%w: append marker must be the final segment", ErrInvalidIndex)
		}
	}
	return path, nil
}

// parseBracket parses "[N]" or "[-]" starting at runes[0] == '['.
// Returns the segment and the number of runes consumed.
func parseBracket(runes []rune) (Segment, int, error) {
	end := -1
	for j := 1; j < len(runes); j++ {
		if runes[j] == ']' {
			end = j
			break
		}
	}
	if end < 0 {
		return Segment{}, 0, ErrUnterminatedBracket
	}

	content := string(runes[1:end])
	switch {
	case content == "-":
		return Append(), end + 1, nil
	case content == "":
		return Segment{}, 0, fmt.Errorf("%w: empty brackets", ErrInvalidIndex)
	case strings.HasPrefix(content, "-"):
		return Segment{}, 0, fmt.Errorf("%w: negative index %q", ErrInvalidIndex, content)
	}
	for _, r := range content {
		if r < '0' || r > '9' {
			return Segment{}, 0, fmt.Errorf("%w: %q", ErrInvalidIndex, content)
		}
	}
	n, err := strconv.Atoi(content)
	if err != nil {
		return Segment{}, 0, fmt.Errorf("%w: %q", ErrInvalidIndex, content)
	}
	return Index(n), end + 1, nil
}

// parseQuotedKey parses a double-quoted key starting at runes[0] ==
// '"'. The escapes \\, \", \n, \r and \t are honored. Returns the
// unescaped key and the number of runes consumed.
func parseQuotedKey(runes []rune) (string, int, error) {
	var b strings.Builder
	for j := 1; j < len(runes); j++ {
		switch runes[j] {
		case '"':
			return b.String(), j + 1, nil
		case '\\':
			j++
			if j >= len(runes) {
				return "", 0, ErrUnterminatedQuote
			}
			switch runes[j] {
			case '\\', '"':
				b.WriteRune(runes[j])
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return "", 0, fmt.Errorf("%w: unknown escape \\%c", ErrInvalidSegment, runes[j])
			}
		default:
			b.WriteRune(runes[j])
		}
	}
	return "", 0, ErrUnterminatedQuote
}

func isKeyRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

// inferValue interprets the raw value substring. The attempts are
// ordered: boolean literal, null literal, full JSON document, then the
// verbatim string as a last-resort success. Unquoted numeric text
// parses as a number, which is intentional.
func inferValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
