package jqesque

import (
	"fmt"
	"strings"
)

// Separator is the character that divides path segments. Bracketed
// array segments are never divided by the separator.
type Separator rune

const (
	// Dot separates segments with '.', as in "foo.bar[0].baz".
	Dot Separator = '.'
	// Slash separates segments with '/', as in "foo/bar[0]/baz".
	Slash Separator = '/'
)

// Custom returns a Separator using an arbitrary character.
func Custom(r rune) Separator {
	return Separator(r)
}

// SegmentKind discriminates the three path segment variants.
type SegmentKind uint8

const (
	// SegmentKey addresses an object member by name.
	SegmentKey SegmentKind = iota
	// SegmentIndex addresses an array element by position.
	SegmentIndex
	// SegmentAppend addresses the position after the last array
	// element, written "[-]". Only valid as the final segment.
	SegmentAppend
)

// Segment is one step of a parsed path: an object key, an array index,
// or the append marker.
type Segment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

// Key returns a segment addressing an object member.
func Key(name string) Segment {
	return Segment{Kind: SegmentKey, Key: name}
}

// Index returns a segment addressing an array element.
func Index(i int) Segment {
	return Segment{Kind: SegmentIndex, Index: i}
}

// Append returns the end-of-array segment.
func Append() Segment {
	return Segment{Kind: SegmentAppend}
}

// String renders the segment in input syntax: a bare or quoted key,
// "[N]", or "[-]".
func (s Segment) String() string {
	switch s.Kind {
	case SegmentIndex:
		return fmt.Sprintf("[%d]", s.Index)
	case SegmentAppend:
		return "[-]"
	default:
		if needsQuoting(s.Key) {
			return quoteKey(s.Key)
		}
		return s.Key
	}
}

func needsQuoting(key string) bool {
	if key == "" {
		return true
	}
	for _, r := range key {
		if !isKeyRune(r) {
			return true
		}
	}
	return false
}

func quoteKey(key string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range key {
		switch r {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// renderPath writes the path in input syntax using the given
// separator: key segments are separator-joined, bracket segments
// attach directly to the preceding segment.
func renderPath(path []Segment, sep Separator) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 && seg.Kind == SegmentKey {
			b.WriteRune(rune(sep))
		}
		b.WriteString(seg.String())
	}
	return b.String()
}
