// Package jqesque parses compact, jq-inspired assignment strings and
// applies them to JSON documents.
//
// An assignment is a single line of the form "[op]path=value", for
// example "foo.bar[0].baz=hello". The path is a separator-joined list
// of object keys and bracketed array indices, with "[-]" addressing
// the position after the last element. The optional leading marker
// selects the operation:
//
//	(none)  Insert   upsert at the path, overwriting what exists
//	>       Insert
//	~       Merge    deep-merge objects, replace everything else
//	+       Add      object upsert, or array insert-before-index
//	-       Remove   delete the key or element (takes no value)
//	=       Replace  overwrite an existing value
//	?       Test     check the existing value without mutating
//
// Values are inferred in order: the literals true, false and null,
// then any full JSON document, then the verbatim string. Documents are
// plain Go trees (map[string]any, []any and scalars) as produced by
// encoding/json.
//
// Apply is not transactional: when an operation fails partway, a
// prefix of auto-vivified intermediate containers may already have
// been created. ApplyClone offers a clone-then-swap alternative that
// leaves the input document untouched on error.
package jqesque

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/copystructure"
)

// Operation is the action an assignment performs on a document. The
// set is closed; every consumption site switches exhaustively.
type Operation uint8

const (
	// OpInsert upserts at the path, vivifying missing intermediates
	// and overwriting any existing value. It is the default when the
	// input carries no marker.
	OpInsert Operation = iota
	// OpMerge deep-merges the value into the existing value.
	OpMerge
	// OpAdd inserts into objects by key and into arrays before the
	// given index.
	OpAdd
	// OpRemove deletes an existing key or element.
	OpRemove
	// OpReplace overwrites a value that must already exist.
	OpReplace
	// OpTest checks the existing value against the given one.
	OpTest
)

// String returns the operation name used in error messages.
func (op Operation) String() string {
	switch op {
	case OpMerge:
		return "merge"
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpTest:
		return "test"
	default:
		return "insert"
	}
}

func operationForMarker(r rune) (Operation, bool) {
	switch r {
	case '>':
		return OpInsert, true
	case '~':
		return OpMerge, true
	case '+':
		return OpAdd, true
	case '-':
		return OpRemove, true
	case '=':
		return OpReplace, true
	case '?':
		return OpTest, true
	default:
		return 0, false
	}
}

// marker returns the input character for the operation.
func (op Operation) marker() rune {
	switch op {
	case OpMerge:
		return '~'
	case OpAdd:
		return '+'
	case OpRemove:
		return '-'
	case OpReplace:
		return '='
	case OpTest:
		return '?'
	default:
		return '>'
	}
}

// Assignment is a parsed assignment: one operation, one path and an
// optional value. It carries no reference to the input string, is
// immutable once parsed, and may be applied any number of times
// against distinct documents, concurrently included. Applying against
// the same document from multiple goroutines requires external
// synchronization.
type Assignment struct {
	op       Operation
	path     []Segment
	value    any
	hasValue bool
	sep      Separator
}

// Operation returns the parsed operation.
func (a *Assignment) Operation() Operation {
	return a.op
}

// Path returns a copy of the parsed path segments.
func (a *Assignment) Path() []Segment {
	path := make([]Segment, len(a.path))
	copy(path, a.path)
	return path
}

// Value returns the parsed value and whether one was present. Remove
// is the only operation without a value.
func (a *Assignment) Value() (any, bool) {
	return a.value, a.hasValue
}

// String re-renders the assignment in input syntax. Insert renders
// without a marker, since that is the default.
func (a *Assignment) String() string {
	var marker string
	if a.op != OpInsert {
		marker = string(a.op.marker())
	}
	if !a.hasValue {
		return marker + renderPath(a.path, a.sep)
	}
	raw, err := json.Marshal(a.value)
	if err != nil {
		raw = []byte("null")
	}
	return fmt.Sprintf("%s%s=%s", marker, renderPath(a.path, a.sep), raw)
}

// AsJSON builds a brand-new document from an empty root using insert
// semantics, regardless of the parsed operation.
func (a *Assignment) AsJSON() any {
	var doc any
	// Insert into an empty root only vivifies, it cannot fail.
	_ = insertValue(&doc, a.path, a.cloneValue())
	return doc
}

// Apply applies the assignment to doc using its parsed operation.
// On error the document may retain a prefix of vivified intermediate
// containers; use ApplyClone when that matters.
func (a *Assignment) Apply(doc *any) error {
	switch a.op {
	case OpMerge:
		return mergeAt(doc, a.path, a.cloneValue())
	case OpAdd:
		return addValue(doc, a.path, a.cloneValue())
	case OpRemove:
		return removeValue(doc, a.path)
	case OpReplace:
		return replaceValue(doc, a.path, a.cloneValue())
	case OpTest:
		return testValue(*doc, a.path, a.value)
	default:
		return insertValue(doc, a.path, a.cloneValue())
	}
}

// ApplyClone applies the assignment to a deep copy of doc and returns
// the copy, leaving doc untouched even when the operation fails.
func (a *Assignment) ApplyClone(doc any) (any, error) {
	clone, err := copystructure.Copy(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: clone: %v", ErrApply, err)
	}
	if err := a.Apply(&clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// InsertInto applies with insert semantics at the parsed path,
// whatever the parsed operation was.
func (a *Assignment) InsertInto(doc *any) error {
	return insertValue(doc, a.path, a.cloneValue())
}

// MergeInto applies with merge semantics at the parsed path, whatever
// the parsed operation was.
func (a *Assignment) MergeInto(doc *any) error {
	return mergeAt(doc, a.path, a.cloneValue())
}

// cloneValue hands the engine a private copy, so documents built from
// this assignment never alias its stored value across applications.
func (a *Assignment) cloneValue() any {
	if a.value == nil {
		return nil
	}
	clone, err := copystructure.Copy(a.value)
	if err != nil {
		return a.value
	}
	return clone
}
