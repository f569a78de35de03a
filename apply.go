package jqesque

import (
	"fmt"
)

// The engine walks one segment at a time with a single segment of
// lookahead: the container a missing intermediate vivifies into is
// decided by the segment that will descend into it, before descending.
//
// Two walk modes exist. Add, Insert and Merge vivify missing
// intermediates; Remove, Replace and Test require the full path up to
// the final segment's parent to exist already. Neither mode ever
// coerces an existing value whose type conflicts with a segment.

// leafFunc applies an operation at the final segment. parent is the
// slot holding the container the segment addresses.
type leafFunc func(parent *any, seg Segment) error

func walk(node *any, path []Segment, vivify bool, leaf leafFunc) error {
	if len(path) == 1 {
		return leaf(node, path[0])
	}

	seg := path[0]
	switch seg.Kind {
	case SegmentKey:
		m, err := objectAt(node, seg, vivify)
		if err != nil {
			return err
		}
		child, ok := m[seg.Key]
		if !ok && !vivify {
			return fmt.Errorf("%w: missing key %q", ErrPathNotFound, seg.Key)
		}
		err = walk(&child, path[1:], vivify, leaf)
		if err != nil && !vivify {
			return err
		}
		// Vivified intermediates stay even when a later segment
		// fails: apply is not transactional.
		m[seg.Key] = child
		return err
	case SegmentIndex:
		arr, err := arrayAt(node, seg, vivify)
		if err != nil {
			return err
		}
		if seg.Index >= len(arr) {
			if !vivify {
				return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, seg.Index, len(arr))
			}
			arr = extend(arr, seg.Index+1)
			*node = arr
		}
		return walk(&arr[seg.Index], path[1:], vivify, leaf)
	default:
		return fmt.Errorf("%w: append marker has no children", ErrIndexOutOfBounds)
	}
}

// objectAt returns the object in *node, vivifying nil slots when
// allowed. A non-object value is never coerced.
func objectAt(node *any, seg Segment, vivify bool) (map[string]any, error) {
	if *node == nil {
		if !vivify {
			return nil, fmt.Errorf("%w: missing key %q", ErrPathNotFound, seg.Key)
		}
		m := map[string]any{}
		*node = m
		return m, nil
	}
	m, ok := (*node).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: key %q against %s", ErrTypeMismatch, seg.Key, typeName(*node))
	}
	return m, nil
}

// arrayAt returns the array in *node, vivifying nil slots when
// allowed. A non-array value is never coerced.
func arrayAt(node *any, seg Segment, vivify bool) ([]any, error) {
	if *node == nil {
		if !vivify {
			return nil, fmt.Errorf("%w: missing element %s", ErrPathNotFound, seg)
		}
		arr := []any{}
		*node = arr
		return arr, nil
	}
	arr, ok := (*node).([]any)
	if !ok {
		return nil, fmt.Errorf("%w: index %s against %s", ErrTypeMismatch, seg, typeName(*node))
	}
	return arr, nil
}

func extend(arr []any, size int) []any {
	for len(arr) < size {
		arr = append(arr, nil)
	}
	return arr
}

func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "number"
	}
}

// insertValue upserts value at path, overwriting whatever exists at
// the final segment and vivifying missing intermediates.
func insertValue(doc *any, path []Segment, value any) error {
	return walk(doc, path, true, func(parent *any, seg Segment) error {
		switch seg.Kind {
		case SegmentKey:
			m, err := objectAt(parent, seg, true)
			if err != nil {
				return err
			}
			m[seg.Key] = value
		case SegmentIndex:
			arr, err := arrayAt(parent, seg, true)
			if err != nil {
				return err
			}
			arr = extend(arr, seg.Index+1)
			arr[seg.Index] = value
			*parent = arr
		default:
			arr, err := arrayAt(parent, seg, true)
			if err != nil {
				return err
			}
			*parent = append(arr, value)
		}
		return nil
	})
}

// addValue inserts value at path. In objects it upserts the key; in
// arrays Index(N) inserts before position N, shifting later elements,
// and the append marker inserts at the end.
func addValue(doc *any, path []Segment, value any) error {
	return walk(doc, path, true, func(parent *any, seg Segment) error {
		switch seg.Kind {
		case SegmentKey:
			m, err := objectAt(parent, seg, true)
			if err != nil {
				return err
			}
			m[seg.Key] = value
		case SegmentIndex:
			arr, err := arrayAt(parent, seg, true)
			if err != nil {
				return err
			}
			if seg.Index > len(arr) {
				return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, seg.Index, len(arr))
			}
			arr = append(arr, nil)
			copy(arr[seg.Index+1:], arr[seg.Index:])
			arr[seg.Index] = value
			*parent = arr
		default:
			arr, err := arrayAt(parent, seg, true)
			if err != nil {
				return err
			}
			*parent = append(arr, value)
		}
		return nil
	})
}

// removeValue deletes the key or element at path. The full path must
// already exist.
func removeValue(doc *any, path []Segment) error {
	return walk(doc, path, false, func(parent *any, seg Segment) error {
		switch seg.Kind {
		case SegmentKey:
			m, err := objectAt(parent, seg, false)
			if err != nil {
				return err
			}
			if _, ok := m[seg.Key]; !ok {
				return fmt.Errorf("%w: missing key %q", ErrPathNotFound, seg.Key)
			}
			delete(m, seg.Key)
		case SegmentIndex:
			arr, err := arrayAt(parent, seg, false)
			if err != nil {
				return err
			}
			if seg.Index >= len(arr) {
				return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, seg.Index, len(arr))
			}
			*parent = append(arr[:seg.Index], arr[seg.Index+1:]...)
		default:
			return fmt.Errorf("%w: cannot remove the append position", ErrIndexOutOfBounds)
		}
		return nil
	})
}

// replaceValue overwrites the existing value at path in place. The
// key or element must already exist.
func replaceValue(doc *any, path []Segment, value any) error {
	return walk(doc, path, false, func(parent *any, seg Segment) error {
		switch seg.Kind {
		case SegmentKey:
			m, err := objectAt(parent, seg, false)
			if err != nil {
				return err
			}
			if _, ok := m[seg.Key]; !ok {
				return fmt.Errorf("%w: missing key %q", ErrPathNotFound, seg.Key)
			}
			m[seg.Key] = value
		case SegmentIndex:
			arr, err := arrayAt(parent, seg, false)
			if err != nil {
				return err
			}
			if seg.Index >= len(arr) {
				return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, seg.Index, len(arr))
			}
			arr[seg.Index] = value
		default:
			return fmt.Errorf("%w: cannot replace the append position", ErrIndexOutOfBounds)
		}
		return nil
	})
}

// testValue checks that the value at path deep-equals expected. It
// never mutates the document.
func testValue(doc any, path []Segment, expected any) error {
	return walk(&doc, path, false, func(parent *any, seg Segment) error {
		var actual any
		switch seg.Kind {
		case SegmentKey:
			m, err := objectAt(parent, seg, false)
			if err != nil {
				return err
			}
			v, ok := m[seg.Key]
			if !ok {
				return fmt.Errorf("%w: missing key %q", ErrPathNotFound, seg.Key)
			}
			actual = v
		case SegmentIndex:
			arr, err := arrayAt(parent, seg, false)
			if err != nil {
				return err
			}
			if seg.Index >= len(arr) {
				return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfBounds, seg.Index, len(arr))
			}
			actual = arr[seg.Index]
		default:
			return fmt.Errorf("%w: cannot test the append position", ErrIndexOutOfBounds)
		}
		if !deepEqual(actual, expected) {
			return fmt.Errorf("%w: expected %v, found %v", ErrTestFailed, expected, actual)
		}
		return nil
	})
}

// mergeAt deep-merges value into the existing value at path, vivifying
// missing intermediates like Insert does.
func mergeAt(doc *any, path []Segment, value any) error {
	return walk(doc, path, true, func(parent *any, seg Segment) error {
		switch seg.Kind {
		case SegmentKey:
			m, err := objectAt(parent, seg, true)
			if err != nil {
				return err
			}
			m[seg.Key] = mergeValues(m[seg.Key], value)
		case SegmentIndex:
			arr, err := arrayAt(parent, seg, true)
			if err != nil {
				return err
			}
			arr = extend(arr, seg.Index+1)
			arr[seg.Index] = mergeValues(arr[seg.Index], value)
			*parent = arr
		default:
			arr, err := arrayAt(parent, seg, true)
			if err != nil {
				return err
			}
			*parent = append(arr, value)
		}
		return nil
	})
}

// mergeValues merges src into dst. When both sides are objects the
// keys are unioned and shared keys merge recursively; everything else,
// arrays and null included, replaces dst wholesale. A null in src
// overwrites rather than deletes, which deliberately diverges from
// RFC 7386 merge patch.
func mergeValues(dst, src any) any {
	dm, dok := dst.(map[string]any)
	sm, sok := src.(map[string]any)
	if !dok || !sok {
		return src
	}
	for k, v := range sm {
		dm[k] = mergeValues(dm[k], v)
	}
	return dm
}

// deepEqual compares two document values structurally. Numbers compare
// numerically across Go representations, since hand-built documents
// may carry ints where decoded documents carry float64.
func deepEqual(a, b any) bool {
	if an, ok := toFloat(a); ok {
		bn, ok := toFloat(b)
		return ok && an == bn
	}
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !deepEqual(v, w) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
