package jqesque

import (
	"errors"
	"reflect"
	"testing"
)

func TestAsJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		sep   Separator
		want  string
	}{
		{
			name:  "dot_path",
			input: "foo.bar[0].baz=hello",
			sep:   Dot,
			want:  `{"foo":{"bar":[{"baz":"hello"}]}}`,
		},
		{
			name:  "slash_path_boolean",
			input: "foo/bar[0]/baz=true",
			sep:   Slash,
			want:  `{"foo":{"bar":[{"baz":true}]}}`,
		},
		{
			name:  "root_array",
			input: "[1]=x",
			sep:   Dot,
			want:  `[null,"x"]`,
		},
		{
			name:  "marker_does_not_change_as_json",
			input: "?foo.bar=1",
			sep:   Dot,
			want:  `{"foo":{"bar":1}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseWithSeparator(tt.input, tt.sep)
			if err != nil {
				t.Fatalf("ParseWithSeparator(%q) failed: %v", tt.input, err)
			}
			if got, want := a.AsJSON(), mustDoc(t, tt.want); !reflect.DeepEqual(got, want) {
				t.Errorf("AsJSON() = %#v, want %#v", got, want)
			}
		})
	}
}

func TestInsertIntoOverridesOperation(t *testing.T) {
	// The parsed operation is merge, but InsertInto always overwrites.
	a := mustParse(t, `~settings.theme={"color":"blue","font":"Helvetica"}`)

	doc := mustDoc(t, settingsDoc)
	if err := a.InsertInto(&doc); err != nil {
		t.Fatalf("InsertInto failed: %v", err)
	}
	want := mustDoc(t, `{"settings":{"theme":{"color":"blue","font":"Helvetica"}}}`)
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("document = %#v, want %#v", doc, want)
	}
}

func TestMergeIntoOverridesOperation(t *testing.T) {
	// The parsed operation is insert, but MergeInto always merges.
	a := mustParse(t, `settings.theme={"color":"blue","font":"Helvetica"}`)

	doc := mustDoc(t, settingsDoc)
	if err := a.MergeInto(&doc); err != nil {
		t.Fatalf("MergeInto failed: %v", err)
	}
	want := mustDoc(t, `{"settings":{"theme":{"color":"blue","font":"Helvetica","size":12}}}`)
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("document = %#v, want %#v", doc, want)
	}
}

func TestApplyClone(t *testing.T) {
	t.Run("success_leaves_original_untouched", func(t *testing.T) {
		doc := mustDoc(t, `{"a":{"b":1}}`)
		got, err := mustParse(t, "a.c=2").ApplyClone(doc)
		if err != nil {
			t.Fatalf("ApplyClone failed: %v", err)
		}
		if want := mustDoc(t, `{"a":{"b":1,"c":2}}`); !reflect.DeepEqual(got, want) {
			t.Errorf("clone = %#v, want %#v", got, want)
		}
		if before := mustDoc(t, `{"a":{"b":1}}`); !reflect.DeepEqual(doc, before) {
			t.Errorf("original mutated: %#v", doc)
		}
	})

	t.Run("error_leaves_original_untouched", func(t *testing.T) {
		doc := mustDoc(t, `{}`)
		_, err := mustParse(t, "+a.b[5]=x").ApplyClone(doc)
		if !errors.Is(err, ErrIndexOutOfBounds) {
			t.Fatalf("err = %v, want ErrIndexOutOfBounds", err)
		}
		// In-place apply would have left a vivified prefix here.
		if before := mustDoc(t, `{}`); !reflect.DeepEqual(doc, before) {
			t.Errorf("original mutated: %#v", doc)
		}
	})
}

func TestAssignmentIsReusable(t *testing.T) {
	// The same assignment applied to two documents must not share its
	// value between them.
	a := mustParse(t, `cfg={"level":1}`)

	var first, second any
	if err := a.Apply(&first); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := a.Apply(&second); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	first.(map[string]any)["cfg"].(map[string]any)["level"] = float64(99)
	if got := second.(map[string]any)["cfg"].(map[string]any)["level"]; got != float64(1) {
		t.Errorf("documents share value storage: second level = %v", got)
	}
	if v, _ := a.Value(); v.(map[string]any)["level"] != float64(1) {
		t.Errorf("assignment value mutated: %#v", v)
	}
}

func TestAccessors(t *testing.T) {
	a := mustParse(t, "+foo.bar[2]=42")

	if a.Operation() != OpAdd {
		t.Errorf("Operation() = %v, want OpAdd", a.Operation())
	}
	want := []Segment{Key("foo"), Key("bar"), Index(2)}
	if !reflect.DeepEqual(a.Path(), want) {
		t.Errorf("Path() = %#v, want %#v", a.Path(), want)
	}
	v, ok := a.Value()
	if !ok || v != float64(42) {
		t.Errorf("Value() = %#v, %v", v, ok)
	}

	// Mutating the returned path must not affect the assignment.
	p := a.Path()
	p[0] = Key("changed")
	if a.Path()[0] != Key("foo") {
		t.Error("Path() exposes internal storage")
	}
}

func TestOperationString(t *testing.T) {
	ops := map[Operation]string{
		OpInsert:  "insert",
		OpMerge:   "merge",
		OpAdd:     "add",
		OpRemove:  "remove",
		OpReplace: "replace",
		OpTest:    "test",
	}
	for op, want := range ops {
		if got := op.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", op, got, want)
		}
	}
}
