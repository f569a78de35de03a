// Package document reads and writes the JSON or YAML documents the
// jqesque tool operates on. Documents are plain Go trees
// (map[string]any, []any and scalars).
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	yaml "github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
)

var (
	ErrDecode = errors.New("document decode error")
	ErrEncode = errors.New("document encode error")
)

// Format selects the output encoding.
type Format uint8

const (
	// JSON emits indented JSON.
	JSON Format = iota
	// CompactJSON emits single-line JSON.
	CompactJSON
	// YAML emits a YAML document.
	YAML
)

// Decode reads a whole document from r. Valid JSON decodes as JSON;
// anything else is treated as YAML. Empty input yields a nil document.
func Decode(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if gjson.ValidBytes(data) {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return doc, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return normalize(doc), nil
}

// Encode writes doc to w in the requested format. JSON output ends
// with a newline.
func Encode(w io.Writer, doc any, format Format) error {
	switch format {
	case YAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
		_, err = w.Write(data)
		return err
	case CompactJSON:
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}
}

// normalize rewrites YAML-decoded trees into the same shapes JSON
// decoding produces, so the engine sees one document model: string
// keys, float64 numbers. Non-string mapping keys are rendered with
// their default format.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprintf("%v", k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	default:
		return v
	}
}
