package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Indent is the indentation used for emitted documents.
const Indent = "    "

// MarshalJSON emits v as compact JSON.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.appendCompact(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Bytes emits v as indented JSON terminated by a newline.
func (v *Value) Bytes() ([]byte, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", Indent); err != nil {
		return nil, fmt.Errorf("indenting document: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (v *Value) appendCompact(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case String:
		return writeString(buf, v.Str)
	case Scalar:
		if v.Raw == "" {
			return fmt.Errorf("scalar node without text")
		}
		buf.WriteString(v.Raw)
	case Object:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.appendCompact(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Array:
		buf.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.appendCompact(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unknown node kind %d", v.Kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// ReadFile reads and parses the document at path.
func ReadFile(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// WriteFile emits doc to path.
func WriteFile(path string, doc *Value) error {
	data, err := doc.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SaveCleaned writes the repaired text carried by a SyntaxError next to the
// source as <path>.cleaned and returns the written path.
func SaveCleaned(path string, se *SyntaxError) (string, error) {
	cleaned := path + ".cleaned"
	if err := os.WriteFile(cleaned, se.Cleaned, 0644); err != nil {
		return "", err
	}
	return cleaned, nil
}
