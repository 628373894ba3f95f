package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SyntaxError is returned when a document is not valid JSON even after
// comment stripping and comma repair. Cleaned holds the repaired text so it
// can be written out for inspection.
type SyntaxError struct {
	Cleaned []byte
	Line    int
	Msg     string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid JSON at line %d: %s", e.Line, e.Msg)
	}
	return "invalid JSON: " + e.Msg
}

// Clean strips comments and trailing commas and inserts commas that BeamNG
// files commonly omit between values.
func Clean(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	return insertMissingCommas(jsonc.ToJSON(data))
}

// Parse cleans and parses data into a document tree.
func Parse(data []byte) (*Value, error) {
	clean := Clean(data)
	if !gjson.ValidBytes(clean) {
		return nil, syntaxError(clean)
	}
	return build(gjson.ParseBytes(clean)), nil
}

func syntaxError(clean []byte) *SyntaxError {
	se := &SyntaxError{Cleaned: clean, Msg: "unexpected input"}
	var v any
	err := json.Unmarshal(clean, &v)
	var jerr *json.SyntaxError
	if errors.As(err, &jerr) {
		off := int(jerr.Offset)
		if off > len(clean) {
			off = len(clean)
		}
		se.Line = bytes.Count(clean[:off], []byte("\n")) + 1
		se.Msg = jerr.Error()
	} else if err != nil {
		se.Msg = err.Error()
	}
	return se
}

func build(r gjson.Result) *Value {
	switch {
	case r.IsObject():
		v := &Value{Kind: Object, Members: []*Member{}}
		r.ForEach(func(key, val gjson.Result) bool {
			v.Members = append(v.Members, &Member{Key: key.String(), Value: build(val)})
			return true
		})
		return v
	case r.IsArray():
		v := &Value{Kind: Array, Items: []*Value{}}
		r.ForEach(func(_, val gjson.Result) bool {
			v.Items = append(v.Items, build(val))
			return true
		})
		return v
	case r.Type == gjson.String:
		return &Value{Kind: String, Str: r.String()}
	default:
		return &Value{Kind: Scalar, Raw: r.Raw}
	}
}

// insertMissingCommas adds a comma wherever a value is followed, after
// whitespace, by the start of another value.
func insertMissingCommas(data []byte) []byte {
	out := make([]byte, 0, len(data)+64)
	var (
		inString bool
		escaped  bool
		last     byte
		spaced   bool
	)
	for _, c := range data {
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				last = '"'
				spaced = false
			}
			continue
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			spaced = true
			out = append(out, c)
			continue
		}
		if spaced && endsValue(last) && startsValue(c) {
			out = append(out, ',')
		}
		out = append(out, c)
		if c == '"' {
			inString = true
		}
		last = c
		spaced = false
	}
	return out
}

func endsValue(c byte) bool {
	switch c {
	case '"', '}', ']', 'e', 'l':
		return true
	}
	return c >= '0' && c <= '9'
}

func startsValue(c byte) bool {
	switch c {
	case '"', '{', '[', '-', 't', 'f', 'n':
		return true
	}
	return c >= '0' && c <= '9'
}
