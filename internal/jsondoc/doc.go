// Package jsondoc is an order-preserving JSON document model for the
// loosely formatted JSON that BeamNG uses in jbeam and materials files.
//
// Documents are parsed after comment stripping and comma repair, mutated in
// place, and emitted with four-space indentation. Object members keep their
// source order, numbers and literals keep their source text.
package jsondoc

// Kind identifies the shape of a Value.
type Kind int

const (
	// Scalar covers numbers, booleans and null. The source text is kept in Raw.
	Scalar Kind = iota
	String
	Object
	Array
)

// Value is a node of a parsed document.
type Value struct {
	Kind    Kind
	Str     string
	Raw     string
	Members []*Member
	Items   []*Value
}

// Member is a single key/value pair of an object. Duplicate keys are kept.
type Member struct {
	Key   string
	Value *Value
}

// NewString returns a string node.
func NewString(s string) *Value {
	return &Value{Kind: String, Str: s}
}

// NewObject returns an empty object node.
func NewObject() *Value {
	return &Value{Kind: Object}
}

// IsString reports whether v is a non-nil string node.
func (v *Value) IsString() bool {
	return v != nil && v.Kind == String
}

// Member returns the first member named key, or nil.
func (v *Value) Member(key string) *Member {
	if v == nil || v.Kind != Object {
		return nil
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Get returns the value of the first member named key, or nil.
func (v *Value) Get(key string) *Value {
	if m := v.Member(key); m != nil {
		return m.Value
	}
	return nil
}

// Set replaces the value of the first member named key, appending a new
// member when none exists.
func (v *Value) Set(key string, val *Value) {
	if m := v.Member(key); m != nil {
		m.Value = val
		return
	}
	v.Members = append(v.Members, &Member{Key: key, Value: val})
}

// Index returns the i-th array item, or nil when out of range.
func (v *Value) Index(i int) *Value {
	if v == nil || v.Kind != Array || i < 0 || i >= len(v.Items) {
		return nil
	}
	return v.Items[i]
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := &Value{Kind: v.Kind, Str: v.Str, Raw: v.Raw}
	if v.Members != nil {
		c.Members = make([]*Member, len(v.Members))
		for i, m := range v.Members {
			c.Members[i] = &Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	if v.Items != nil {
		c.Items = make([]*Value, len(v.Items))
		for i, it := range v.Items {
			c.Items[i] = it.Clone()
		}
	}
	return c
}

// WalkMembers visits every object member in document order, parents before
// children. Returning false from fn stops the walk.
func (v *Value) WalkMembers(fn func(m *Member) bool) {
	v.walkMembers(fn)
}

func (v *Value) walkMembers(fn func(m *Member) bool) bool {
	if v == nil {
		return true
	}
	switch v.Kind {
	case Object:
		for _, m := range v.Members {
			if !fn(m) {
				return false
			}
			if !m.Value.walkMembers(fn) {
				return false
			}
		}
	case Array:
		for _, it := range v.Items {
			if !it.walkMembers(fn) {
				return false
			}
		}
	}
	return true
}

// WalkStrings visits every string node, including array items, in document
// order. Object keys are not visited.
func (v *Value) WalkStrings(fn func(s *Value)) {
	if v == nil {
		return
	}
	switch v.Kind {
	case String:
		fn(v)
	case Object:
		for _, m := range v.Members {
			m.Value.WalkStrings(fn)
		}
	case Array:
		for _, it := range v.Items {
			it.WalkStrings(fn)
		}
	}
}
