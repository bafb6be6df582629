// Package value models materialized parquet values as a closed set of
// variants: Null, scalar kinds, List and Group. Consumers switch over the
// variant types instead of inspecting runtime types of raw decoder output.
package value

import (
	"fmt"
	"strings"
)

// Value is one materialized (possibly nested) value. The shape of a value
// for a given schema path is structurally determined by the schema: the same
// path always yields the same variant, modulo Null.
type Value interface {
	isValue()
}

// Null marks an absent value, either an optional leaf without a value or a
// collapsed optional ancestor.
type Null struct{}

// Boolean, Int32, Int64, Int96, Float, Double and ByteArray are the scalar
// variants. ByteArray also carries string data.
type (
	Boolean bool
	Int32   int32
	Int64   int64
	Int96   [12]byte
	Float   float32
	Double  float64
	// ByteArray also carries string data.
	ByteArray []byte
)

// List is an ordered sequence of values produced by a repeated schema node.
type List []Value

// Field is one named value inside a Group.
type Field struct {
	Name  string
	Value Value
}

// Group is an ordered field mapping; field order is schema declaration
// order. A row is a Group rooted at the schema root.
type Group []Field

func (Null) isValue()      {}
func (Boolean) isValue()   {}
func (Int32) isValue()     {}
func (Int64) isValue()     {}
func (Int96) isValue()     {}
func (Float) isValue()     {}
func (Double) isValue()    {}
func (ByteArray) isValue() {}
func (List) isValue()      {}
func (Group) isValue()     {}

// Get returns the value of the field with the given name, matched
// case-insensitively.
func (g Group) Get(name string) (Value, bool) {
	for _, f := range g {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return nil, false
}

// Lookup resolves a dotted path like "a.b.c" through nested groups.
func (g Group) Lookup(path string) (Value, bool) {
	var cur Value = g
	for _, part := range strings.Split(path, ".") {
		sub, ok := cur.(Group)
		if !ok {
			return nil, false
		}
		cur, ok = sub.Get(part)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// TypeError reports a scalar whose decoded payload does not match the
// physical type the schema declares for its column. It indicates a decoder
// contract violation and is fatal.
type TypeError struct {
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("value type mismatch: schema declares %s, decoder delivered %s", e.Expected, e.Actual)
}
