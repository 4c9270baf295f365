// Package value defines the structured result model for Lua evaluations.
//
// A Value is one of a closed set of variants: nil, boolean, number, string,
// a reference to a table, or an opaque placeholder for kinds the model does
// not represent (functions, userdata, coroutines). Tables are never held
// inline; they live out-of-line in a Response's Objects map, keyed by the
// table's identity, and are referenced from Values by that identity. This is
// what makes cyclic table graphs representable as plain data.
package value

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

// Value kinds.
const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindObjectRef
	KindOpaque
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObjectRef:
		return "ref"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Value is a single tagged evaluation result value. Only the fields relevant
// to the Kind are meaningful. Values are comparable with ==.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64

	// Str holds the text for KindString, the table identity for
	// KindObjectRef, and the interpreter's description for KindOpaque.
	Str string
}

// Nil returns the nil value.
func Nil() Value { return Value{Kind: KindNil} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number returns a number value. Lua integers widen to float64.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// ObjectRef returns a reference to the table with the given identity.
// The reference is only meaningful alongside the Objects map of the
// Response it was produced with.
func ObjectRef(id string) Value { return Value{Kind: KindObjectRef, Str: id} }

// Opaque returns a placeholder for a value kind the model does not
// represent. desc is the interpreter's own description of the value.
func Opaque(desc string) Value { return Value{Kind: KindOpaque, Str: desc} }

// String formats the value for debugging and log output.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	case KindObjectRef:
		return "<" + v.Str + ">"
	case KindOpaque:
		return "<opaque " + v.Str + ">"
	default:
		return fmt.Sprintf("<invalid kind %d>", int(v.Kind))
	}
}

// Pair is one key/value entry of a snapshotted table. Keys may themselves
// be tables, so both sides are Values.
type Pair struct {
	Key Value
	Val Value
}

// Object is the detached snapshot of one table: its entries in the order
// the interpreter enumerated them. Keys are not deduplicated or sorted,
// and enumeration order is not guaranteed stable across evaluations.
type Object struct {
	Members []Pair
}

// Append adds one key/value pair to the object.
func (o *Object) Append(k, v Value) {
	o.Members = append(o.Members, Pair{Key: k, Val: v})
}

// Response is the full outcome of evaluating one expression. The caller
// owns it outright; it shares no state with the interpreter.
type Response struct {
	// Success reports whether the expression compiled and ran without error.
	Success bool

	// Value is the expression's first result value, or Nil on failure.
	Value Value

	// Objects maps table identity to snapshot for every table reachable
	// from Value. Empty for scalar results and on failure.
	Objects map[string]Object

	// Err holds the Lua error message when Success is false.
	Err string
}

// Failure returns a failed Response carrying the given diagnostic.
func Failure(msg string) *Response {
	return &Response{
		Value:   Nil(),
		Objects: map[string]Object{},
		Err:     msg,
	}
}
