package sortkeys

import "jsstyle/internal/jsast"

// Name is the comparable name of an entry: a string, or a number for numeric
// literal keys.
type Name struct {
	str     string
	num     float64
	numeric bool
}

// StringName returns a string name.
func StringName(s string) Name {
	return Name{str: s}
}

// NumberName returns a numeric name.
func NumberName(v float64) Name {
	return Name{num: v, numeric: true}
}

// IsNumber reports whether n came from a numeric key.
func (n Name) IsNumber() bool {
	return n.numeric
}

// String returns the name as JavaScript would print it.
func (n Name) String() string {
	if n.numeric {
		return jsast.FormatNumber(n.num)
	}
	return n.str
}

// spreadPrefix marks the synthetic name of a spread entry.
const spreadPrefix = "..."

// Resolve returns the comparable name of e. The second result is false when
// e has no comparable name: computed keys other than a bare identifier or a
// literal, such as `[a.b]`, `[f()]` or template literals.
//
// Spreads resolve to "..." followed by their argument text; that name marks
// a group boundary and is never sorted.
func Resolve(e *jsast.Entry) (Name, bool) {
	if e.IsSpread() {
		return StringName(spreadPrefix + e.Argument), true
	}

	switch e.Key.Kind {
	case jsast.KeyIdentifier:
		return StringName(e.Key.Text), true
	case jsast.KeyString:
		return StringName(e.Key.Value), true
	case jsast.KeyNumber:
		return NumberName(e.Key.Number), true
	default:
		return Name{}, false
	}
}
