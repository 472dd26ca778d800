package jsast

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) into File.Source.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Text returns the bytes of src covered by the span.
func (s Span) Text(src []byte) string {
	return string(src[s.Start:s.End])
}

// Contains reports whether o lies entirely inside s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Position is a 1-based line and column. Columns count UTF-16 code units,
// as JavaScript tooling does.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Comment is a line or block comment.
type Comment struct {
	Span  Span
	Text  string
	Block bool
}

// EntryKind classifies an entry of an object literal.
type EntryKind int

const (
	// EntryProperty is `key: value`.
	EntryProperty EntryKind = iota
	// EntryShorthand is `{ key }`.
	EntryShorthand
	// EntryMethod is `key() {}`, including getters and setters.
	EntryMethod
	// EntrySpread is `...expr`.
	EntrySpread
)

func (k EntryKind) String() string {
	switch k {
	case EntryProperty:
		return "property"
	case EntryShorthand:
		return "shorthand"
	case EntryMethod:
		return "method"
	case EntrySpread:
		return "spread"
	default:
		return "unknown"
	}
}

// KeyKind classifies the syntax of an entry key.
type KeyKind int

const (
	// KeyNone is the zero value, used for spreads.
	KeyNone KeyKind = iota
	// KeyIdentifier is a bare name; Text holds it.
	KeyIdentifier
	// KeyString is a string literal; Value holds the decoded contents.
	KeyString
	// KeyNumber is a numeric literal; Number holds its value.
	KeyNumber
	// KeyTemplate is a template literal inside computed brackets.
	KeyTemplate
	// KeyExpression is any other computed expression (member access, call...).
	KeyExpression
)

// Key is the key of a keyed entry. Computed keys (`[expr]`) carry the kind of
// the bracketed expression with Computed set.
type Key struct {
	Kind     KeyKind
	Computed bool
	// Text is the raw source of the key (without computed brackets).
	Text   string
	Value  string
	Number float64
	Span   Span
	Pos    Position
}

// Entry is one item of an object literal's property list.
type Entry struct {
	Kind EntryKind
	Key  Key
	// Argument is the source text of a spread's operand.
	Argument string
	Span     Span
	// Pos is the key position for keyed entries and the entry start for spreads.
	Pos Position
	// Column is the 0-based byte column the entry starts at.
	Column int
	// Index is the entry's position in Object.Entries.
	Index            int
	LeadingComments  []Comment
	TrailingComments []Comment
	Object           *ObjectLiteral
	// Objects are the object literals nested anywhere inside this entry.
	Objects []*ObjectLiteral
}

// IsSpread reports whether e is a spread entry.
func (e *Entry) IsSpread() bool {
	return e.Kind == EntrySpread
}

// HasAdjacentComment reports whether a comment directly precedes or follows e.
func (e *Entry) HasAdjacentComment() bool {
	return len(e.LeadingComments) > 0 || len(e.TrailingComments) > 0
}

// Text returns the verbatim source of the entry.
func (e *Entry) Text(src []byte) string {
	return e.Span.Text(src)
}

// Prev returns the entry before e in its object, or nil.
func (e *Entry) Prev() *Entry {
	if e.Object == nil || e.Index == 0 {
		return nil
	}
	return e.Object.Entries[e.Index-1]
}

// ObjectLiteral is an object expression. Destructuring patterns are never
// represented as ObjectLiteral.
type ObjectLiteral struct {
	Span    Span
	Pos     Position
	Entries []*Entry
	// Parent is the entry this literal is nested in, nil at the outermost level.
	Parent *Entry
}

// Depth is the number of enclosing object literals.
func (o *ObjectLiteral) Depth() int {
	depth := 0
	for p := o.Parent; p != nil; p = p.Object.Parent {
		depth++
	}
	return depth
}

// File is a parsed source unit.
type File struct {
	Path     string
	Language Language
	Source   []byte
	// Objects are the outermost object literals in source order.
	Objects []*ObjectLiteral
	// HasErrors is set when tree-sitter recovered from syntax errors.
	HasErrors bool
}

// PositionAt converts a byte offset into a 1-based line and column.
func (f *File) PositionAt(offset int) Position {
	offset = min(max(offset, 0), len(f.Source))
	prefix := f.Source[:offset]
	lineStart := bytes.LastIndexByte(prefix, '\n') + 1
	return Position{
		Line:   bytes.Count(prefix, []byte{'\n'}) + 1,
		Column: utf16Len(prefix[lineStart:]) + 1,
	}
}

// utf16Len is the number of UTF-16 code units encoding b. Invalid bytes
// count as one unit each.
func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		n += utf16.RuneLen(r)
		b = b[size:]
	}
	return n
}
