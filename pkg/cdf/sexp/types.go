// Package sexp provides a span-preserving S-expression reader for PCAD ASCII
// library files. Every atom and list remembers the byte range it occupies in
// the source text, so callers can rewrite individual tokens without
// re-serializing the document.
package sexp

import "strings"

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// Text returns the slice of src covered by the span
func (s Span) Text(src string) string {
	return src[s.Start:s.End]
}

// Overlaps reports whether two spans share at least one byte
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Node represents an S-expression node.
// It is either a leaf (*Atom) or a list (*List).
type Node interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// Span returns the byte range of the node in the source text
	Span() Span

	// String returns a normalized representation (single spaces, quotes kept)
	String() string
}

// Atom is a symbol, number or quoted string.
type Atom struct {
	Value  string // Unquoted value
	Quoted bool   // True if the token was a "quoted string"
	span   Span
}

func (a *Atom) IsLeaf() bool { return true }
func (a *Atom) Span() Span   { return a.span }

func (a *Atom) String() string {
	if a.Quoted {
		return `"` + a.Value + `"`
	}
	return a.Value
}

// ValueSpan returns the span of the atom's value, excluding quotes
func (a *Atom) ValueSpan() Span {
	if a.Quoted {
		return Span{Start: a.span.Start + 1, End: a.span.End - 1}
	}
	return a.span
}

// List is a parenthesized sequence of nodes. Its span runs from the opening
// to the closing parenthesis inclusive.
type List struct {
	elements []Node
	span     Span
}

func (l *List) IsLeaf() bool { return false }
func (l *List) Span() Span   { return l.span }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.elements)
}

// Get returns the element at the given index
func (l *List) Get(index int) Node {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Elements returns the list elements. The slice must not be modified.
func (l *List) Elements() []Node {
	return l.elements
}

// Keyword returns the unquoted symbol heading the list, or "" if the list is
// empty or starts with a string or a sub-list.
// Example: Keyword((pinNum 1)) returns "pinNum"
func (l *List) Keyword() string {
	if len(l.elements) == 0 {
		return ""
	}
	atom, ok := l.elements[0].(*Atom)
	if !ok || atom.Quoted {
		return ""
	}
	return atom.Value
}

// Diagnostic describes a recoverable irregularity found while reading.
type Diagnostic struct {
	Offset  int
	Message string
}

// NewList wraps nodes in a list spanning span. It is used to treat a
// sequence of top-level nodes like the children of a list.
func NewList(elements []Node, span Span) *List {
	return &List{elements: elements, span: span}
}
