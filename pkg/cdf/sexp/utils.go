package sexp

import (
	"strconv"
)

// S-expression navigation helpers

// FindNode returns the first child list headed by key
// Example: FindNode((pin (pinNum 1) (pt 0 0)), "pinNum") finds (pinNum 1)
func FindNode(l *List, key string) (*List, bool) {
	for _, item := range l.elements {
		if sub, ok := item.(*List); ok && sub.Keyword() == key {
			return sub, true
		}
	}
	return nil, false
}

// FindAllNodes returns all child lists headed by key
func FindAllNodes(l *List, key string) []*List {
	var results []*List
	for _, item := range l.elements {
		if sub, ok := item.(*List); ok && sub.Keyword() == key {
			results = append(results, sub)
		}
	}
	return results
}

// AtomAt returns the atom at index, if that element is an atom
func AtomAt(l *List, index int) (*Atom, bool) {
	atom, ok := l.Get(index).(*Atom)
	return atom, ok
}

// StringAt returns the quoted string atom at index
// Example: StringAt((compPinRef "RESET"), 1) returns the atom for "RESET"
func StringAt(l *List, index int) (*Atom, bool) {
	atom, ok := AtomAt(l, index)
	if !ok || !atom.Quoted {
		return nil, false
	}
	return atom, true
}

// IntAt parses the unquoted atom at index as a decimal integer
func IntAt(l *List, index int) (int, bool) {
	atom, ok := AtomAt(l, index)
	if !ok || atom.Quoted {
		return 0, false
	}
	n, err := strconv.Atoi(atom.Value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FirstString returns the first quoted string among the direct children of l
func FirstString(l *List) (*Atom, bool) {
	for _, item := range l.elements {
		if atom, ok := item.(*Atom); ok && atom.Quoted {
			return atom, true
		}
	}
	return nil, false
}

// Walk visits every list in document order (pre-order), descending into
// children after fn returns for the parent.
func Walk(nodes []Node, fn func(*List)) {
	for _, n := range nodes {
		l, ok := n.(*List)
		if !ok {
			continue
		}
		fn(l)
		Walk(l.elements, fn)
	}
}
