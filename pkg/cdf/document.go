package cdf

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/pinremap/pkg/cdf/sexp"
)

// Document is a parsed component description. Text is never modified.
type Document struct {
	Text  string
	Roots []sexp.Node

	Pins      []PinDefinition // compPin clauses, document order
	PinMap    []Reference     // (padNum n) (compPinRef "name") pairs
	PinLabels []Reference     // pinName text of graphical pins

	// Diagnostics collects recoverable irregularities: unbalanced
	// brackets and compPin clauses that do not match the pin grammar.
	Diagnostics []sexp.Diagnostic
}

// Parse reads text and locates all pin references.
// An error wrapping ErrMalformed is returned if the text cannot be tokenized.
func Parse(text string) (*Document, error) {
	p, err := sexp.NewParser(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	roots, err := p.ParseAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc := &Document{
		Text:        text,
		Roots:       roots,
		Diagnostics: p.Diagnostics(),
	}

	sexp.Walk(roots, func(l *sexp.List) {
		switch l.Keyword() {
		case "compPin":
			def, err := parsePinDefinition(l)
			if err != nil {
				doc.Diagnostics = append(doc.Diagnostics, sexp.Diagnostic{
					Offset:  l.Span().Start,
					Message: err.Error(),
				})
				return
			}
			doc.Pins = append(doc.Pins, def)

		case "pin":
			if ref, ok := parsePinLabel(l); ok {
				doc.PinLabels = append(doc.PinLabels, ref)
			}
		}

		doc.PinMap = append(doc.PinMap, parsePinMap(l)...)
	})

	// Pairs may also sit at top level, outside any list
	doc.PinMap = append(doc.PinMap, parsePinMap(sexp.NewList(roots, sexp.Span{End: len(text)}))...)
	sort.SliceStable(doc.PinMap, func(i, j int) bool {
		return doc.PinMap[i].Span.Start < doc.PinMap[j].Span.Start
	})
	sortDiagnostics(doc.Diagnostics)

	return doc, nil
}

// Records returns the pin definitions as plain records
func (d *Document) Records() []PinRecord {
	records := make([]PinRecord, 0, len(d.Pins))
	for _, def := range d.Pins {
		records = append(records, def.PinRecord)
	}
	return records
}

// References returns the references of one section in document order
func (d *Document) References(section Section) []Reference {
	switch section {
	case SectionPinDescription:
		refs := make([]Reference, 0, len(d.Pins))
		for _, def := range d.Pins {
			refs = append(refs, def.Name)
		}
		return refs
	case SectionPinMap:
		return d.PinMap
	case SectionPinLabel:
		return d.PinLabels
	}
	return nil
}

// AllReferences returns the references of every section, ordered by section
// and then by position
func (d *Document) AllReferences() []Reference {
	var refs []Reference
	for _, section := range Sections {
		refs = append(refs, d.References(section)...)
	}
	return refs
}

// pinFields is the fixed order of the sub-clauses following the designator
var pinFields = []string{"pinName", "partNum", "symPinNum", "gateEq", "pinEq", "pinType"}

// parsePinDefinition recognizes
// (compPin "1" (pinName "RESET") (partNum 1) (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Input) )
func parsePinDefinition(l *sexp.List) (PinDefinition, error) {
	var def PinDefinition

	if l.Len() != 2+len(pinFields) {
		return def, fmt.Errorf("compPin clause has %d elements, want %d", l.Len(), 2+len(pinFields))
	}

	designator, ok := sexp.StringAt(l, 1)
	if !ok {
		return def, fmt.Errorf("compPin designator is not a quoted string")
	}
	def.CompPin = designator.Value

	ints := []*int{&def.PartNum, &def.SymPinNum, &def.GateEq, &def.PinEq}
	for i, key := range pinFields {
		field, ok := l.Get(2 + i).(*sexp.List)
		if !ok || field.Keyword() != key || field.Len() != 2 {
			return def, fmt.Errorf("compPin %q: expected (%s <value>) at position %d", def.CompPin, key, 2+i)
		}

		switch key {
		case "pinName":
			name, ok := sexp.StringAt(field, 1)
			if !ok {
				return def, fmt.Errorf("compPin %q: pinName is not a quoted string", def.CompPin)
			}
			def.PinName = name.Value
			def.Name = Reference{
				Section: SectionPinDescription,
				Name:    name.Value,
				Span:    name.Span(),
				Clause:  l.Span(),
			}
		case "pinType":
			typ, _ := sexp.AtomAt(field, 1)
			if typ == nil {
				return def, fmt.Errorf("compPin %q: pinType is not an atom", def.CompPin)
			}
			def.PinType = typ.Value
		default:
			n, ok := sexp.IntAt(field, 1)
			if !ok {
				return def, fmt.Errorf("compPin %q: %s is not an integer", def.CompPin, key)
			}
			*ints[i-1] = n
		}
	}

	return def, nil
}

// parsePinMap recognizes adjacent (padNum n) (compPinRef "name") children
// of l. The reference string is treated as a pin name.
func parsePinMap(l *sexp.List) []Reference {
	var refs []Reference
	elems := l.Elements()

	for i := 0; i+1 < len(elems); i++ {
		pad, ok := elems[i].(*sexp.List)
		if !ok || pad.Keyword() != "padNum" || pad.Len() != 2 {
			continue
		}
		if _, ok := sexp.IntAt(pad, 1); !ok {
			continue
		}

		ref, ok := elems[i+1].(*sexp.List)
		if !ok || ref.Keyword() != "compPinRef" || ref.Len() != 2 {
			continue
		}
		name, ok := sexp.StringAt(ref, 1)
		if !ok {
			continue
		}

		refs = append(refs, Reference{
			Section: SectionPinMap,
			Name:    name.Value,
			Span:    name.Span(),
			Clause:  sexp.Span{Start: pad.Span().Start, End: ref.Span().End},
		})
		i++
	}

	return refs
}

// parsePinLabel recognizes a graphical pin of a symbol definition:
//
//	(pin (pinNum 1) (pt 0 0) (rotation 180.0) (pinLength 200)
//	  (pinDisplay (dispPinName True))
//	  (pinDes (text (pt -95 15) "1" (textStyleRef "(PinStyle)") (justify Right)))
//	  (pinName (text (pt -235 -35) "RESET" (textStyleRef "(PinStyle)") (justify Right)))
//	)
//
// pinDisplay and pinDes are optional; pinNum and the pinName text are not.
func parsePinLabel(l *sexp.List) (Reference, bool) {
	num, ok := sexp.FindNode(l, "pinNum")
	if !ok {
		return Reference{}, false
	}
	if _, ok := sexp.IntAt(num, 1); !ok {
		return Reference{}, false
	}

	label, ok := sexp.FindNode(l, "pinName")
	if !ok {
		return Reference{}, false
	}
	text, ok := sexp.FindNode(label, "text")
	if !ok {
		return Reference{}, false
	}
	name, ok := sexp.FirstString(text)
	if !ok {
		return Reference{}, false
	}

	return Reference{
		Section: SectionPinLabel,
		Name:    name.Value,
		Span:    name.Span(),
		Clause:  l.Span(),
	}, true
}

// sortDiagnostics orders diagnostics by offset
func sortDiagnostics(diags []sexp.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Offset < diags[j].Offset
	})
}
