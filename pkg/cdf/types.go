// Package cdf reads and rewrites pin data in PCAD ASCII component
// descriptions (.lia library exports).
//
// A component is described in three places that each name its pins:
//
//	(compPin "1" (pinName "RESET") (partNum 1) (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Input) )
//	(padNum 1) (compPinRef "RESET")
//	(pin (pinNum 1) ... (pinName (text (pt 0 0) "RESET" ...)))
//
// Extract lists the pin definitions; Remapper renames pins in all three
// places at once by replacing only the quoted name tokens.
package cdf

import (
	"github.com/OpenTraceLab/pinremap/pkg/cdf/sexp"
)

// PinRecord is one pin definition of the component
type PinRecord struct {
	CompPin   string // Pad designator, unique within a document
	PinName   string // Logical name, may repeat (e.g. several GND pins)
	PartNum   int
	SymPinNum int
	GateEq    int
	PinEq     int
	PinType   string
}

// Section identifies where in the document a pin name is referenced
type Section int

const (
	SectionPinDescription Section = iota
	SectionPinMap
	SectionPinLabel
)

// Sections lists all sections in processing order
var Sections = []Section{SectionPinDescription, SectionPinMap, SectionPinLabel}

func (s Section) String() string {
	switch s {
	case SectionPinDescription:
		return "pin-description"
	case SectionPinMap:
		return "pin-map"
	case SectionPinLabel:
		return "pin-label"
	default:
		return "unknown"
	}
}

// Reference is one occurrence of a pin name in the document
type Reference struct {
	Section Section
	Name    string
	Span    sexp.Span // Quoted string token holding Name, quotes included
	Clause  sexp.Span // Enclosing clause, for diagnostics
}

// PinDefinition is a recognized compPin clause
type PinDefinition struct {
	PinRecord
	Name Reference
}
