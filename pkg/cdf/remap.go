package cdf

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Renamer maps an existing pin name to its replacement
type Renamer interface {
	Lookup(name string) (string, bool)
}

// RenameMap is a Renamer backed by a plain map
type RenameMap map[string]string

// Lookup implements Renamer
func (m RenameMap) Lookup(name string) (string, bool) {
	newName, ok := m[name]
	return newName, ok
}

// SectionStats counts the references of one section
type SectionStats struct {
	References    int // Recognized occurrences
	Substitutions int // Occurrences rewritten
}

// Substitution records one rewritten occurrence
type Substitution struct {
	Section Section
	Offset  int // Start of the quoted token in the source text
	OldName string
	NewName string
}

// Report summarizes a remap run
type Report struct {
	Stats         map[Section]SectionStats
	Substitutions []Substitution

	// Unmatched lists, sorted and without duplicates, the referenced
	// names that have no table entry.
	Unmatched []string
}

// Section returns the stats of one section
func (r *Report) Section(s Section) SectionStats {
	return r.Stats[s]
}

// Total returns the number of rewritten occurrences
func (r *Report) Total() int {
	return len(r.Substitutions)
}

// Remapper renames pins across the pin-description, pin-map and pin-label
// sections of a document.
type Remapper struct {
	log *zap.Logger
}

// NewRemapper creates a remapper. A nil logger discards all output.
func NewRemapper(log *zap.Logger) *Remapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Remapper{log: log}
}

// Remap returns a copy of text where every pin name found in names is
// replaced in all three sections. Only the quoted name tokens change; every
// other byte is copied from text.
//
// A malformed document is returned unchanged together with an error wrapping
// ErrMalformed. A replacement that cannot be written inside a quoted string
// fails with ErrInvalidName.
func (r *Remapper) Remap(text string, names Renamer) (string, *Report, error) {
	report := &Report{Stats: make(map[Section]SectionStats, len(Sections))}

	doc, err := Parse(text)
	if err != nil {
		return text, report, err
	}
	for _, d := range doc.Diagnostics {
		r.log.Debug("Irregular clause", zap.Int("offset", d.Offset), zap.String("detail", d.Message))
	}

	if names == nil {
		names = RenameMap{}
	}

	var edits []edit
	unmatched := make(map[string]struct{})

	for _, section := range Sections {
		stats := report.Stats[section]

		for _, ref := range doc.References(section) {
			stats.References++

			newName, ok := names.Lookup(ref.Name)
			if !ok {
				unmatched[ref.Name] = struct{}{}
				r.log.Debug("No rename entry",
					zap.Stringer("section", section),
					zap.String("name", ref.Name),
					zap.Int("offset", ref.Span.Start))
				continue
			}
			if newName == ref.Name {
				continue
			}
			if err := CheckName(newName); err != nil {
				return text, report, err
			}

			edits = append(edits, edit{span: ref.Span, text: `"` + newName + `"`})
			report.Substitutions = append(report.Substitutions, Substitution{
				Section: section,
				Offset:  ref.Span.Start,
				OldName: ref.Name,
				NewName: newName,
			})
			stats.Substitutions++

			r.log.Debug("Remapped",
				zap.Stringer("section", section),
				zap.String("old", ref.Clause.Text(text)),
				zap.String("new", text[ref.Clause.Start:ref.Span.Start]+`"`+newName+`"`+text[ref.Span.End:ref.Clause.End]))
		}

		report.Stats[section] = stats
	}

	for name := range unmatched {
		report.Unmatched = append(report.Unmatched, name)
	}
	sort.Strings(report.Unmatched)

	out, err := applyEdits(text, edits)
	if err != nil {
		return text, report, fmt.Errorf("rewrite: %w", err)
	}

	return out, report, nil
}

// CheckName reports whether name can be written as a quoted PCAD string
func CheckName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.ContainsAny(name, "\"\r\n") {
		return fmt.Errorf("%w: %q contains a quote or line break", ErrInvalidName, name)
	}
	return nil
}
