package pintable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/OpenTraceLab/pinremap/pkg/cdf"
)

// ConfigurationError reports a renaming table that cannot be used: a
// missing column, a conflicting duplicate or an invalid replacement.
type ConfigurationError struct {
	Path   string
	Line   int    // 0 when the problem is not tied to a row
	Column string // Offending column, if any
	Err    error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

var (
	// ErrColumnNotFound is wrapped when the header lacks a required column
	ErrColumnNotFound = errors.New("column not found")

	// ErrDuplicateName is wrapped when a name is mapped to two replacements
	ErrDuplicateName = errors.New("conflicting duplicate entry")
)

// RenameEntry is one row of a renaming table
type RenameEntry struct {
	OriginalName string
	RemappedName string
	Line         int
}

// Table maps existing pin names to replacements. It implements cdf.Renamer.
type Table struct {
	entries []RenameEntry
	index   map[string]int // OriginalName -> position in entries
}

var _ cdf.Renamer = (*Table)(nil)

// NewTable builds a table from entries, applying the duplicate policy.
// Entries with an empty RemappedName are skipped.
func NewTable(entries []RenameEntry, policy DuplicatePolicy) (*Table, error) {
	t := &Table{index: make(map[string]int, len(entries))}

	for _, e := range entries {
		if e.RemappedName == "" {
			continue
		}
		if err := cdf.CheckName(e.RemappedName); err != nil {
			return nil, &ConfigurationError{Line: e.Line, Err: err}
		}

		i, seen := t.index[e.OriginalName]
		if !seen {
			t.index[e.OriginalName] = len(t.entries)
			t.entries = append(t.entries, e)
			continue
		}

		prev := t.entries[i]
		if prev.RemappedName == e.RemappedName {
			continue
		}

		switch policy {
		case DuplicateLast:
			t.entries[i] = e
		case DuplicateFirst:
		default:
			return nil, &ConfigurationError{
				Line: e.Line,
				Err: fmt.Errorf("%w: %q maps to %q (line %d) and %q",
					ErrDuplicateName, e.OriginalName, prev.RemappedName, prev.Line, e.RemappedName),
			}
		}
	}

	return t, nil
}

// Lookup returns the replacement of name
func (t *Table) Lookup(name string) (string, bool) {
	i, ok := t.index[name]
	if !ok {
		return "", false
	}
	return t.entries[i].RemappedName, true
}

// Len returns the number of distinct names in the table
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the effective entries in first-seen order
func (t *Table) Entries() []RenameEntry {
	out := make([]RenameEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// LoadRenameTable reads a renaming table from path
func LoadRenameTable(path string, cfg *Config) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open renaming table: %w", err)
	}
	defer f.Close()

	t, err := ReadRenameTable(f, cfg)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
		}
		return nil, err
	}
	return t, nil
}

// ReadRenameTable reads a delimited renaming table. The first row holds the
// column names; only the original and remapped columns are used. A leading
// UTF-8 byte order mark is ignored.
func ReadRenameTable(r io.Reader, cfg *Config) (*Table, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	cr := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	cr.Comma = cfg.Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ConfigurationError{Column: cfg.OriginalColumn, Err: fmt.Errorf("%w: table is empty", ErrColumnNotFound)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	origCol, err := columnIndex(header, cfg.OriginalColumn)
	if err != nil {
		return nil, err
	}
	newCol, err := columnIndex(header, cfg.RemappedColumn)
	if err != nil {
		return nil, err
	}

	var entries []RenameEntry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read renaming table: %w", err)
		}

		line, _ := cr.FieldPos(0)
		entries = append(entries, RenameEntry{
			OriginalName: field(row, origCol),
			RemappedName: field(row, newCol),
			Line:         line,
		})
	}

	return NewTable(entries, cfg.OnDuplicate)
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, &ConfigurationError{Column: name, Err: ErrColumnNotFound}
}

// field returns row[i] trimmed, or "" for short rows
func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
