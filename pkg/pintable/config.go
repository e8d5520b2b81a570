package pintable

import (
	"fmt"
	"unicode/utf8"
)

// DuplicatePolicy controls what happens when a renaming table lists the same
// original name more than once with different replacements.
type DuplicatePolicy string

const (
	// DuplicateError rejects the table (identical duplicates are accepted)
	DuplicateError DuplicatePolicy = "error"
	// DuplicateLast keeps the last row, overwriting earlier ones
	DuplicateLast DuplicatePolicy = "last"
	// DuplicateFirst keeps the first row and ignores later ones
	DuplicateFirst DuplicatePolicy = "first"
)

// Config controls how a renaming table is read.
type Config struct {
	Delimiter      rune            // Field separator (default: ';')
	OriginalColumn string          // Header of the existing pin names (default: "pinName")
	RemappedColumn string          // Header of the new pin names (default: "pinNameRemapped")
	OnDuplicate    DuplicatePolicy // Conflicting duplicate rows (default: error)
}

// DefaultConfig returns the layout produced by copying an exported pin list
// and adding a pinNameRemapped column in a spreadsheet.
func DefaultConfig() *Config {
	return &Config{
		Delimiter:      ';',
		OriginalColumn: "pinName",
		RemappedColumn: "pinNameRemapped",
		OnDuplicate:    DuplicateError,
	}
}

// Validate fills in defaults and checks the configuration for errors
func (c *Config) Validate() error {
	def := DefaultConfig()

	if c.Delimiter == 0 {
		c.Delimiter = def.Delimiter
	}
	if c.Delimiter == '"' || c.Delimiter == '\r' || c.Delimiter == '\n' || c.Delimiter == utf8.RuneError {
		return fmt.Errorf("invalid delimiter %q", c.Delimiter)
	}
	if c.OriginalColumn == "" {
		c.OriginalColumn = def.OriginalColumn
	}
	if c.RemappedColumn == "" {
		c.RemappedColumn = def.RemappedColumn
	}
	if c.OriginalColumn == c.RemappedColumn {
		return fmt.Errorf("original and remapped columns are both %q", c.OriginalColumn)
	}

	switch c.OnDuplicate {
	case "":
		c.OnDuplicate = def.OnDuplicate
	case DuplicateError, DuplicateLast, DuplicateFirst:
	default:
		return fmt.Errorf("unknown duplicate policy %q (want error, last or first)", c.OnDuplicate)
	}

	return nil
}
