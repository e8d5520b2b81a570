package cdf

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdata = "../../testdata"

// crlf joins lines the way PCAD exports do
func crlf(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

func loadFixture(t *testing.T) string {
	t.Helper()
	text, err := ReadFile(testdata+"/soc.lia", DefaultCharset)
	require.NoError(t, err)
	return text
}

func TestExtractFixture(t *testing.T) {
	records, err := Extract(loadFixture(t))
	require.NoError(t, err)

	want := []PinRecord{
		{CompPin: "1", PinName: "RESET", PartNum: 1, SymPinNum: 1, PinType: "Input"},
		{CompPin: "2", PinName: "CLK", PartNum: 1, SymPinNum: 2, PinType: "Input"},
		{CompPin: "3", PinName: "GND", PartNum: 1, SymPinNum: 3, PinType: "Power"},
		{CompPin: "4", PinName: "GND", PartNum: 1, SymPinNum: 4, PinType: "Power"},
	}
	assert.Equal(t, want, records)
}

func TestExtractFieldValues(t *testing.T) {
	text := crlf(`(compPin "A7" (pinName "VDD_IO") (partNum 2) (symPinNum 14)`,
		`  (gateEq 3) (pinEq 5) (pinType Power) )`)

	records, err := Extract(text)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, PinRecord{
		CompPin: "A7", PinName: "VDD_IO", PartNum: 2, SymPinNum: 14,
		GateEq: 3, PinEq: 5, PinType: "Power",
	}, records[0])
}

func TestExtractNoPins(t *testing.T) {
	records, err := Extract(crlf(`ACCEL_ASCII "empty.lia"`, `(library "Library_1")`))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestExtractMalformed(t *testing.T) {
	records, err := Extract(`(compPin "1 (pinName "RESET")`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Empty(t, records)
}

func TestParseSkipsIrregularPinClauses(t *testing.T) {
	tests := []struct {
		name   string
		clause string
	}{
		{name: "missing pinEq", clause: `(compPin "1" (pinName "A") (partNum 1) (symPinNum 1) (gateEq 0) (pinType Input) )`},
		{name: "swapped order", clause: `(compPin "1" (partNum 1) (pinName "A") (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Input) )`},
		{name: "unquoted name", clause: `(compPin "1" (pinName A) (partNum 1) (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Input) )`},
		{name: "non integer", clause: `(compPin "1" (pinName "A") (partNum x) (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Input) )`},
		{name: "unquoted designator", clause: `(compPin 1 (pinName "A") (partNum 1) (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Input) )`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.clause)
			require.NoError(t, err)
			assert.Empty(t, doc.Pins)
			require.Len(t, doc.Diagnostics, 1)
			assert.Contains(t, doc.Diagnostics[0].Message, "compPin")
		})
	}
}

func TestParseSections(t *testing.T) {
	text := loadFixture(t)
	doc, err := Parse(text)
	require.NoError(t, err)
	assert.Empty(t, doc.Diagnostics)

	names := func(refs []Reference) []string {
		var out []string
		for _, r := range refs {
			assert.Equal(t, `"`+r.Name+`"`, r.Span.Text(text), "span must cover the quoted token")
			out = append(out, r.Name)
		}
		return out
	}

	want := []string{"RESET", "CLK", "GND", "GND"}
	assert.Equal(t, want, names(doc.References(SectionPinDescription)))
	assert.Equal(t, want, names(doc.References(SectionPinMap)))
	assert.Equal(t, want, names(doc.References(SectionPinLabel)))
	assert.Len(t, doc.AllReferences(), 12)
}

func TestParsePinMapLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "top level pair",
			input: `(padNum 1) (compPinRef "RESET")`,
			want:  []string{"RESET"},
		},
		{
			name:  "double space and newline",
			input: crlf("(padPinMap", "  (padNum  1)", "  (compPinRef \"A\")", "  (padNum 2) (compPinRef \"B\"))"),
			want:  []string{"A", "B"},
		},
		{
			name:  "reference without pad",
			input: `(padPinMap (compPinRef "A") (padNum 2) (compPinRef "B"))`,
			want:  []string{"B"},
		},
		{
			name:  "non numeric pad",
			input: `(padPinMap (padNum x) (compPinRef "A"))`,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			require.NoError(t, err)
			var got []string
			for _, ref := range doc.PinMap {
				got = append(got, ref.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePinLabelOptionalParts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{
			name:  "full",
			input: `(pin (pinNum 1) (pinDisplay (dispPinName True)) (pinDes (text (pt 0 0) "1")) (pinName (text (pt 0 0) "RESET")))`,
			want:  "RESET",
			found: true,
		},
		{
			name:  "without display and designator",
			input: `(pin (pinNum 1) (pinName (text (pt 0 0) "RESET" (textStyleRef "(PinStyle)"))))`,
			want:  "RESET",
			found: true,
		},
		{
			name:  "no pin number",
			input: `(pin (pinName (text (pt 0 0) "RESET")))`,
		},
		{
			name:  "no text",
			input: `(pin (pinNum 1) (pinName "RESET"))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			require.NoError(t, err)
			if !tt.found {
				assert.Empty(t, doc.PinLabels)
				return
			}
			require.Len(t, doc.PinLabels, 1)
			assert.Equal(t, tt.want, doc.PinLabels[0].Name)
		})
	}
}
