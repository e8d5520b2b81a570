package cdf

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/OpenTraceLab/pinremap/pkg/cdf/sexp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRemapEmptyTableIsIdentity(t *testing.T) {
	text := loadFixture(t)

	for _, names := range []Renamer{nil, RenameMap{}} {
		out, report, err := NewRemapper(nil).Remap(text, names)
		require.NoError(t, err)
		assert.Equal(t, text, out)
		assert.Zero(t, report.Total())
		assert.Equal(t, []string{"CLK", "GND", "RESET"}, report.Unmatched)
	}
}

func TestRemapScenario(t *testing.T) {
	text := crlf(
		`(compPin "1" (pinName "RESET") (partNum 1) (symPinNum 1) (gateEq 1) (pinEq 1) (pinType INPUT) )`,
		`(padNum 1) (compPinRef "RESET")`,
	)

	out, report, err := NewRemapper(nil).Remap(text, RenameMap{"RESET": "RST_N"})
	require.NoError(t, err)

	want := crlf(
		`(compPin "1" (pinName "RST_N") (partNum 1) (symPinNum 1) (gateEq 1) (pinEq 1) (pinType INPUT) )`,
		`(padNum 1) (compPinRef "RST_N")`,
	)
	assert.Equal(t, want, out)
	assert.Equal(t, 1, report.Section(SectionPinDescription).Substitutions)
	assert.Equal(t, 1, report.Section(SectionPinMap).Substitutions)
	assert.Equal(t, 0, report.Section(SectionPinLabel).References)
}

func TestRemapFixtureMatchesGolden(t *testing.T) {
	text := loadFixture(t)
	golden, err := ReadFile(testdata+"/soc.remap.golden", DefaultCharset)
	require.NoError(t, err)

	out, report, err := NewRemapper(nil).Remap(text, RenameMap{"RESET": "RST_N", "GND": "VSS"})
	require.NoError(t, err)
	assert.Equal(t, golden, out)

	for _, section := range Sections {
		stats := report.Section(section)
		assert.Equal(t, 4, stats.References, section.String())
		assert.Equal(t, 3, stats.Substitutions, section.String())
	}
	assert.Equal(t, []string{"CLK"}, report.Unmatched)
}

func TestRemapTargetedSubstitution(t *testing.T) {
	text := crlf(
		`(symbolDef "X"`,
		`  (pin (pinNum 1) (pinDisplay (dispPinName True))`,
		`    (pinDes (text (pt 0 0) "1" (justify Right)))`,
		`    (pinName (text (pt 0 0) "A1" (justify Left)))`,
		`  )`,
		`  (pin (pinNum 2) (pinDisplay (dispPinName True))`,
		`    (pinDes (text (pt 0 0) "2" (justify Right)))`,
		`    (pinName (text (pt 0 0) "B2" (justify Left)))`,
		`  )`,
		`)`,
		`(compDef "X"`,
		`  (compPin "1" (pinName "A1") (partNum 1) (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Input) )`,
		`  (compPin "2" (pinName "B2") (partNum 1) (symPinNum 2) (gateEq 0) (pinEq 0) (pinType Input) )`,
		`  (padPinMap (padNum 1) (compPinRef "A1") (padNum 2) (compPinRef "B2"))`,
		`)`,
	)

	out, report, err := NewRemapper(nil).Remap(text, RenameMap{"A1": "A1_NEW"})
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, `"A1_NEW"`))
	assert.Equal(t, 0, strings.Count(out, `"A1"`))
	assert.Equal(t, strings.Count(text, `"B2"`), strings.Count(out, `"B2"`))
	assert.Equal(t, strings.ReplaceAll(text, `"A1"`, `"A1_NEW"`), out)
	for _, section := range Sections {
		assert.Equal(t, 1, report.Section(section).Substitutions, section.String())
	}
}

func TestRemapNoCrossContamination(t *testing.T) {
	text := crlf(
		`(compPin "1" (pinName "CLK") (partNum 1) (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Input) )`,
		`(attr "Comment" "CLK_BUS")`,
		`(netNameRef "CLK")`,
		`(padNum 1) (compPinRef "CLK")`,
	)

	out, _, err := NewRemapper(nil).Remap(text, RenameMap{"CLK": "CLK2"})
	require.NoError(t, err)

	assert.Contains(t, out, `(attr "Comment" "CLK_BUS")`)
	assert.Contains(t, out, `(netNameRef "CLK")`, "clauses outside the three sections stay untouched")
	assert.Contains(t, out, `(pinName "CLK2")`)
	assert.Contains(t, out, `(compPinRef "CLK2")`)
}

func TestRemapDesignatorEqualToName(t *testing.T) {
	// The designator token equals the old name; only pinName changes
	text := `(compPin "GND" (pinName "GND") (partNum 1) (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Power) )`

	out, _, err := NewRemapper(nil).Remap(text, RenameMap{"GND": "VSS"})
	require.NoError(t, err)
	assert.Equal(t, `(compPin "GND" (pinName "VSS") (partNum 1) (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Power) )`, out)
}

func TestRemapSwap(t *testing.T) {
	text := crlf(
		`(compPin "1" (pinName "A") (partNum 1) (symPinNum 1) (gateEq 0) (pinEq 0) (pinType Input) )`,
		`(compPin "2" (pinName "B") (partNum 1) (symPinNum 2) (gateEq 0) (pinEq 0) (pinType Input) )`,
		`(padPinMap (padNum 1) (compPinRef "A") (padNum 2) (compPinRef "B"))`,
	)

	out, _, err := NewRemapper(nil).Remap(text, RenameMap{"A": "B", "B": "A"})
	require.NoError(t, err)

	records, err := Extract(out)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "B", records[0].PinName)
	assert.Equal(t, "A", records[1].PinName)
	assert.Contains(t, out, `(padNum 1) (compPinRef "B") (padNum 2) (compPinRef "A")`)
}

func TestRemapMalformedReturnsInput(t *testing.T) {
	text := `(compPin "1" (pinName "RESET`

	out, report, err := NewRemapper(nil).Remap(text, RenameMap{"RESET": "RST_N"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Equal(t, text, out)
	assert.Zero(t, report.Total())
}

func TestRemapRejectsInvalidName(t *testing.T) {
	text := `(padNum 1) (compPinRef "RESET")`

	for _, bad := range []string{`RST"N`, "RST\r\nN", ""} {
		out, _, err := NewRemapper(nil).Remap(text, RenameMap{"RESET": bad})
		require.Error(t, err, "%q", bad)
		assert.True(t, errors.Is(err, ErrInvalidName))
		assert.Equal(t, text, out)
	}
}

func TestRemapLogsUnmatchedNames(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	text := `(padNum 1) (compPinRef "RESET") (padNum 2) (compPinRef "NC")`

	_, report, err := NewRemapper(zap.New(core)).Remap(text, RenameMap{"RESET": "RST_N"})
	require.NoError(t, err)
	assert.Equal(t, []string{"NC"}, report.Unmatched)

	missing := logs.FilterMessage("No rename entry").All()
	require.Len(t, missing, 1)
	assert.Equal(t, "NC", missing[0].ContextMap()["name"])

	remapped := logs.FilterMessage("Remapped").All()
	require.Len(t, remapped, 1)
	assert.Equal(t, `(padNum 1) (compPinRef "RST_N")`, remapped[0].ContextMap()["new"])
}

func TestRemapPreservesLatin1AndCRLF(t *testing.T) {
	raw, err := os.ReadFile(testdata + "/soc.lia")
	require.NoError(t, err)

	text := loadFixture(t)
	out, _, err := NewRemapper(nil).Remap(text, RenameMap{})
	require.NoError(t, err)

	encoded, err := Encode(out, DefaultCharset)
	require.NoError(t, err)
	assert.Equal(t, raw, encoded)
	assert.Contains(t, string(raw), "\r\n")
}

func TestApplyEdits(t *testing.T) {
	src := "0123456789"

	out, err := applyEdits(src, []edit{
		{span: spanOf(6, 8), text: "xyz"},
		{span: spanOf(1, 2), text: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "02345xyz89", out)

	_, err = applyEdits(src, []edit{{span: spanOf(1, 4), text: "a"}, {span: spanOf(3, 5), text: "b"}})
	assert.Error(t, err, "overlapping edits")

	_, err = applyEdits(src, []edit{{span: spanOf(8, 12), text: "a"}})
	assert.Error(t, err, "out of range")
}

func spanOf(start, end int) sexp.Span {
	return sexp.Span{Start: start, End: end}
}
