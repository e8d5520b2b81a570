package cdf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OpenTraceLab/pinremap/pkg/cdf/sexp"
)

// edit replaces the bytes of span with text
type edit struct {
	span sexp.Span
	text string
}

// applyEdits builds a copy of src with every edit applied. Bytes outside the
// edited spans are copied unchanged. Edits must not overlap.
func applyEdits(src string, edits []edit) (string, error) {
	if len(edits) == 0 {
		return src, nil
	}

	sorted := make([]edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].span.Start < sorted[j].span.Start
	})

	var b strings.Builder
	b.Grow(len(src))

	pos := 0
	for i, e := range sorted {
		if e.span.Start < 0 || e.span.End > len(src) || e.span.Start > e.span.End {
			return "", fmt.Errorf("edit %d: span [%d,%d) out of range", i, e.span.Start, e.span.End)
		}
		if e.span.Start < pos {
			return "", fmt.Errorf("edit %d: span [%d,%d) overlaps previous edit", i, e.span.Start, e.span.End)
		}
		b.WriteString(src[pos:e.span.Start])
		b.WriteString(e.text)
		pos = e.span.End
	}
	b.WriteString(src[pos:])

	return b.String(), nil
}
