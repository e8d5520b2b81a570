// Package pintable reads and writes the tabular side of a pin remap: the
// exported pin list and the user-edited renaming table.
package pintable

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/OpenTraceLab/pinremap/pkg/cdf"
)

// Header is the header row of an exported pin list
var Header = []string{"compPin", "pinName", "partNum", "symPinNum", "gateEq", "pinEq", "pinType"}

// WriteRecords writes records as comma-separated values with a header row
func WriteRecords(w io.Writer, records []cdf.PinRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.CompPin,
			r.PinName,
			strconv.Itoa(r.PartNum),
			strconv.Itoa(r.SymPinNum),
			strconv.Itoa(r.GateEq),
			strconv.Itoa(r.PinEq),
			r.PinType,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write pin %s: %w", r.CompPin, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadRecords reads a pin list written by WriteRecords
func ReadRecords(r io.Reader) ([]cdf.PinRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("pin list is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, name := range Header {
		if header[i] != name {
			return nil, fmt.Errorf("column %d is %q, want %q", i+1, header[i], name)
		}
	}

	records := []cdf.PinRecord{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := cdf.PinRecord{CompPin: row[0], PinName: row[1], PinType: row[6]}
		ints := []*int{&rec.PartNum, &rec.SymPinNum, &rec.GateEq, &rec.PinEq}
		for i, dst := range ints {
			n, err := strconv.Atoi(row[2+i])
			if err != nil {
				line, _ := cr.FieldPos(2 + i)
				return nil, fmt.Errorf("line %d: %s: %w", line, Header[2+i], err)
			}
			*dst = n
		}
		records = append(records, rec)
	}

	return records, nil
}
