package cdf

// Extract returns the pin definitions of text in document order.
//
// A document without pin definitions yields an empty slice and no error;
// the caller decides whether that deserves a warning. An error wrapping
// ErrMalformed means the text could not be tokenized at all.
func Extract(text string) ([]PinRecord, error) {
	doc, err := Parse(text)
	if err != nil {
		return []PinRecord{}, err
	}
	return doc.Records(), nil
}
