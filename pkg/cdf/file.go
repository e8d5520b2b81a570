package cdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultCharset is the character set of PCAD ASCII exports
const DefaultCharset = "ISO-8859-1"

// DefaultSuffix is inserted before the extension of remapped files
const DefaultSuffix = ".remap"

// LookupCharset resolves an IANA character set name
func LookupCharset(name string) (encoding.Encoding, error) {
	if name == "" || strings.EqualFold(name, DefaultCharset) {
		return charmap.ISO8859_1, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q is not supported", name)
	}
	return enc, nil
}

// Decode converts raw file bytes to text. Line endings are left untouched.
func Decode(data []byte, charset string) (string, error) {
	enc, err := LookupCharset(charset)
	if err != nil {
		return "", err
	}

	text, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}

	// Decoders substitute U+FFFD for invalid input instead of failing
	if i := strings.IndexRune(string(text), utf8.RuneError); i >= 0 && !containsReplacementChar(data, charset) {
		return "", fmt.Errorf("invalid byte sequence near decoded offset %d", i)
	}

	return string(text), nil
}

// containsReplacementChar reports whether U+FFFD is legitimately part of the
// input, which is only possible for UTF-8 sources.
func containsReplacementChar(data []byte, charset string) bool {
	if !strings.EqualFold(charset, "UTF-8") && !strings.EqualFold(charset, "UTF8") {
		return false
	}
	return utf8.Valid(data)
}

// Encode converts text back to the file character set
func Encode(text, charset string) ([]byte, error) {
	enc, err := LookupCharset(charset)
	if err != nil {
		return nil, err
	}
	return enc.NewEncoder().Bytes([]byte(text))
}

// ReadFile reads a document and decodes it with charset
func ReadFile(path, charset string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, err := Decode(data, charset)
	if err != nil {
		return "", &DecodingError{Path: path, Charset: charsetName(charset), Err: err}
	}
	return text, nil
}

// WriteFile encodes text with charset and writes it to path
func WriteFile(path, text, charset string) error {
	data, err := Encode(text, charset)
	if err != nil {
		return &EncodingError{Path: path, Charset: charsetName(charset), Err: err}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// OutputPath derives the path of a remapped document: soc.lia becomes
// soc.remap.lia. The result never equals path.
func OutputPath(path, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// SamePath reports whether a and b name the same file
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}

	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

func charsetName(charset string) string {
	if charset == "" {
		return DefaultCharset
	}
	return charset
}
