package cmd

import (
	"errors"

	"github.com/OpenTraceLab/pinremap/pkg/cdf"
	"github.com/OpenTraceLab/pinremap/pkg/pintable"
)

// errorKind labels err for the error metric
func errorKind(err error, fallback string) string {
	var (
		decErr *cdf.DecodingError
		encErr *cdf.EncodingError
		cfgErr *pintable.ConfigurationError
	)

	switch {
	case errors.As(err, &decErr):
		return "decoding"
	case errors.As(err, &encErr):
		return "encoding"
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.Is(err, cdf.ErrInvalidName):
		return "configuration"
	default:
		return fallback
	}
}
