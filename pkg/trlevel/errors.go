package trlevel

import "errors"

// Decode errors. Every failure returned by Load wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	ErrOutOfData          = errors.New("out of data")
	ErrDecompression      = errors.New("decompression error")
	ErrUnrecognisedFormat = errors.New("unrecognised level format")
	ErrUnsupportedSection = errors.New("unsupported section")
	ErrEncrypted          = errors.New("level data is encrypted")
)
