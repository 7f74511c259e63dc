// Package encoding converts the Windows-1252 text found in level packs.
package encoding

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Windows1252ToUTF8 converts Windows-1252 bytes to a UTF-8 string.
// Returns the input unchanged if conversion fails.
func Windows1252ToUTF8(data []byte) string {
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToWindows1252 converts a UTF-8 string to Windows-1252 bytes.
// Returns the raw UTF-8 bytes if s has characters Windows-1252 cannot hold.
func UTF8ToWindows1252(s string) []byte {
	result, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// TrimNullBytes removes trailing null bytes.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

// FixedString decodes a null-padded Windows-1252 field, stopping at the
// first null.
func FixedString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return Windows1252ToUTF8(data)
}

// ToFixedString encodes s as Windows-1252 into a null-padded field of size
// bytes, truncating if needed.
func ToFixedString(s string, size int) []byte {
	out := make([]byte, size)
	copy(out, UTF8ToWindows1252(s))
	return out
}
