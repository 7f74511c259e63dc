package trlevel

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Decrypter reverses the obfuscation applied to a level data block.
type Decrypter interface {
	Decrypt(data []byte) ([]byte, error)
}

// Hasher computes a content digest of a level file.
type Hasher interface {
	Hash(data []byte) string
}

// NopDecrypter returns its input unchanged.
type NopDecrypter struct{}

// Decrypt returns data as is.
func (NopDecrypter) Decrypt(data []byte) ([]byte, error) { return data, nil }

// XORDecrypter undoes a repeating-key XOR. The input is not modified.
type XORDecrypter struct {
	Key []byte
}

// Decrypt XORs data with the key.
func (x XORDecrypter) Decrypt(data []byte) ([]byte, error) {
	if len(x.Key) == 0 {
		return nil, errors.New("xor decrypter: empty key")
	}
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ x.Key[i%len(x.Key)]
	}
	return out, nil
}

// DecrypterFunc adapts a function to Decrypter.
type DecrypterFunc func([]byte) ([]byte, error)

// Decrypt calls f.
func (f DecrypterFunc) Decrypt(data []byte) ([]byte, error) { return f(data) }

// SHA256Hasher hashes with SHA-256 and returns lower-case hex.
type SHA256Hasher struct{}

// Hash returns the hex digest of data.
func (SHA256Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
