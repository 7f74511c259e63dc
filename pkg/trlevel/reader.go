// Package trlevel decodes Tomb Raider level files (TR1 to TR5, remastered
// variants) into a read-only, version-agnostic Level.
package trlevel

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Reader is a bounds-checked cursor over a byte slice. All multi-byte values
// are little-endian. A Reader must not be shared between goroutines.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the cursor offset from the start of the buffer.
func (r *Reader) Position() int {
	return r.pos
}

// SetPosition moves the cursor to an absolute offset.
// Moving exactly to the end of the buffer is allowed.
func (r *Reader) SetPosition(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return fmt.Errorf("%w: seek to %d in %d bytes", ErrOutOfData, pos, len(r.data))
	}
	r.pos = pos
	return nil
}

// Len returns the total size of the buffer.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// EOF reports whether every byte has been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.data)
}

func (r *Reader) need(n int) error {
	if n < 0 || n > r.Remaining() {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrOutOfData, n, r.pos, r.Remaining())
	}
	return nil
}

// Skip advances the cursor by n bytes without reading them.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Peek returns the next n bytes without advancing. The returned slice
// aliases the buffer and must not be modified.
func (r *Reader) Peek(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	return r.data[r.pos : r.pos+n], nil
}

// Bytes reads n bytes into a new slice.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// Read decodes a fixed-size value (a number, array or struct of numbers) into v,
// which must be a pointer.
func (r *Reader) Read(v any) error {
	size := binary.Size(v)
	if size < 0 {
		return fmt.Errorf("%w: %T has no fixed size", ErrUnsupportedSection, v)
	}
	if err := r.need(size); err != nil {
		return err
	}
	if err := binary.Read(bytes.NewReader(r.data[r.pos:r.pos+size]), binary.LittleEndian, v); err != nil {
		return fmt.Errorf("%w: decoding %T: %v", ErrOutOfData, v, err)
	}
	r.pos += size
	return nil
}

// U8 reads an unsigned byte.
func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

// U16 reads an unsigned 16-bit value.
func (r *Reader) U16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// I16 reads a signed 16-bit value.
func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

// U32 reads an unsigned 32-bit value.
func (r *Reader) U32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// I32 reads a signed 32-bit value.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// F32 reads an IEEE 754 single precision value.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

// PeekU32 returns the next 32-bit value without advancing.
func (r *Reader) PeekU32() (uint32, error) {
	b, err := r.Peek(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadVector reads count contiguous fixed-size elements. The count is checked
// against the remaining buffer before anything is allocated, so a corrupt
// count fails with ErrOutOfData instead of exhausting memory.
func ReadVector[T any](r *Reader, count int) ([]T, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", ErrOutOfData, count)
	}
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		return nil, fmt.Errorf("%w: %T has no fixed size", ErrUnsupportedSection, zero)
	}
	if count > r.Remaining()/size {
		return nil, fmt.Errorf("%w: %d x %T (%d bytes each) at offset %d, have %d bytes",
			ErrOutOfData, count, zero, size, r.pos, r.Remaining())
	}
	if count == 0 {
		return []T{}, nil
	}
	out := make([]T, count)
	n := count * size
	if err := binary.Read(bytes.NewReader(r.data[r.pos:r.pos+n]), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("%w: decoding %T: %v", ErrOutOfData, zero, err)
	}
	r.pos += n
	return out, nil
}

// ReadCounted reads a count of type C followed by that many elements of T.
func ReadCounted[C constraints.Integer, T any](r *Reader) ([]T, error) {
	var count C
	if err := r.Read(&count); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", ErrOutOfData, count)
	}
	if uint64(count) > uint64(r.Remaining()) {
		return nil, fmt.Errorf("%w: count %d exceeds %d remaining bytes", ErrOutOfData, count, r.Remaining())
	}
	return ReadVector[T](r, int(count))
}
