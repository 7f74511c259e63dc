package trlevel

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Inflate decompresses a zlib stream that must expand to exactly
// uncompressedSize bytes. On any mismatch or stream error it returns
// ErrDecompression and no data.
func Inflate(compressed []byte, uncompressedSize uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	defer zr.Close()

	// Read one byte past the declared size so an oversized stream is caught
	// without trusting the header for the allocation.
	var out bytes.Buffer
	n, err := io.Copy(&out, io.LimitReader(zr, int64(uncompressedSize)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	if n != int64(uncompressedSize) {
		return nil, fmt.Errorf("%w: inflated %d bytes, declared %d", ErrDecompression, n, uncompressedSize)
	}
	return out.Bytes(), nil
}

// compressedBlock is the on-disk framing of a zlib block: both sizes
// followed by the compressed bytes.
type compressedBlock struct {
	UncompressedSize uint32
	CompressedSize   uint32
	Data             []byte
}

func (r *Reader) readCompressedBlock() (compressedBlock, error) {
	var b compressedBlock
	var err error
	if b.UncompressedSize, err = r.U32(); err != nil {
		return b, err
	}
	if b.CompressedSize, err = r.U32(); err != nil {
		return b, err
	}
	if b.Data, err = r.Bytes(int(b.CompressedSize)); err != nil {
		return b, err
	}
	return b, nil
}

// ReadCompressed reads a framed zlib block and returns the inflated bytes.
func (r *Reader) ReadCompressed() ([]byte, error) {
	b, err := r.readCompressedBlock()
	if err != nil {
		return nil, err
	}
	return Inflate(b.Data, b.UncompressedSize)
}

// ReadCompressedReader reads a framed zlib block and returns a new Reader
// scoped to the inflated bytes.
func (r *Reader) ReadCompressedReader() (*Reader, error) {
	data, err := r.ReadCompressed()
	if err != nil {
		return nil, err
	}
	return NewReader(data), nil
}

// skipCompressed steps over a framed block without inflating it.
func (r *Reader) skipCompressed() error {
	if err := r.Skip(4); err != nil {
		return err
	}
	size, err := r.U32()
	if err != nil {
		return err
	}
	return r.Skip(int(size))
}
