package trlevel

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
)

// decoder holds the state of one decode pass. Version decoders are plain
// functions that run a list of steps against it.
type decoder struct {
	r     *Reader
	opts  LoadOptions
	log   *zap.Logger
	level *Level

	// psx expands PlayStation pages as textures reference them.
	psx *psxPages
}

// errLevelEnd stops a decode early without failing it. Some shipped levels
// end right after their texture header.
var errLevelEnd = errors.New("end of level data")

type step struct {
	name string
	fn   func() error
}

func section(name string, fn func() error) step {
	return step{name: name, fn: fn}
}

// run executes steps in order and stops at the first failure. Errors are
// wrapped with the section name and keep their sentinel.
func (d *decoder) run(steps ...step) error {
	for _, s := range steps {
		d.log.Debug("reading "+s.name, zap.Int("offset", d.r.Position()))
		if err := s.fn(); err != nil {
			if errors.Is(err, errLevelEnd) {
				return err
			}
			return fmt.Errorf("reading %s at offset %d: %w", s.name, d.r.Position(), err)
		}
	}
	return nil
}

// scope runs steps against an inner reader, then restores the outer one.
func (d *decoder) scope(inner *Reader, steps ...step) error {
	outer := d.r
	d.r = inner
	defer func() { d.r = outer }()
	return d.run(steps...)
}

// counted returns a step body that reads a C-sized count and that many T
// records into dst.
func counted[C constraints.Integer, T any](d *decoder, dst *[]T) func() error {
	return func() error {
		v, err := ReadCounted[C, T](d.r)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// countedAs reads counted on-disk records of type T and widens each to U.
func countedAs[C constraints.Integer, T, U any](d *decoder, dst *[]U, conv func(T) U) func() error {
	return func() error {
		v, err := ReadCounted[C, T](d.r)
		if err != nil {
			return err
		}
		*dst = convertAll(v, conv)
		return nil
	}
}

func convertAll[T, U any](in []T, conv func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = conv(v)
	}
	return out
}

// endIfExhausted stops the decode when the reader has nothing left.
func (d *decoder) endIfExhausted() step {
	return section("end of data check", func() error {
		if d.r.EOF() {
			d.log.Debug("level data ends after header", zap.Int("offset", d.r.Position()))
			return errLevelEnd
		}
		return nil
	})
}

// expectMarker consumes a literal section marker such as "SPR" or "TEX\0".
func (d *decoder) expectMarker(marker string) error {
	b, err := d.r.Bytes(len(marker))
	if err != nil {
		return err
	}
	if string(b) != marker {
		return fmt.Errorf("%w: expected marker %q, found %q", ErrUnsupportedSection, marker, b)
	}
	return nil
}
