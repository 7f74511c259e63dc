package trlevel

import (
	"errors"
	"testing"
)

func TestReader_Primitives(t *testing.T) {
	b := &levelBuilder{}
	b.u8(0xAB).u16(0xFFFE).u32(0xDEADBEEF).write(float32(1.5))
	r := NewReader(b.bytes())

	if v, err := r.U8(); err != nil || v != 0xAB {
		t.Errorf("U8: got %x, %v", v, err)
	}
	if v, err := r.I16(); err != nil || v != -2 {
		t.Errorf("I16: got %d, %v", v, err)
	}
	if v, err := r.PeekU32(); err != nil || v != 0xDEADBEEF {
		t.Errorf("PeekU32: got %x, %v", v, err)
	}
	if r.Position() != 3 {
		t.Errorf("peek moved the cursor to %d", r.Position())
	}
	if v, err := r.U32(); err != nil || v != 0xDEADBEEF {
		t.Errorf("U32: got %x, %v", v, err)
	}
	if v, err := r.F32(); err != nil || v != 1.5 {
		t.Errorf("F32: got %v, %v", v, err)
	}
	if !r.EOF() {
		t.Error("expected EOF")
	}
	if _, err := r.U8(); !errors.Is(err, ErrOutOfData) {
		t.Errorf("expected ErrOutOfData past the end, got %v", err)
	}
}

func TestReader_SetPosition(t *testing.T) {
	r := NewReader(make([]byte, 4))
	if err := r.SetPosition(4); err != nil {
		t.Errorf("seeking to the end should succeed: %v", err)
	}
	if err := r.SetPosition(5); !errors.Is(err, ErrOutOfData) {
		t.Errorf("expected ErrOutOfData, got %v", err)
	}
	if err := r.SetPosition(-1); !errors.Is(err, ErrOutOfData) {
		t.Errorf("expected ErrOutOfData, got %v", err)
	}
}

func TestReadVector(t *testing.T) {
	b := &levelBuilder{}
	b.u16(1).u16(2).u16(3)
	b.u16(4).u16(5).u16(6)

	r := NewReader(b.bytes())
	got, err := ReadVector[Vertex](r, 2)
	if err != nil {
		t.Fatalf("ReadVector failed: %v", err)
	}
	want := []Vertex{{1, 2, 3}, {4, 5, 6}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vertex %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	empty, err := ReadVector[Vertex](r, 0)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %v, %v", empty, err)
	}
}

func TestReadCounted_HugeCount(t *testing.T) {
	b := &levelBuilder{}
	b.u32(0xFFFFFFFF).u32(0)

	r := NewReader(b.bytes())
	_, err := ReadCounted[uint32, Textile32](r)
	if !errors.Is(err, ErrOutOfData) {
		t.Fatalf("expected ErrOutOfData, got %v", err)
	}
}

func TestReadCounted_NegativeCount(t *testing.T) {
	b := &levelBuilder{}
	b.write(int32(-1))

	_, err := ReadCounted[int32, uint16](NewReader(b.bytes()))
	if !errors.Is(err, ErrOutOfData) {
		t.Fatalf("expected ErrOutOfData, got %v", err)
	}
}
