package encoding

import (
	"bytes"
	"testing"
)

func TestWindows1252ToUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("Caves"), "Caves"},
		{"e acute", []byte{'C', 'i', 't', 0xE9}, "Cité"},
		{"umlaut", []byte{'K', 0xF6, 'l', 'n'}, "Köln"},
		{"euro", []byte{0x80}, "€"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Windows1252ToUTF8(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUTF8ToWindows1252(t *testing.T) {
	if got := UTF8ToWindows1252("Cité"); !bytes.Equal(got, []byte{'C', 'i', 't', 0xE9}) {
		t.Errorf("unexpected encoding % x", got)
	}
}

func TestFixedString(t *testing.T) {
	if got := FixedString([]byte{'P', 'C', 'D', '9', 0, 'x', 'y'}); got != "PCD9" {
		t.Errorf("expected PCD9, got %q", got)
	}
	if got := FixedString([]byte("DXT1")); got != "DXT1" {
		t.Errorf("expected DXT1, got %q", got)
	}
}

func TestToFixedString(t *testing.T) {
	got := ToFixedString("Cité", 6)
	want := []byte{'C', 'i', 't', 0xE9, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("expected % x, got % x", want, got)
	}
	if got := ToFixedString("LONGNAME", 4); string(got) != "LONG" {
		t.Errorf("expected truncation, got %q", got)
	}
	if got := TrimNullBytes([]byte("ab\x00\x00")); string(got) != "ab" {
		t.Errorf("expected ab, got %q", got)
	}
}
