package trlevel

import (
	"bytes"
	"testing"
)

func TestXORDecrypter(t *testing.T) {
	plain := []byte("level data block")
	key := []byte{0x13, 0x37, 0x42}

	scrambled, err := XORDecrypter{Key: key}.Decrypt(plain)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if bytes.Equal(scrambled, plain) {
		t.Fatal("expected scrambled output")
	}
	back, err := XORDecrypter{Key: key}.Decrypt(scrambled)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(back, plain) {
		t.Errorf("expected %q, got %q", plain, back)
	}

	if _, err := (XORDecrypter{}).Decrypt(plain); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestNopDecrypter(t *testing.T) {
	var d Decrypter = NopDecrypter{}
	out, err := d.Decrypt([]byte{1, 2, 3})
	if err != nil || !bytes.Equal(out, []byte{1, 2, 3}) {
		t.Errorf("unexpected output %v, %v", out, err)
	}
}

func TestSHA256Hasher(t *testing.T) {
	var h Hasher = SHA256Hasher{}
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := h.Hash(nil); got != empty {
		t.Errorf("expected %s, got %s", empty, got)
	}
	if h.Hash([]byte("a")) == h.Hash([]byte("b")) {
		t.Error("different inputs should hash differently")
	}
}
