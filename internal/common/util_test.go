package common

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestGenerateRandByteArray(t *testing.T) {
	const n = 32

	a := GenerateRandByteArray(n)
	b := GenerateRandByteArray(n)

	if len(a) != n || len(b) != n {
		t.Fatalf("unexpected lengths: %d, %d", len(a), len(b))
	}
	if bytes.Equal(a, b) {
		t.Logf("warning: two random %d-byte buffers are identical; extremely unlikely", n)
	}
}

func TestMakeRandHexString(t *testing.T) {
	const n = 16

	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n*2 {
		t.Fatalf("expected hex length %d, got %d", n*2, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("string is not valid hex: %v", err)
	}

	empty, err := MakeRandHexString(0)
	if err != nil || empty != "" {
		t.Fatalf("expected empty string for size=0, got %q, err=%v", empty, err)
	}
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}

	// nil must not panic
	WipeByteArray(nil)
}
