//go:build unix

package osmem

import (
	"testing"
)

func TestMapZeroedWritable(t *testing.T) {
	const size = 1 << 16
	data, err := Map(size)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(data) != size {
		t.Fatalf("len mismatch: got %d want %d", len(data), size)
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d not zero: 0x%x", i, b)
		}
	}
	data[0], data[size-1] = 0xde, 0xad
	if data[0] != 0xde || data[size-1] != 0xad {
		t.Fatalf("mapping is not writable")
	}
}

func TestMapRejectsNonPositiveSize(t *testing.T) {
	if _, err := Map(0); err == nil {
		t.Fatalf("expected error for zero-length mapping")
	}
	if _, err := Map(-4096); err == nil {
		t.Fatalf("expected error for negative mapping size")
	}
}
