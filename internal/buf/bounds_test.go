package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxUint64, 1); ok {
		t.Fatalf("expected overflow when adding to MaxUint64")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if p, ok := MulOverflowSafe(16, 64); !ok || p != 1024 {
		t.Fatalf("MulOverflowSafe(16,64)=%d,%v want 1024,true", p, ok)
	}
	if p, ok := MulOverflowSafe(0, math.MaxUint64); !ok || p != 0 {
		t.Fatalf("MulOverflowSafe(0,max)=%d,%v want 0,true", p, ok)
	}
	if _, ok := MulOverflowSafe(1<<32, 1<<32); ok {
		t.Fatalf("expected overflow for 2^32 * 2^32")
	}
}

func TestArraySize(t *testing.T) {
	if n, err := ArraySize(10, 8); err != nil || n != 80 {
		t.Fatalf("ArraySize(10,8)=%d,%v want 80,nil", n, err)
	}
	if _, err := ArraySize(-1, 8); err == nil {
		t.Fatalf("ArraySize should reject negative count")
	}
	if _, err := ArraySize(8, -1); err == nil {
		t.Fatalf("ArraySize should reject negative element size")
	}
	if _, err := ArraySize(math.MaxInt, 2); err == nil {
		t.Fatalf("ArraySize should reject products beyond MaxInt")
	}
}

func TestSlice(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if _, ok := Slice(data, 6, 0); ok {
		t.Fatalf("Slice should reject offsets beyond len")
	}
	if _, ok := Slice(data, 1, math.MaxUint64); ok {
		t.Fatalf("Slice should reject overflowing length")
	}
}
