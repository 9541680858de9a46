package format

import (
	"errors"
	"testing"
)

func TestDecodeHeaderAllocated(t *testing.T) {
	buf := make([]byte, HeaderSize+16)
	PutU64(buf, HeaderSizeOffset, 144)
	PutU64(buf, HeaderLeftSizeOffset, 3872)
	PutU64(buf, HeaderNextOffset, 0x2000)
	PutU64(buf, HeaderPrevOffset, 0x1028)
	PutU64(buf, HeaderFlagsOffset, FlagAllocated)

	h, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	want := Header{Size: 144, LeftSize: 3872, Next: 0x2000, Prev: 0x1028, Allocated: true}
	if h != want {
		t.Fatalf("unexpected header: %+v", h)
	}
	if h.IsFencepost() {
		t.Fatalf("sized block reported as fencepost")
	}
}

func TestPutHeaderFencepost(t *testing.T) {
	buf := make([]byte, HeaderSize)
	PutHeader(buf, Header{Allocated: true, Next: 0x1028})

	h, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if !h.IsFencepost() {
		t.Fatalf("expected fencepost, got %+v", h)
	}
	if h.Next != 0x1028 {
		t.Fatalf("next mismatch: 0x%X", h.Next)
	}
}

func TestDecodeHeaderErrors(t *testing.T) {
	if _, err := DecodeHeader(make([]byte, HeaderSize-1)); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}

	buf := make([]byte, HeaderSize)
	PutU64(buf, HeaderFlagsOffset, 0x4)
	if _, err := DecodeHeader(buf); !errors.Is(err, ErrUnknownFlags) {
		t.Fatalf("expected ErrUnknownFlags, got %v", err)
	}

	buf = make([]byte, HeaderSize)
	PutU64(buf, HeaderSizeOffset, 13)
	if _, err := DecodeHeader(buf); !errors.Is(err, ErrMisaligned) {
		t.Fatalf("expected ErrMisaligned, got %v", err)
	}
}

func TestAlign(t *testing.T) {
	cases := []struct{ in, want uint64 }{
		{0, 0}, {1, 8}, {8, 8}, {9, 16}, {40, 40}, {140, 144},
	}
	for _, c := range cases {
		if got := Align8(c.in); got != c.want {
			t.Fatalf("Align8(%d) = %d, want %d", c.in, got, c.want)
		}
	}
	if got := AlignUp(5120, 4096); got != 8192 {
		t.Fatalf("AlignUp(5120, 4096) = %d", got)
	}
	if got := AlignUp(4096, 4096); got != 4096 {
		t.Fatalf("AlignUp(4096, 4096) = %d", got)
	}
	if !IsAligned(HeaderSize) || IsAligned(HeaderSize+1) {
		t.Fatalf("IsAligned misreports header size")
	}
}
