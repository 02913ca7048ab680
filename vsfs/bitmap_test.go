package vsfs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBitmap(t *testing.T) {
	b := make(bitmap, 2)
	for _, i := range []uint64{0, 1, 3, 8} {
		b.set(i)
	}
	if diff := cmp.Diff(bitmap{0x0b, 0x01}, b); diff != "" {
		t.Fatalf("unexpected bitmap: diff (-want +got):\n%s", diff)
	}

	got, ok := b.findFree(16)
	if !ok || got != 2 {
		t.Errorf("findFree = %d, %v, want 2, true", got, ok)
	}
	if _, ok := b.findFree(2); ok {
		t.Errorf("findFree(2) found a free bit in [0, 2)")
	}

	free, ok := b.findFreeN(16, 3)
	if !ok {
		t.Fatalf("findFreeN(16, 3) failed")
	}
	if diff := cmp.Diff([]uint64{2, 4, 5}, free); diff != "" {
		t.Errorf("findFreeN: diff (-want +got):\n%s", diff)
	}
	if b.isSet(2) || b.isSet(4) {
		t.Errorf("findFreeN set bits")
	}

	if _, ok := b.findFreeN(5, 3); ok {
		t.Errorf("findFreeN(5, 3) succeeded with only 2 free bits")
	}
	if free, ok := b.findFreeN(5, 0); !ok || len(free) != 0 {
		t.Errorf("findFreeN(5, 0) = %v, %v, want [], true", free, ok)
	}

	if got, want := b.count(16), uint64(4); got != want {
		t.Errorf("count = %d, want %d", got, want)
	}
}
