package vsfs

// bitmap is a free space map with one bit per unit. Bit i lives in byte
// i/8 at position i%8, least significant bit first.
type bitmap []byte

func (b bitmap) isSet(i uint64) bool {
	return b[i>>3]>>(i&7)&1 == 1
}

func (b bitmap) set(i uint64) {
	b[i>>3] |= 1 << (i & 7)
}

// findFree returns the lowest clear bit in [0, n).
func (b bitmap) findFree(n uint64) (uint64, bool) {
	for i := uint64(0); i < n; i++ {
		if !b.isSet(i) {
			return i, true
		}
	}
	return 0, false
}

// findFreeN returns the k lowest clear bits in [0, n), in ascending order,
// without setting them. ok is false if fewer than k bits are clear.
func (b bitmap) findFreeN(n uint64, k int) (free []uint64, ok bool) {
	if k == 0 {
		return nil, true
	}
	free = make([]uint64, 0, k)
	for i := uint64(0); i < n && len(free) < k; i++ {
		if !b.isSet(i) {
			free = append(free, i)
		}
	}
	return free, len(free) == k
}

// count returns the number of set bits in [0, n).
func (b bitmap) count(n uint64) uint64 {
	var used uint64
	for i := uint64(0); i < n; i++ {
		if b.isSet(i) {
			used++
		}
	}
	return used
}
