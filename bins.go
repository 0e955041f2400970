package ctheap

import "math/bits"

// binIndexForSize returns the bin i such that Fmin*2^i <= size < Fmin*2^(i+1);
// sizes below Fmin map to bin 0, and the result never exceeds W-1. This is the
// floor(log2(size/Fmin)) computation from the spec's placement algorithm,
// implemented with math/bits as the portable equivalent of a CLZ intrinsic.
func binIndexForSize(size uint32) int {
	q := size / Fmin
	if q == 0 {
		q = 1
	}
	idx := bits.Len32(q) - 1
	if idx >= W {
		idx = W - 1
	}
	return idx
}

// roundUpPow2 returns the smallest power of two >= x, or 1 if x <= 1.
func roundUpPow2(x uint32) uint32 {
	if x <= 1 {
		return 1
	}
	return 1 << uint(bits.Len32(x-1))
}

// binInsert links a free fragment at the head of its size class's list and
// sets the corresponding mask bit. O(1), no list traversal.
func (h *Heap) binInsert(f Addr) {
	i := binIndexForSize(h.fragSize(f))
	head := h.bins[i]
	h.setFreeNext(f, head)
	h.setFreePrev(f, Null)
	if head != Null {
		h.setFreePrev(head, f)
	}
	h.bins[i] = f
	h.mask |= 1 << uint(i)
	h.binFreeCount[i]++
}

// binRemove detaches f from bin i, which the caller must already know (the
// bin a fragment occupies is always derivable from its pre-merge size, so
// callers compute it once rather than re-deriving it here).
func (h *Heap) binRemove(f Addr, i int) {
	prev := h.freePrev(f)
	next := h.freeNext(f)
	if prev != Null {
		h.setFreeNext(prev, next)
	} else {
		h.bins[i] = next
	}
	if next != Null {
		h.setFreePrev(next, prev)
	}
	if h.bins[i] == Null {
		h.mask &^= 1 << uint(i)
	}
	h.binFreeCount[i]--
}
