package ctheap

import "math/bits"

// Allocate reserves amount bytes and returns an A-aligned payload offset,
// or Null on failure. Constant time: no loop ever iterates over more than
// a fixed two fragments or a fixed W-bit mask.
func (h *Heap) Allocate(amount uint32) Addr {
	if amount == 0 {
		return Null
	}
	if amount > h.peakRequestSize {
		h.peakRequestSize = amount
	}
	if amount > h.capacity-A {
		h.oomCount++
		return Null
	}

	need := roundUpPow2(amount + A)
	minBin := bits.TrailingZeros32(need / Fmin)

	candidateMask := h.mask &^ (uint32(1)<<uint(minBin) - 1)
	if candidateMask == 0 {
		h.oomCount++
		return Null
	}

	lowBit := candidateMask & (-candidateMask)
	chosenBin := bits.TrailingZeros32(lowBit)

	f := h.bins[chosenBin]
	h.binRemove(f, chosenBin)

	size := h.fragSize(f)
	leftover := size - need
	if leftover >= Fmin {
		tail := f + Addr(need)
		succ := h.fragNext(f)
		h.setFragNext(tail, succ)
		h.setFragPrevUsed(tail, f, false)
		h.setFragNext(f, tail)
		if succ != Null {
			h.setFragPrev(succ, tail)
		}
		h.binInsert(tail)
	}

	h.setFragUsedFlag(f, true)
	h.allocated += need
	if h.allocated > h.peakAllocated {
		h.peakAllocated = h.allocated
	}
	return f + A
}
