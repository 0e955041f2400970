package ctheap

// Reallocate resizes the allocation at addr to newAmount bytes, trying in
// order: null delegates to Allocate, zero delegates to Free, then
// shrink-in-place, expand-forward, expand-backward (with a data move), and
// finally an allocate+copy+free fallback. See SPEC_FULL.md section 4.4 for
// the full decision table this mirrors.
func (h *Heap) Reallocate(addr Addr, newAmount uint32) Addr {
	if addr == Null {
		return h.Allocate(newAmount) // R1
	}
	if newAmount == 0 {
		h.Free(addr) // R2
		return Null
	}
	if newAmount > h.capacity-A {
		h.oomCount++
		return Null // R3
	}

	f := addr - A
	assertUsed(h, f)
	needP := roundUpPow2(newAmount + A)
	size := h.fragSize(f)
	oldAmount := size - A

	// R4: shrink in place.
	if needP <= size {
		leftover := size - needP
		if leftover >= Fmin {
			succ := h.fragNext(f)
			succFree := succ != Null && !h.fragUsed(succ)
			tail := f + Addr(needP)
			if succFree {
				h.binRemove(succ, binIndexForSize(h.fragSize(succ)))
				succ2 := h.fragNext(succ)
				h.setFragNext(tail, succ2)
				if succ2 != Null {
					h.setFragPrev(succ2, tail)
				}
			} else {
				h.setFragNext(tail, succ)
				if succ != Null {
					h.setFragPrev(succ, tail)
				}
			}
			h.setFragPrevUsed(tail, f, false)
			h.setFragNext(f, tail)
			h.binInsert(tail)
			h.allocated -= leftover
		}
		return addr
	}

	next := h.fragNext(f)
	nextFree := next != Null && !h.fragUsed(next)

	// R5: expand forward into a free successor.
	if nextFree {
		combined := size + h.fragSize(next)
		if combined >= needP {
			h.binRemove(next, binIndexForSize(h.fragSize(next)))
			succ2 := h.fragNext(next)
			leftover := combined - needP
			if leftover >= Fmin {
				tail := f + Addr(needP)
				h.setFragNext(tail, succ2)
				h.setFragPrevUsed(tail, f, false)
				h.setFragNext(f, tail)
				if succ2 != Null {
					h.setFragPrev(succ2, tail)
				}
				h.binInsert(tail)
				h.allocated += needP - size
			} else {
				h.setFragNext(f, succ2)
				if succ2 != Null {
					h.setFragPrev(succ2, f)
				}
				h.allocated += combined - size
			}
			if h.allocated > h.peakAllocated {
				h.peakAllocated = h.allocated
			}
			return addr
		}
	}

	// R6: expand backward into a free predecessor, moving data down.
	prev := h.fragPrev(f)
	prevFree := prev != Null && !h.fragUsed(prev)
	if prevFree {
		// Per the spec's R6 detail, prev is unbound and next is also
		// unbound whenever it is free, unconditionally -- not only when
		// prev+F alone falls short of needP. Leaving a free next
		// unabsorbed here would place it address-adjacent to the split
		// tail this case can produce, violating IV2.
		total := h.fragSize(prev) + size
		absorbNext := nextFree
		if absorbNext {
			total += h.fragSize(next)
		}
		if total >= needP {
			h.binRemove(prev, binIndexForSize(h.fragSize(prev)))
			if absorbNext {
				h.binRemove(next, binIndexForSize(h.fragSize(next)))
			}

			out := prev + A
			var succAfter Addr
			if absorbNext {
				succAfter = h.fragNext(next)
			} else {
				succAfter = next
			}

			// Move the live payload down before touching any header
			// bytes; out < addr, so this is the safe direction for
			// Go's overlap-tolerant copy.
			copy(h.arena[out:uint32(out)+oldAmount], h.arena[addr:uint32(addr)+oldAmount])

			leftover := total - needP
			if leftover >= Fmin {
				tail := prev + Addr(needP)
				h.setFragNext(tail, succAfter)
				h.setFragPrevUsed(tail, prev, false)
				h.setFragNext(prev, tail)
				if succAfter != Null {
					h.setFragPrev(succAfter, tail)
				}
				h.binInsert(tail)
				h.allocated += needP - size
			} else {
				h.setFragNext(prev, succAfter)
				if succAfter != Null {
					h.setFragPrev(succAfter, prev)
				}
				h.allocated += total - size
			}
			h.setFragUsedFlag(prev, true)
			if h.allocated > h.peakAllocated {
				h.peakAllocated = h.allocated
			}
			return out
		}
	}

	// R7: fallback, allocate a fresh fragment, copy, free the old one.
	newAddr := h.Allocate(newAmount)
	if newAddr == Null {
		return Null
	}
	copyLen := oldAmount
	if newAmount < copyLen {
		copyLen = newAmount
	}
	copy(h.arena[newAddr:uint32(newAddr)+copyLen], h.arena[addr:uint32(addr)+copyLen])
	h.Free(addr)
	return newAddr
}
