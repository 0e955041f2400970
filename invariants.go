package ctheap

// CheckInvariants walks the full fragment chain and bin structure and
// reports whether every documented invariant (SPEC_FULL.md section 8,
// IV1-IV6) currently holds. It never panics and never mutates state; it is
// meant for tests and debug-build self-checks, not the allocation hot path.
func (h *Heap) CheckInvariants() bool {
	for i := 0; i < W; i++ {
		bitSet := h.mask&(1<<uint(i)) != 0
		if (h.bins[i] == Null) == bitSet {
			return false
		}
	}

	if !h.checkAddressChain() {
		return false
	}
	if !h.checkBins() {
		return false
	}

	if h.allocated > h.capacity || h.allocated%Fmin != 0 {
		return false
	}
	if h.peakAllocated < h.allocated || h.peakAllocated > h.capacity || h.peakAllocated%Fmin != 0 {
		return false
	}
	if h.peakRequestSize == 0 {
		return h.allocated == 0 && h.peakAllocated == 0 && h.oomCount == 0
	}
	if h.oomCount == 0 && h.peakRequestSize+A > h.peakAllocated {
		return false
	}
	return true
}

// checkAddressChain walks the address-order fragment list and verifies
// IV1 (allocated == sum of used sizes), IV2 (no two adjacent free
// fragments), and IV3/IV5 (alignment and Fmin-multiple sizing).
func (h *Heap) checkAddressChain() bool {
	root := Addr(instancePadding)
	var sumAll, sumUsed uint32
	prevWasFree := false
	maxFragments := int(h.capacity/Fmin) + 1

	seen := 0
	for f := root; f != Null; {
		if uint32(f)%A != 0 {
			return false
		}
		size := h.fragSize(f)
		if size < Fmin || size%Fmin != 0 {
			return false
		}
		sumAll += size

		used := h.fragUsed(f)
		if used {
			sumUsed += size
			prevWasFree = false
		} else {
			if prevWasFree {
				return false
			}
			prevWasFree = true
		}

		seen++
		if seen > maxFragments {
			return false // cycle guard
		}
		f = h.fragNext(f)
	}

	if sumAll != h.capacity {
		return false
	}
	return sumUsed == h.allocated
}

// checkBins verifies IV4: every fragment on bin i's free list is actually
// free and its size falls in that bin's half-open range.
func (h *Heap) checkBins() bool {
	for i := 0; i < W; i++ {
		lo := uint64(Fmin) << uint(i)
		hi := uint64(Fmin) << uint(i+1)
		seen := 0
		maxFragments := int(h.capacity/Fmin) + 1
		for f := h.bins[i]; f != Null; f = h.freeNext(f) {
			if h.fragUsed(f) {
				return false
			}
			size := uint64(h.fragSize(f))
			if size < lo || size >= hi {
				return false
			}
			seen++
			if seen > maxFragments {
				return false // cycle guard
			}
		}
	}
	return true
}
