// Package ctheap implements a constant-time segregated free-list allocator
// over a caller-provided byte arena. Allocate, Free and Reallocate run in
// O(1) time independent of arena size, live allocation count, or
// fragmentation pattern. CheckInvariants walks every fragment and free list,
// so its cost grows with the number of fragments.
package ctheap

import (
	"encoding/binary"

	"go.uber.org/zap"
)

// Addr is a byte offset into a Heap's arena. It stands in for the native
// pointer of a C allocator: Null (0) is the reserved instance-record offset
// and doubles as the sentinel for "no fragment".
type Addr uint32

// Null is the sentinel offset; no valid fragment ever lives at offset 0.
const Null Addr = 0

const (
	wordSize = 4 // bytes backing a machine word in this rendition: sizeof(Addr)
	// A is the alignment granularity: two words, matching the spec's
	// "twice the platform pointer width" with Addr (not native uintptr)
	// standing in for the pointer.
	A = 2 * wordSize
	// W is the number of size-class bins, one per bit of a uint32 mask.
	W = 32
	// Fmin is the smallest fragment size: header plus free-list links.
	Fmin = 2 * A
	// instancePadding is the reserved region at arena offset 0; no
	// fragment ever starts there.
	instancePadding = A
)

// Fmax is the largest representable fragment size.
const Fmax uint32 = 1 << (W - 1)

// MinArenaSize is the minimum arena length New will accept.
const MinArenaSize = instancePadding + Fmin

// Heap is a single allocator instance over a caller-owned arena. The zero
// value is not usable; construct with New.
type Heap struct {
	arena []byte

	bins         [W]Addr
	binFreeCount [W]uint32
	mask         uint32
	arenaEnd     Addr

	capacity        uint32
	allocated       uint32
	peakAllocated   uint32
	peakRequestSize uint32
	oomCount        uint32

	logger *zap.SugaredLogger
}

func (h *Heap) readU32(off Addr) uint32 {
	return binary.LittleEndian.Uint32(h.arena[off : off+4])
}

func (h *Heap) writeU32(off Addr, v uint32) {
	binary.LittleEndian.PutUint32(h.arena[off:off+4], v)
}

// fragNext returns the address-order successor of the fragment at f, or
// Null if f is the last fragment.
func (h *Heap) fragNext(f Addr) Addr {
	return Addr(h.readU32(f))
}

func (h *Heap) setFragNext(f, next Addr) {
	h.writeU32(f, uint32(next))
}

// fragPrevUsedRaw returns the raw prev_used word: the address-order
// predecessor offset with the used-flag packed into the low bit.
func (h *Heap) fragPrevUsedRaw(f Addr) uint32 {
	return h.readU32(f + 4)
}

func (h *Heap) fragPrev(f Addr) Addr {
	return Addr(h.fragPrevUsedRaw(f) &^ 1)
}

func (h *Heap) fragUsed(f Addr) bool {
	return h.fragPrevUsedRaw(f)&1 != 0
}

func (h *Heap) setFragPrevUsed(f, prev Addr, used bool) {
	v := uint32(prev)
	if used {
		v |= 1
	}
	h.writeU32(f+4, v)
}

func (h *Heap) setFragPrev(f, prev Addr) {
	h.setFragPrevUsed(f, prev, h.fragUsed(f))
}

func (h *Heap) setFragUsedFlag(f Addr, used bool) {
	h.setFragPrevUsed(f, h.fragPrev(f), used)
}

// fragSize computes a fragment's size from the address-order chain: the
// distance to the next fragment, or to the arena end for the last one. No
// size field is ever stored, so split and merge never touch a size word.
func (h *Heap) fragSize(f Addr) uint32 {
	next := h.fragNext(f)
	if next == Null {
		return uint32(h.arenaEnd) - uint32(f)
	}
	return uint32(next) - uint32(f)
}

// freeNext/freePrev address the doubly-linked free list a fragment belongs
// to while unused. These words alias the start of the fragment's payload
// and are meaningful only between Free and the fragment's next Allocate.
func (h *Heap) freeNext(f Addr) Addr {
	return Addr(h.readU32(f + A))
}

func (h *Heap) setFreeNext(f, v Addr) {
	h.writeU32(f+A, uint32(v))
}

func (h *Heap) freePrev(f Addr) Addr {
	return Addr(h.readU32(f + A + 4))
}

func (h *Heap) setFreePrev(f, v Addr) {
	h.writeU32(f+A+4, uint32(v))
}
