package ctheap

import (
	"fmt"

	"go.uber.org/zap"
)

// Option configures purely diagnostic, non-semantic aspects of a Heap at
// construction time. No Option may change allocator behavior; currently
// the only one attaches a logger for Explain.
type Option func(*Heap)

// WithLogger attaches l so Explain can emit structured log lines alongside
// its returned report. Never consulted by Allocate/Free/Reallocate.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(h *Heap) { h.logger = l }
}

// Explain renders a human-readable, single-fragment report for addr,
// useful when CheckInvariants has returned false and a caller wants to
// inspect one fragment's header fields without re-deriving the whole
// invariant checker by hand. Off the hot path; never called by Allocate,
// Free, Reallocate, or CheckInvariants themselves.
func (h *Heap) Explain(addr Addr) string {
	if addr == Null {
		return "ctheap: null offset"
	}
	f := addr - A
	if uint32(f) < uint32(instancePadding) || uint32(f) >= uint32(h.arenaEnd) || uint32(f)%A != 0 {
		err := NewHeapError(ErrCodeInvalidOffset, "offset is out of range or misaligned").
			WithContext("offset", addr)
		if h.logger != nil {
			h.logger.Warnw("explain requested for invalid offset", "offset", uint32(addr))
		}
		return err.Error()
	}

	size := h.fragSize(f)
	used := h.fragUsed(f)
	prev := h.fragPrev(f)
	next := h.fragNext(f)
	bin := binIndexForSize(size)

	if h.logger != nil {
		h.logger.Debugw("explain",
			"fragment", uint32(f),
			"size", size,
			"used", used,
			"prev", uint32(prev),
			"next", uint32(next),
			"bin", bin,
		)
	}

	return fmt.Sprintf(
		"fragment at %d: size=%d used=%t prev=%d next=%d bin=%d",
		f, size, used, prev, next, bin,
	)
}
