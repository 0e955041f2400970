//go:build debug

package ctheap

import "fmt"

// assertUsed performs the cheap sanity checks the spec allows debug builds
// to make before a Free/Reallocate: the offset must be in range, aligned,
// and currently marked used. Compiled in only under -tags debug; release
// builds get the no-op in assert_release.go so the hot path pays nothing.
func assertUsed(h *Heap, f Addr) {
	if uint32(f) < uint32(instancePadding) || uint32(f) >= uint32(h.arenaEnd) {
		panic(fmt.Sprintf("ctheap: offset %d out of arena range", f))
	}
	if uint32(f)%A != 0 {
		panic(fmt.Sprintf("ctheap: offset %d is not A-aligned", f))
	}
	if !h.fragUsed(f) {
		panic(fmt.Sprintf("ctheap: double free or invalid offset %d", f))
	}
}
