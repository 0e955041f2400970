//go:build !debug

package ctheap

// assertUsed is a no-op in release builds; see assert_debug.go.
func assertUsed(h *Heap, f Addr) {}
