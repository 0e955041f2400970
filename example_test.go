package ctheap_test

import (
	"fmt"

	"github.com/lattice-ot/ctheap"
)

func Example() {
	arena := make([]byte, 4096)
	h, err := ctheap.New(arena)
	if err != nil {
		panic(err)
	}

	addr := h.Allocate(64)
	if addr == ctheap.Null {
		panic("allocation failed")
	}

	payload := h.Bytes(addr)
	copy(payload, []byte("hello"))
	fmt.Println(string(h.Bytes(addr)[:5]))

	h.Free(addr)
	fmt.Println(h.Diagnostics().Allocated)

	// Output:
	// hello
	// 0
}
