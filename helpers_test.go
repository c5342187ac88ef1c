package xtypes

import "github.com/haodongnj/xtypes/internal/rawbuf"

// newAddr allocates a fresh, zeroed address of size bytes for tests that
// need to construct a value without going through DynamicData.
func newAddr(size int64) Addr {
	return rawbuf.NewAddr(size)
}
