// Package rawbuf is the sealed memory layer behind the dynamic type engine.
//
// Everything a DynamicType operates over ultimately bottoms out here: a
// Block is a flat byte buffer for fixed-width data (primitives, array
// elements, structure members laid out inline), plus a side table of
// opaque handles that variable-length members reference by index rather
// than by an embedded pointer. Keeping live Go pointers out of the byte
// buffer and in a GC-visible slice is what lets this package use plain
// byte slices instead of unsafe.Pointer arithmetic: the "raw bytes" view
// the type system spec talks about is reached only through Addr (its
// Bytes method), never through a bare pointer.
package rawbuf

import "encoding/binary"

// handleSize is the width, in bytes, of the slot a Block reserves for an
// opaque handle (the index into its handles table). It does not need to
// match a pointer's native size since it never stores a pointer directly.
const handleSize = 4

// Block is the raw storage backing one instance of a fixed-size
// DynamicType: a structure, an array, or a primitive leaf.
type Block struct {
	Bytes   []byte
	handles []any
}

// NewBlock allocates a zeroed Block of the given byte size.
func NewBlock(size int64) *Block {
	return &Block{Bytes: make([]byte, size)}
}

func (b *Block) grow(size int64) {
	if int64(len(b.Bytes)) >= size {
		return
	}
	nb := make([]byte, size)
	copy(nb, b.Bytes)
	b.Bytes = nb
}

func (b *Block) handleAt(off int64) any {
	idx := binary.LittleEndian.Uint32(b.Bytes[off:])
	if idx == 0 {
		return nil
	}
	return b.handles[idx-1]
}

func (b *Block) setHandleAt(off int64, v any) {
	idx := binary.LittleEndian.Uint32(b.Bytes[off:])
	if idx == 0 {
		b.handles = append(b.handles, v)
		idx = uint32(len(b.handles))
		binary.LittleEndian.PutUint32(b.Bytes[off:], idx)
		return
	}
	b.handles[idx-1] = v
}

func (b *Block) clearHandleAt(off int64) {
	idx := binary.LittleEndian.Uint32(b.Bytes[off:])
	if idx != 0 {
		b.handles[idx-1] = nil
	}
}

// Addr is the address unit every DynamicType operation takes: a Block
// plus a byte offset into it. It plays the role the C++ reference
// implementation gives to a raw uint8_t*, but its bytes are reached only
// through Bytes, which is bounds-checked against the Block.
type Addr struct {
	Blk *Block
	Off int64
}

// NewAddr returns the root address of a freshly allocated Block of size
// bytes.
func NewAddr(size int64) Addr {
	return Addr{Blk: NewBlock(size), Off: 0}
}

// Bytes returns the n-byte slice at this address. The returned slice
// aliases the Block's storage; callers may read or write through it.
func (a Addr) Bytes(n int64) []byte {
	return a.Blk.Bytes[a.Off : a.Off+n]
}

// Plus returns the address off bytes further into the same Block.
func (a Addr) Plus(off int64) Addr {
	return Addr{Blk: a.Blk, Off: a.Off + off}
}

// Handle returns the opaque value stored at this address, or nil if none
// has been set (or it was cleared by Destroy).
func (a Addr) Handle() any {
	return a.Blk.handleAt(a.Off)
}

// SetHandle stores an opaque value at this address. Repeated calls at the
// same address reuse the same handle slot.
func (a Addr) SetHandle(v any) {
	a.Blk.setHandleAt(a.Off, v)
}

// ClearHandle drops the reference held at this address so the
// previously-handled value becomes eligible for collection.
func (a Addr) ClearHandle() {
	a.Blk.clearHandleAt(a.Off)
}

// Zero clears n bytes at this address. It does not touch any handle
// that might be recorded in that range; callers must ClearHandle first
// when the range they are zeroing owns one.
func (a Addr) Zero(n int64) {
	b := a.Bytes(n)
	for i := range b {
		b[i] = 0
	}
}
