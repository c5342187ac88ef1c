package rawbuf

import "golang.org/x/sys/cpu"

// Buffer is the CollectionInstance shared by strings, sequences, and maps:
// a contiguous element buffer plus a current size and an optional bound.
// Elements are addressed by their own Block embedded at a Stride-sized
// offset, so nested variable-length content (a sequence of sequences) gets
// its own handle table the same way a top-level structure member would.
type Buffer struct {
	Block

	Stride int64 // bytes per element
	Bounds int64 // 0 means unbounded

	// size and cap sit past a cache-line pad, away from the Block header
	// and Stride/Bounds: Push/Resize on a writable cursor churn size and
	// cap on every call. Readers still load size (Size, index checks), so
	// the pad separates the bookkeeping words from the Block header, not
	// from every field a reader touches, mirroring how the teacher's process layer
	// keeps hot debuggee state away from control-plane fields.
	_    cpu.CacheLinePad
	size int64
	cap  int64
}

// NewBuffer returns an empty Buffer for elements of the given stride and
// bound.
func NewBuffer(stride, bounds int64) *Buffer {
	return &Buffer{Stride: stride, Bounds: bounds}
}

// Size returns the number of live elements.
func (b *Buffer) Size() int64 { return b.size }

// Full reports whether the buffer has reached its bound.
func (b *Buffer) Full() bool {
	return b.Bounds > 0 && b.size >= b.Bounds
}

func (b *Buffer) reserve(n int64) {
	need := n * b.Stride
	if b.cap*b.Stride >= need {
		return
	}
	newCap := b.cap
	if newCap == 0 {
		newCap = 1
	}
	for newCap*b.Stride < need {
		newCap *= 2
	}
	b.grow(newCap * b.Stride)
	b.cap = newCap
}

// ElemAddr returns the address of the i-th element. i must be in
// [0, Size()) for a read, or [0, cap) right after reserve for a write.
func (b *Buffer) ElemAddr(i int64) Addr {
	return Addr{Blk: &b.Block, Off: i * b.Stride}
}

// Push reserves room for one more element and returns its address. It
// fails (ok == false) without modifying the buffer when Bounds > 0 and the
// buffer is already full.
func (b *Buffer) Push() (addr Addr, ok bool) {
	if b.Full() {
		return Addr{}, false
	}
	b.reserve(b.size + 1)
	a := b.ElemAddr(b.size)
	b.size++
	return a, true
}

// Grow extends the buffer to n elements, default-initializing the new
// slots via init, which is called once per new element with its address.
func (b *Buffer) Grow(n int64, init func(Addr)) {
	if n <= b.size {
		return
	}
	b.reserve(n)
	for i := b.size; i < n; i++ {
		init(b.ElemAddr(i))
	}
	b.size = n
}

// Shrink truncates the buffer to n elements, calling release once per
// removed element (in descending order) so it can destroy owned content.
func (b *Buffer) Shrink(n int64, release func(Addr)) {
	for i := b.size - 1; i >= n; i-- {
		release(b.ElemAddr(i))
	}
	b.size = n
}
