package rawbuf

// MapInstance is the associative variant of Buffer: a contiguous buffer
// of [key|value] pairs plus a hash index from the key's canonical bytes
// to its slot, giving average O(1) lookup at the cost of iteration order
// being unspecified (callers that need a stable order must sort first).
type MapInstance struct {
	Buffer

	KeySize int64
	index   map[string]int64
}

// NewMapInstance returns an empty map instance whose stride is the sum
// of the key and value strides.
func NewMapInstance(keySize, valSize, bounds int64) *MapInstance {
	m := &MapInstance{KeySize: keySize, index: make(map[string]int64)}
	m.Stride = keySize + valSize
	m.Bounds = bounds
	return m
}

// KeyAddr returns the address of the i-th slot's key.
func (m *MapInstance) KeyAddr(i int64) Addr {
	return m.ElemAddr(i)
}

// ValueAddr returns the address of the i-th slot's value.
func (m *MapInstance) ValueAddr(i int64) Addr {
	return m.ElemAddr(i).Plus(m.KeySize)
}

// Lookup returns the slot index for a key already present, identified by
// its canonical byte encoding.
func (m *MapInstance) Lookup(keyBytes []byte) (int64, bool) {
	i, ok := m.index[string(keyBytes)]
	return i, ok
}

// ReserveSlot appends a new [key|value] slot without touching the hash
// index, returning its key and value addresses. It fails without
// modifying the instance once Bounds is reached. Callers construct the
// key and value through their descriptors and then call IndexInsert with
// the key's canonical bytes, since only the caller knows how to encode a
// key that may itself be a variable-length string.
func (m *MapInstance) ReserveSlot() (key, value Addr, ok bool) {
	a, ok := m.Push()
	if !ok {
		return Addr{}, Addr{}, false
	}
	return a, a.Plus(m.KeySize), true
}

// IndexInsert records that the most recently reserved slot (or any slot
// whose key was just rewritten) holds keyBytes.
func (m *MapInstance) IndexInsert(keyBytes []byte, slot int64) {
	m.index[string(keyBytes)] = slot
}

// Reindex rebuilds the key index from scratch from the keys now in the
// buffer, for a caller that rewrote keys without going through
// IndexInsert.
func (m *MapInstance) Reindex(keyOf func(Addr) []byte) {
	m.index = make(map[string]int64, m.size)
	for i := int64(0); i < m.size; i++ {
		m.index[string(keyOf(m.KeyAddr(i)))] = i
	}
}
