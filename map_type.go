package xtypes

import "github.com/haodongnj/xtypes/internal/rawbuf"

// MapType is a variable-length associative collection. Its key
// descriptor must be a primitive or a string (the only kinds this
// package can derive canonical, hashable byte keys for); its instance
// is a single handle slot referencing a rawbuf.MapInstance.
type MapType struct {
	typeBase
	keyType   DynamicType
	valueType DynamicType
	bounds    int64
}

// NewMapType returns a map from key to value with the given bound (0
// for unbounded). key must resolve to a primitive or string type.
func NewMapType(key, value DynamicType, bounds int64) (*MapType, error) {
	rk := resolveAlias(key)
	if rk.IsConstructedType() {
		return nil, newError(ErrInvalidTypeKind, "map key %q must be a primitive or string, got %s", key.Name(), rk.Kind())
	}
	if value.MemorySize() == 0 {
		return nil, newError(ErrInvalidTypeKind, "map of zero-sized value %q", value.Name())
	}
	return &MapType{
		typeBase:  typeBase{name: "map<" + key.Name() + "," + value.Name() + ">", kind: KindMap},
		keyType:   key.Clone(),
		valueType: value.Clone(),
		bounds:    bounds,
	}, nil
}

// KeyType returns the key descriptor.
func (m *MapType) KeyType() DynamicType { return m.keyType }

// ValueType returns the value descriptor.
func (m *MapType) ValueType() DynamicType { return m.valueType }

// Bounds returns the map's maximum size, or 0 for unbounded.
func (m *MapType) Bounds() int64 { return m.bounds }

func (m *MapType) MemorySize() int64       { return handleSlotSize }
func (m *MapType) NaturalAlignment() int64 { return handleSlotSize }

func (m *MapType) instance(addr Addr) *rawbuf.MapInstance {
	h := addr.Handle()
	if h == nil {
		return nil
	}
	return h.(*rawbuf.MapInstance)
}

func (m *MapType) newInstance() *rawbuf.MapInstance {
	return rawbuf.NewMapInstance(m.keyType.MemorySize(), m.valueType.MemorySize(), m.bounds)
}

// keyBytes returns the canonical, hashable encoding of the key stored at
// addr: the primitive's raw bytes, or a string's decoded content.
func (m *MapType) keyBytes(addr Addr) []byte {
	if st, ok := resolveAlias(m.keyType).(*StringType); ok {
		s, _ := st.Value(addr)
		return []byte(s)
	}
	return append([]byte(nil), addr.Bytes(m.keyType.MemorySize())...)
}

func (m *MapType) Construct(addr Addr) {
	addr.SetHandle(m.newInstance())
}

func (m *MapType) Copy(dst, src Addr) {
	si := m.instance(src)
	di := m.newInstance()
	dst.SetHandle(di)
	if si == nil {
		return
	}
	for i := int64(0); i < si.Size(); i++ {
		dk, dv, ok := di.ReserveSlot()
		if !ok {
			break
		}
		m.keyType.Construct(dk)
		m.keyType.Copy(dk, si.KeyAddr(i))
		m.valueType.Construct(dv)
		m.valueType.Copy(dv, si.ValueAddr(i))
		di.IndexInsert(m.keyBytes(dk), i)
	}
}

func (m *MapType) CopyFromType(dst, src Addr, other DynamicType) error {
	ot := unwrapSingleMember(other)
	om, ok := ot.(*MapType)
	if !ok {
		return newError(ErrTypeMismatchKind, "cannot copy %s into map %q", other.Name(), m.name)
	}
	si := m.instance(src)
	di := m.newInstance()
	dst.SetHandle(di)
	if si == nil {
		return nil
	}
	n := si.Size()
	if m.bounds > 0 && n > m.bounds {
		n = m.bounds
	}
	for i := int64(0); i < n; i++ {
		dk, dv, ok := di.ReserveSlot()
		if !ok {
			break
		}
		m.keyType.Construct(dk)
		if err := m.keyType.CopyFromType(dk, si.KeyAddr(i), om.keyType); err != nil {
			return err
		}
		m.valueType.Construct(dv)
		if err := m.valueType.CopyFromType(dv, si.ValueAddr(i), om.valueType); err != nil {
			return err
		}
		di.IndexInsert(m.keyBytes(dk), i)
	}
	return nil
}

func (m *MapType) Move(dst, src Addr, dstInitialized bool) {
	if dstInitialized {
		m.Destroy(dst)
	}
	dst.SetHandle(m.instance(src))
	src.ClearHandle()
}

func (m *MapType) Destroy(addr Addr) {
	inst := m.instance(addr)
	if inst != nil {
		for i := int64(0); i < inst.Size(); i++ {
			if m.keyType.IsConstructedType() {
				m.keyType.Destroy(inst.KeyAddr(i))
			}
			if m.valueType.IsConstructedType() {
				m.valueType.Destroy(inst.ValueAddr(i))
			}
		}
	}
	addr.ClearHandle()
}

// GetAt returns the i-th value's address in insertion order.
func (m *MapType) GetAt(addr Addr, i int) (Addr, error) {
	inst := m.instance(addr)
	if inst == nil || i < 0 || int64(i) >= inst.Size() {
		return Addr{}, newError(ErrOutOfBoundsKind, "index %d out of range for map %q", i, m.name)
	}
	return inst.ValueAddr(int64(i)), nil
}

// KeyAt returns the i-th key's address in insertion order.
func (m *MapType) KeyAt(addr Addr, i int) (Addr, error) {
	inst := m.instance(addr)
	if inst == nil || i < 0 || int64(i) >= inst.Size() {
		return Addr{}, newError(ErrOutOfBoundsKind, "index %d out of range for map %q", i, m.name)
	}
	return inst.KeyAddr(int64(i)), nil
}

func (m *MapType) Size(addr Addr) int64 {
	inst := m.instance(addr)
	if inst == nil {
		return 0
	}
	return inst.Size()
}

// Lookup returns the value address for the entry whose key encodes to
// keyBytes, per MapType.keyBytes.
func (m *MapType) Lookup(addr Addr, keyBytes []byte) (Addr, bool) {
	inst := m.instance(addr)
	if inst == nil {
		return Addr{}, false
	}
	i, ok := inst.Lookup(keyBytes)
	if !ok {
		return Addr{}, false
	}
	return inst.ValueAddr(i), true
}

// Push reserves a new [key|value] entry, constructing both, and returns
// their addresses. The caller must write the key (e.g. via SetValue on a
// primitive, or StringType.SetValue) before the entry is looked up by
// key; ok is false, with nothing modified, once Bounds is reached.
func (m *MapType) Push(addr Addr) (key, value Addr, ok bool) {
	inst := m.instance(addr)
	if inst == nil {
		inst = m.newInstance()
		addr.SetHandle(inst)
	}
	k, v, ok := inst.ReserveSlot()
	if !ok {
		return Addr{}, Addr{}, false
	}
	m.keyType.Construct(k)
	m.valueType.Construct(v)
	return k, v, true
}

// ReindexKey records the entry at key address k (the slot'th reserved
// entry) under its current value in the hash index. Callers must call
// this once after writing a key obtained from Push.
func (m *MapType) ReindexKey(addr Addr, slot int64, k Addr) {
	inst := m.instance(addr)
	if inst == nil {
		return
	}
	inst.IndexInsert(m.keyBytes(k), slot)
}

func (m *MapType) Compare(x, y Addr) bool {
	ix, iy := m.instance(x), m.instance(y)
	sx, sy := int64(0), int64(0)
	if ix != nil {
		sx = ix.Size()
	}
	if iy != nil {
		sy = iy.Size()
	}
	if sx != sy {
		return false
	}
	for i := int64(0); i < sx; i++ {
		kb := m.keyBytes(ix.KeyAddr(i))
		yv, ok := iy.Lookup(kb)
		if !ok || !m.valueType.Compare(ix.ValueAddr(i), iy.ValueAddr(yv)) {
			return false
		}
	}
	return true
}

func (m *MapType) Hash(addr Addr) uint64 {
	inst := m.instance(addr)
	if inst == nil {
		return 0
	}
	// Order-independent: XOR per-entry hashes so map equality (which
	// ignores iteration order) implies hash equality.
	var h uint64
	for i := int64(0); i < inst.Size(); i++ {
		eh := combineHash(m.keyType.Hash(inst.KeyAddr(i)), m.valueType.Hash(inst.ValueAddr(i)))
		h ^= eh
	}
	return h
}

func (m *MapType) ForEachInstance(node InstanceNode, visitor InstanceVisitor) error {
	if err := visitor(node); err != nil {
		return err
	}
	inst := m.instance(node.Addr)
	if inst == nil {
		return nil
	}
	for i := int64(0); i < inst.Size(); i++ {
		child := node.child(m.valueType, inst.ValueAddr(i), Edge{Kind: EdgeIndex, Index: int(i)})
		if err := m.valueType.ForEachInstance(child, visitor); err != nil {
			return err
		}
	}
	return nil
}

func (m *MapType) ForEachType(node TypeNode, visitor TypeVisitor, preorder bool) error {
	if preorder {
		if err := visitor(node); err != nil {
			return err
		}
	}
	child := node.child(m.valueType, Edge{Kind: EdgeIndex})
	if err := m.valueType.ForEachType(child, visitor, preorder); err != nil {
		return err
	}
	if !preorder {
		if err := visitor(node); err != nil {
			return err
		}
	}
	return nil
}

func (m *MapType) IsCompatible(other DynamicType) Consistency {
	other = resolveAlias(other)
	if sm, ok := singleMember(other); ok {
		return m.IsCompatible(sm.Type())
	}
	om, ok := other.(*MapType)
	if !ok {
		return ConsistencyNone
	}
	kc := m.keyType.IsCompatible(om.keyType)
	if kc.IsNone() {
		return ConsistencyNone
	}
	vc := m.valueType.IsCompatible(om.valueType)
	if vc.IsNone() {
		return ConsistencyNone
	}
	c := kc | vc
	if m.bounds != om.bounds {
		c |= ConsistencyIgnoreSequenceBounds
	}
	return c
}

func (m *MapType) Resolve() DynamicType { return m }

func (m *MapType) Clone() DynamicType {
	c := *m
	c.keyType = m.keyType.Clone()
	c.valueType = m.valueType.Clone()
	return &c
}
