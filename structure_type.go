package xtypes

// StructureType is an ordered, named collection of members. Offsets are
// assigned left-to-right with natural alignment as members are added;
// once an instance has been constructed from it the type is treated as
// frozen (§3 Lifecycle) even though nothing here enforces that beyond
// convention, matching the C++ reference's own lack of a hard freeze.
type StructureType struct {
	typeBase
	members      []Member
	size         int64
	align        int64
	optionalBits int64 // one tracking byte per optional member, appended past the aligned member region
}

// NewStructureType returns an empty structure named name.
func NewStructureType(name string) *StructureType {
	return &StructureType{typeBase: typeBase{name: name, kind: KindStructure}, align: 1}
}

// AddMember appends m to the structure, assigning its offset as the
// current end rounded up to the member's natural alignment. Adding a
// member whose name duplicates an existing one is an error.
func (s *StructureType) AddMember(m Member) (*StructureType, error) {
	for _, existing := range s.members {
		if existing.Name() == m.Name() {
			return nil, newError(ErrInvalidTypeKind, "duplicate member %q in structure %q", m.Name(), s.name)
		}
	}
	align := m.Type().NaturalAlignment()
	if align == 0 {
		align = 1
	}
	off := alignUp(s.size, align)
	m.offset = off
	if m.optional {
		m.optionalBit = int(s.optionalBits)
		s.optionalBits++
	}
	s.members = append(s.members, m)
	s.size = off + m.Type().MemorySize()
	if align > s.align {
		s.align = align
	}
	return s, nil
}

func alignUp(off, align int64) int64 {
	if align <= 1 {
		return off
	}
	rem := off % align
	if rem == 0 {
		return off
	}
	return off + (align - rem)
}

// Members returns the structure's members in declaration order. The
// returned slice must not be mutated.
func (s *StructureType) Members() []Member { return s.members }

// Member returns the member named name and true, or the zero Member and
// false.
func (s *StructureType) Member(name string) (Member, bool) {
	for i := range s.members {
		if s.members[i].Name() == name {
			return s.members[i], true
		}
	}
	return Member{}, false
}

// MemberIndex returns the position of the member named name, or -1.
func (s *StructureType) MemberIndex(name string) int {
	for i := range s.members {
		if s.members[i].Name() == name {
			return i
		}
	}
	return -1
}

func (s *StructureType) MemorySize() int64       { return s.bitmapBase() + s.optionalBits }
func (s *StructureType) NaturalAlignment() int64 { return s.align }

// bitmapBase is the offset, within an instance of s, where the
// optional-member written-bitmap begins: one byte per optional member, in
// declaration order, past the (aligned) end of the ordinary member region.
func (s *StructureType) bitmapBase() int64 { return alignUp(s.size, s.align) }

// markWritten records that the optional member whose Member.optionalBit is
// bit has now been written. bit is -1 for non-optional members, in which
// case this is a no-op: only optional members track write state.
func (s *StructureType) markWritten(addr Addr, bit int) {
	if bit < 0 {
		return
	}
	addr.Plus(s.bitmapBase() + int64(bit)).Bytes(1)[0] = 1
}

// isWritten reports whether the optional member at bit has ever been
// written. Non-optional members (bit < 0) report true unconditionally:
// they are always default-constructed and never subject to
// ErrUninitializedAccess.
func (s *StructureType) isWritten(addr Addr, bit int) bool {
	if bit < 0 {
		return true
	}
	return addr.Plus(s.bitmapBase()+int64(bit)).Bytes(1)[0] != 0
}

func (s *StructureType) Construct(addr Addr) {
	for _, m := range s.members {
		m.Type().Construct(addr.Plus(m.offset))
	}
	if s.optionalBits > 0 {
		bm := addr.Plus(s.bitmapBase()).Bytes(s.optionalBits)
		for i := range bm {
			bm[i] = 0
		}
	}
}

func (s *StructureType) Copy(dst, src Addr) {
	for _, m := range s.members {
		m.Type().Copy(dst.Plus(m.offset), src.Plus(m.offset))
	}
	if s.optionalBits > 0 {
		copy(dst.Plus(s.bitmapBase()).Bytes(s.optionalBits), src.Plus(s.bitmapBase()).Bytes(s.optionalBits))
	}
}

func (s *StructureType) CopyFromType(dst, src Addr, other DynamicType) error {
	ot := unwrapSingleMember(other)
	os, ok := ot.(*StructureType)
	if !ok {
		if len(s.members) == 1 {
			if err := s.members[0].Type().CopyFromType(dst.Plus(s.members[0].offset), src, ot); err != nil {
				return err
			}
			s.markWritten(dst, s.members[0].optionalBit)
			return nil
		}
		return newError(ErrTypeMismatchKind, "cannot copy %s into structure %q", other.Name(), s.name)
	}
	n := len(s.members)
	if len(os.members) < n {
		n = len(os.members)
	}
	for i := 0; i < n; i++ {
		dm, sm := s.members[i], os.members[i]
		if err := dm.Type().CopyFromType(dst.Plus(dm.offset), src.Plus(sm.offset), sm.Type()); err != nil {
			return err
		}
		s.markWritten(dst, dm.optionalBit)
	}
	return nil
}

func (s *StructureType) Move(dst, src Addr, dstInitialized bool) {
	for _, m := range s.members {
		m.Type().Move(dst.Plus(m.offset), src.Plus(m.offset), dstInitialized)
	}
	if s.optionalBits > 0 {
		copy(dst.Plus(s.bitmapBase()).Bytes(s.optionalBits), src.Plus(s.bitmapBase()).Bytes(s.optionalBits))
	}
}

func (s *StructureType) Destroy(addr Addr) {
	for i := len(s.members) - 1; i >= 0; i-- {
		m := s.members[i]
		m.Type().Destroy(addr.Plus(m.offset))
	}
}

func (s *StructureType) GetAt(addr Addr, i int) (Addr, error) {
	if i < 0 || i >= len(s.members) {
		return Addr{}, newError(ErrOutOfBoundsKind, "member index %d out of range for structure %q with %d members", i, s.name, len(s.members))
	}
	return addr.Plus(s.members[i].offset), nil
}

// GetMember returns the address of the member named name.
func (s *StructureType) GetMember(addr Addr, name string) (Addr, error) {
	m, ok := s.Member(name)
	if !ok {
		return Addr{}, newError(ErrInvalidMemberKind, "structure %q has no member %q", s.name, name)
	}
	return addr.Plus(m.offset), nil
}

func (s *StructureType) Size(addr Addr) int64 { return int64(len(s.members)) }

func (s *StructureType) Compare(a, b Addr) bool {
	for _, m := range s.members {
		if !m.Type().Compare(a.Plus(m.offset), b.Plus(m.offset)) {
			return false
		}
	}
	return true
}

func (s *StructureType) Hash(addr Addr) uint64 {
	var h uint64 = 1099511628211
	for _, m := range s.members {
		h = combineHash(h, m.Type().Hash(addr.Plus(m.offset)))
	}
	return h
}

func combineHash(h, v uint64) uint64 {
	h ^= v + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
	return h
}

func (s *StructureType) ForEachInstance(node InstanceNode, visitor InstanceVisitor) error {
	if err := visitor(node); err != nil {
		return err
	}
	for i, m := range s.members {
		child := node.child(m.Type(), node.Addr.Plus(m.offset), Edge{Kind: EdgeMember, Name: m.Name(), Index: i})
		if err := m.Type().ForEachInstance(child, visitor); err != nil {
			return err
		}
	}
	return nil
}

func (s *StructureType) ForEachType(node TypeNode, visitor TypeVisitor, preorder bool) error {
	if preorder {
		if err := visitor(node); err != nil {
			return err
		}
	}
	for i, m := range s.members {
		child := node.child(m.Type(), Edge{Kind: EdgeMember, Name: m.Name(), Index: i})
		if err := m.Type().ForEachType(child, visitor, preorder); err != nil {
			return err
		}
	}
	if !preorder {
		if err := visitor(node); err != nil {
			return err
		}
	}
	return nil
}

func (s *StructureType) IsCompatible(other DynamicType) Consistency {
	return structureCompatibility(s, other)
}

func (s *StructureType) Resolve() DynamicType { return s }

func (s *StructureType) Clone() DynamicType {
	c := &StructureType{typeBase: s.typeBase, size: s.size, align: s.align, optionalBits: s.optionalBits}
	c.members = make([]Member, len(s.members))
	for i, m := range s.members {
		m.typ = m.typ.Clone()
		c.members[i] = m
	}
	return c
}
