package xtypes

import "github.com/haodongnj/xtypes/internal/rawbuf"

// SequenceType is a variable-length collection. Its instance is a single
// handle slot referencing a rawbuf.Buffer; bounds of 0 mean unbounded.
type SequenceType struct {
	typeBase
	content DynamicType
	bounds  int64
}

// NewSequenceType returns a sequence of content with the given bound (0
// for unbounded).
func NewSequenceType(content DynamicType, bounds int64) (*SequenceType, error) {
	if content.MemorySize() == 0 {
		return nil, newError(ErrInvalidTypeKind, "sequence of zero-sized content %q", content.Name())
	}
	return &SequenceType{
		typeBase: typeBase{name: "sequence<" + content.Name() + ">", kind: KindSequence},
		content:  content.Clone(),
		bounds:   bounds,
	}, nil
}

// Content returns the element descriptor.
func (s *SequenceType) Content() DynamicType { return s.content }

// Bounds returns the sequence's maximum size, or 0 for unbounded.
func (s *SequenceType) Bounds() int64 { return s.bounds }

// handleSlotSize is the fixed width a sequence/string/map reserves in its
// owner's byte block; the buffer itself grows independently.
const handleSlotSize = 4

func (s *SequenceType) MemorySize() int64       { return handleSlotSize }
func (s *SequenceType) NaturalAlignment() int64 { return handleSlotSize }

func (s *SequenceType) buffer(addr Addr) *rawbuf.Buffer {
	h := addr.Handle()
	if h == nil {
		return nil
	}
	return h.(*rawbuf.Buffer)
}

func (s *SequenceType) Construct(addr Addr) {
	addr.SetHandle(rawbuf.NewBuffer(s.content.MemorySize(), s.bounds))
}

func (s *SequenceType) Copy(dst, src Addr) {
	sb := s.buffer(src)
	db := rawbuf.NewBuffer(s.content.MemorySize(), s.bounds)
	dst.SetHandle(db)
	if sb == nil {
		return
	}
	db.Grow(sb.Size(), func(a rawbuf.Addr) { s.content.Construct(a) })
	for i := int64(0); i < sb.Size(); i++ {
		s.content.Copy(db.ElemAddr(i), sb.ElemAddr(i))
	}
}

func (s *SequenceType) CopyFromType(dst, src Addr, other DynamicType) error {
	ot := unwrapSingleMember(other)
	os, ok := ot.(*SequenceType)
	if !ok {
		return newError(ErrTypeMismatchKind, "cannot copy %s into sequence %q", other.Name(), s.name)
	}
	sb := s.buffer(src)
	db := rawbuf.NewBuffer(s.content.MemorySize(), s.bounds)
	dst.SetHandle(db)
	if sb == nil {
		return nil
	}
	n := sb.Size()
	if s.bounds > 0 && n > s.bounds {
		n = s.bounds
	}
	db.Grow(n, func(a rawbuf.Addr) { s.content.Construct(a) })
	for i := int64(0); i < n; i++ {
		if err := s.content.CopyFromType(db.ElemAddr(i), sb.ElemAddr(i), os.content); err != nil {
			return err
		}
	}
	return nil
}

func (s *SequenceType) Move(dst, src Addr, dstInitialized bool) {
	if dstInitialized {
		s.Destroy(dst)
	}
	dst.SetHandle(s.buffer(src))
	src.ClearHandle()
}

func (s *SequenceType) Destroy(addr Addr) {
	buf := s.buffer(addr)
	if buf != nil && s.content.IsConstructedType() {
		for i := int64(0); i < buf.Size(); i++ {
			s.content.Destroy(buf.ElemAddr(i))
		}
	}
	addr.ClearHandle()
}

func (s *SequenceType) GetAt(addr Addr, i int) (Addr, error) {
	buf := s.buffer(addr)
	if buf == nil || i < 0 || int64(i) >= buf.Size() {
		sz := int64(0)
		if buf != nil {
			sz = buf.Size()
		}
		return Addr{}, newError(ErrOutOfBoundsKind, "index %d out of range for sequence %q of size %d", i, s.name, sz)
	}
	return buf.ElemAddr(int64(i)), nil
}

func (s *SequenceType) Size(addr Addr) int64 {
	buf := s.buffer(addr)
	if buf == nil {
		return 0
	}
	return buf.Size()
}

// Push appends one default-constructed element, returning the new
// element's address. It fails (ok == false, unmodified) when the bound
// has already been reached.
func (s *SequenceType) Push(addr Addr) (Addr, bool) {
	buf := s.buffer(addr)
	if buf == nil {
		buf = rawbuf.NewBuffer(s.content.MemorySize(), s.bounds)
		addr.SetHandle(buf)
	}
	a, ok := buf.Push()
	if !ok {
		return Addr{}, false
	}
	s.content.Construct(a)
	return a, true
}

// Resize grows or shrinks the sequence to n elements, constructing new
// slots or destroying removed ones as needed.
func (s *SequenceType) Resize(addr Addr, n int64) error {
	if s.bounds > 0 && n > s.bounds {
		return newError(ErrBoundsExceededKind, "resize to %d exceeds bound %d for sequence %q", n, s.bounds, s.name)
	}
	buf := s.buffer(addr)
	if buf == nil {
		buf = rawbuf.NewBuffer(s.content.MemorySize(), s.bounds)
		addr.SetHandle(buf)
	}
	if n >= buf.Size() {
		buf.Grow(n, func(a rawbuf.Addr) { s.content.Construct(a) })
	} else {
		buf.Shrink(n, func(a rawbuf.Addr) { s.content.Destroy(a) })
	}
	return nil
}

func (s *SequenceType) Compare(x, y Addr) bool {
	bx, by := s.buffer(x), s.buffer(y)
	sx, sy := int64(0), int64(0)
	if bx != nil {
		sx = bx.Size()
	}
	if by != nil {
		sy = by.Size()
	}
	if sx != sy {
		return false
	}
	for i := int64(0); i < sx; i++ {
		if !s.content.Compare(bx.ElemAddr(i), by.ElemAddr(i)) {
			return false
		}
	}
	return true
}

func (s *SequenceType) Hash(addr Addr) uint64 {
	buf := s.buffer(addr)
	var h uint64 = 1099511628211
	if buf == nil {
		return h
	}
	for i := int64(0); i < buf.Size(); i++ {
		h = combineHash(h, s.content.Hash(buf.ElemAddr(i)))
	}
	return h
}

func (s *SequenceType) ForEachInstance(node InstanceNode, visitor InstanceVisitor) error {
	if err := visitor(node); err != nil {
		return err
	}
	buf := s.buffer(node.Addr)
	if buf == nil {
		return nil
	}
	for i := int64(0); i < buf.Size(); i++ {
		child := node.child(s.content, buf.ElemAddr(i), Edge{Kind: EdgeIndex, Index: int(i)})
		if err := s.content.ForEachInstance(child, visitor); err != nil {
			return err
		}
	}
	return nil
}

func (s *SequenceType) ForEachType(node TypeNode, visitor TypeVisitor, preorder bool) error {
	if preorder {
		if err := visitor(node); err != nil {
			return err
		}
	}
	child := node.child(s.content, Edge{Kind: EdgeIndex})
	if err := s.content.ForEachType(child, visitor, preorder); err != nil {
		return err
	}
	if !preorder {
		if err := visitor(node); err != nil {
			return err
		}
	}
	return nil
}

func (s *SequenceType) IsCompatible(other DynamicType) Consistency {
	return collectionCompatibility(KindSequence, s.bounds, s.content, other, ConsistencyIgnoreSequenceBounds)
}

func (s *SequenceType) Resolve() DynamicType { return s }

func (s *SequenceType) Clone() DynamicType {
	c := *s
	c.content = s.content.Clone()
	return &c
}
