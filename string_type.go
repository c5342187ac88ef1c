package xtypes

import (
	"golang.org/x/text/encoding/unicode"

	"github.com/haodongnj/xtypes/internal/rawbuf"
)

// StringType is an unbounded or bounded character sequence, narrow
// (char8, UTF-8 byte-wise) or wide (char16, UTF-16 code units). It
// reuses the same CollectionInstance representation as SequenceType,
// with content fixed to the chosen character width.
type StringType struct {
	typeBase
	bounds int64
	wide   bool
}

// NewStringType returns a string descriptor. bounds of 0 means
// unbounded; wide selects char16 elements instead of char8.
func NewStringType(bounds int64, wide bool) *StringType {
	name := "string"
	if wide {
		name = "wstring"
	}
	return &StringType{typeBase: typeBase{name: name, kind: KindString}, bounds: bounds, wide: wide}
}

// Bounds returns the string's maximum length, or 0 for unbounded.
func (s *StringType) Bounds() int64 { return s.bounds }

// Wide reports whether this string holds char16 elements.
func (s *StringType) Wide() bool { return s.wide }

func (s *StringType) elemWidth() int64 {
	if s.wide {
		return 2
	}
	return 1
}

func (s *StringType) charType() DynamicType {
	if s.wide {
		return PrimitiveTypeFor[Char16]()
	}
	return PrimitiveTypeFor[Char8]()
}

func (s *StringType) MemorySize() int64       { return handleSlotSize }
func (s *StringType) NaturalAlignment() int64 { return handleSlotSize }

func (s *StringType) buffer(addr Addr) *rawbuf.Buffer {
	h := addr.Handle()
	if h == nil {
		return nil
	}
	return h.(*rawbuf.Buffer)
}

func (s *StringType) Construct(addr Addr) {
	addr.SetHandle(rawbuf.NewBuffer(s.elemWidth(), s.bounds))
}

func (s *StringType) Copy(dst, src Addr) {
	sb := s.buffer(src)
	db := rawbuf.NewBuffer(s.elemWidth(), s.bounds)
	dst.SetHandle(db)
	if sb == nil {
		return
	}
	db.Grow(sb.Size(), func(rawbuf.Addr) {})
	copy(db.Bytes, sb.Bytes[:sb.Size()*s.elemWidth()])
}

func (s *StringType) CopyFromType(dst, src Addr, other DynamicType) error {
	ot := unwrapSingleMember(other)
	os, ok := ot.(*StringType)
	if !ok {
		return newError(ErrTypeMismatchKind, "cannot copy %s into string %q", other.Name(), s.name)
	}
	str, err := os.Value(src)
	if err != nil {
		return err
	}
	return s.SetValue(dst, str)
}

func (s *StringType) Move(dst, src Addr, dstInitialized bool) {
	if dstInitialized {
		s.Destroy(dst)
	}
	dst.SetHandle(s.buffer(src))
	src.ClearHandle()
}

func (s *StringType) Destroy(addr Addr) {
	addr.ClearHandle()
}

func (s *StringType) GetAt(addr Addr, i int) (Addr, error) {
	buf := s.buffer(addr)
	if buf == nil || i < 0 || int64(i) >= buf.Size() {
		return Addr{}, newError(ErrOutOfBoundsKind, "index %d out of range for %s", i, s.name)
	}
	return buf.ElemAddr(int64(i)), nil
}

func (s *StringType) Size(addr Addr) int64 {
	buf := s.buffer(addr)
	if buf == nil {
		return 0
	}
	return buf.Size()
}

// Push appends one character, failing when a non-zero bound is already
// reached.
func (s *StringType) Push(addr Addr, c uint16) bool {
	buf := s.buffer(addr)
	if buf == nil {
		buf = rawbuf.NewBuffer(s.elemWidth(), s.bounds)
		addr.SetHandle(buf)
	}
	a, ok := buf.Push()
	if !ok {
		return false
	}
	if s.wide {
		PrimitiveTypeFor[Char16]().SetValue(a, Char16(c))
	} else {
		PrimitiveTypeFor[Char8]().SetValue(a, Char8(c))
	}
	return true
}

// Value decodes the string's current contents as a Go string.
func (s *StringType) Value(addr Addr) (string, error) {
	buf := s.buffer(addr)
	if buf == nil {
		return "", nil
	}
	raw := buf.Bytes[:buf.Size()*s.elemWidth()]
	if !s.wide {
		return string(raw), nil
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", newError(ErrTypeMismatchKind, "invalid utf-16 in %s: %v", s.name, err)
	}
	return string(out), nil
}

// SetValue resizes and overwrites the string's contents with v. It fails
// with ErrBoundsExceeded when v is longer than a non-zero bound.
func (s *StringType) SetValue(addr Addr, v string) error {
	var raw []byte
	if s.wide {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
		b, err := enc.Bytes([]byte(v))
		if err != nil {
			return newError(ErrTypeMismatchKind, "cannot encode %q as utf-16: %v", v, err)
		}
		raw = b
	} else {
		raw = []byte(v)
	}
	n := int64(len(raw)) / s.elemWidth()
	if s.bounds > 0 && n > s.bounds {
		return newError(ErrBoundsExceededKind, "string of length %d exceeds bound %d for %s", n, s.bounds, s.name)
	}
	buf := rawbuf.NewBuffer(s.elemWidth(), s.bounds)
	addr.SetHandle(buf)
	buf.Grow(n, func(rawbuf.Addr) {})
	copy(buf.Bytes, raw)
	return nil
}

func (s *StringType) Compare(x, y Addr) bool {
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
	w := s.elemWidth()
	if sx == 0 {
		return true
	}
	xb, yb := bx.Bytes[:sx*w], by.Bytes[:sy*w]
	for i := range xb {
		if xb[i] != yb[i] {
			return false
		}
	}
	return true
}

func (s *StringType) Hash(addr Addr) uint64 {
	buf := s.buffer(addr)
	if buf == nil {
		return fixedMix(nil)
	}
	return fixedMix(buf.Bytes[:buf.Size()*s.elemWidth()])
}

func (s *StringType) ForEachInstance(node InstanceNode, visitor InstanceVisitor) error {
	return visitor(node)
}

func (s *StringType) ForEachType(node TypeNode, visitor TypeVisitor, preorder bool) error {
	return visitor(node)
}

func (s *StringType) IsCompatible(other DynamicType) Consistency {
	return collectionCompatibility(KindString, s.bounds, s.charType(), other, ConsistencyIgnoreStringBounds)
}

func (s *StringType) Resolve() DynamicType { return s }

func (s *StringType) Clone() DynamicType {
	c := *s
	return &c
}
