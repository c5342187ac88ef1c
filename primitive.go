package xtypes

import (
	"encoding/binary"
	"math"
)

// Primitive is the set of Go types a PrimitiveType may be instantiated
// over: the POD leaves of the type system (booleans, the two character
// widths, every fixed-width integer, and both floats).
type Primitive interface {
	~bool | ~uint8 | ~uint16 | ~int8 | ~int16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// Char8 is the element type of a narrow (UTF-8 byte-wise) StringType. It
// is a distinct type, not an alias for byte, so a char8 descriptor keeps
// its own Kind separate from uint8's.
type Char8 byte

// Char16 is the element type of a wide (UTF-16 code unit) StringType.
type Char16 uint16

// PrimitiveType is a POD leaf: fixed size, trivial copy, trivial
// equality. There is one PrimitiveType per supported Go type T; build it
// with PrimitiveTypeFor, which returns a fresh descriptor on every call.
type PrimitiveType[T Primitive] struct {
	typeBase
}

// PrimitiveTypeFor returns the descriptor for T, one of the supported
// primitive element types.
func PrimitiveTypeFor[T Primitive]() *PrimitiveType[T] {
	var zero T
	k := kindOf(zero)
	return &PrimitiveType[T]{typeBase{name: k.String(), kind: k}}
}

func kindOf(v any) Kind {
	switch v.(type) {
	case bool:
		return KindBool
	case Char8:
		return KindChar8
	case Char16:
		return KindChar16
	case int8:
		return KindInt8
	case uint8:
		return KindUint8
	case int16:
		return KindInt16
	case uint16:
		return KindUint16
	case int32:
		return KindInt32
	case uint32:
		return KindUint32
	case int64:
		return KindInt64
	case uint64:
		return KindUint64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	default:
		panic("xtypes: unsupported primitive type")
	}
}

func (p *PrimitiveType[T]) MemorySize() int64       { return p.kind.primitiveWidth() }
func (p *PrimitiveType[T]) NaturalAlignment() int64 { return p.kind.primitiveWidth() }

func (p *PrimitiveType[T]) Construct(addr Addr) {
	addr.Zero(p.MemorySize())
}

func (p *PrimitiveType[T]) Copy(dst, src Addr) {
	copy(dst.Bytes(p.MemorySize()), src.Bytes(p.MemorySize()))
}

func (p *PrimitiveType[T]) CopyFromType(dst, src Addr, other DynamicType) error {
	ot := unwrapSingleMember(other)
	ok := ot.Kind()
	if ok == p.kind {
		p.Copy(dst, src)
		return nil
	}
	if p.IsCompatible(ot).IsNone() {
		return newError(ErrTypeMismatchKind, "cannot copy %s into %s", other.Name(), p.name)
	}
	// Compatible but not identical: differing width or signedness within
	// the same numeric family. Convert by value rather than by bytes so a
	// narrower source never overreads and floats survive the width change.
	if p.kind.isPrimitiveFloat() {
		var f float64
		if ok == KindFloat32 {
			f = float64(math.Float32frombits(binary.LittleEndian.Uint32(src.Bytes(4))))
		} else {
			f = math.Float64frombits(binary.LittleEndian.Uint64(src.Bytes(8)))
		}
		if p.kind == KindFloat32 {
			binary.LittleEndian.PutUint32(dst.Bytes(4), math.Float32bits(float32(f)))
		} else {
			binary.LittleEndian.PutUint64(dst.Bytes(8), math.Float64bits(f))
		}
		return nil
	}
	writeIntBits(dst, p.kind, readIntBits(src, ok))
	return nil
}

// readIntBits loads an integer primitive as a uint64, sign-extending when
// its kind is signed.
func readIntBits(a Addr, k Kind) uint64 {
	b := a.Bytes(k.primitiveWidth())
	var u uint64
	switch len(b) {
	case 1:
		u = uint64(b[0])
	case 2:
		u = uint64(binary.LittleEndian.Uint16(b))
	case 4:
		u = uint64(binary.LittleEndian.Uint32(b))
	case 8:
		u = binary.LittleEndian.Uint64(b)
	}
	if k.isPrimitiveSigned() {
		shift := uint(64 - 8*k.primitiveWidth())
		return uint64(int64(u<<shift) >> shift)
	}
	return u
}

// writeIntBits stores the low bytes of v as an integer primitive of kind
// k.
func writeIntBits(a Addr, k Kind, v uint64) {
	b := a.Bytes(k.primitiveWidth())
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(b, v)
	}
}

func (p *PrimitiveType[T]) Move(dst, src Addr, dstInitialized bool) {
	if dstInitialized {
		p.Destroy(dst)
	}
	p.Copy(dst, src)
}

func (p *PrimitiveType[T]) Destroy(addr Addr) {}

func (p *PrimitiveType[T]) GetAt(addr Addr, i int) (Addr, error) {
	return Addr{}, newError(ErrOutOfBoundsKind, "%s has no elements", p.name)
}

func (p *PrimitiveType[T]) Size(addr Addr) int64 { return 0 }

func (p *PrimitiveType[T]) Compare(a, b Addr) bool {
	n := p.MemorySize()
	ab, bb := a.Bytes(n), b.Bytes(n)
	for i := range ab {
		if ab[i] != bb[i] {
			return false
		}
	}
	return true
}

func (p *PrimitiveType[T]) Hash(addr Addr) uint64 {
	return fixedMix(addr.Bytes(p.MemorySize()))
}

func (p *PrimitiveType[T]) ForEachInstance(node InstanceNode, visitor InstanceVisitor) error {
	return visitor(node)
}

func (p *PrimitiveType[T]) ForEachType(node TypeNode, visitor TypeVisitor, preorder bool) error {
	return visitor(node)
}

func (p *PrimitiveType[T]) IsCompatible(other DynamicType) Consistency {
	return primitiveCompatibility(p, other)
}

func (p *PrimitiveType[T]) Resolve() DynamicType { return p }

func (p *PrimitiveType[T]) Clone() DynamicType {
	c := *p
	return &c
}

// Value reads the primitive at addr as a Go value of T.
func (p *PrimitiveType[T]) Value(addr Addr) T {
	return decodePrimitive[T](p.kind, addr.Bytes(p.MemorySize()))
}

// SetValue writes v into the primitive at addr.
func (p *PrimitiveType[T]) SetValue(addr Addr, v T) {
	encodePrimitive(p.kind, addr.Bytes(p.MemorySize()), v)
}

// fixedMix is the fixed byte-mixing function required of every primitive
// hash: an FNV-1a fold over the type's raw bytes.
func fixedMix(b []byte) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= prime64
	}
	return h
}

func encodePrimitive[T Primitive](k Kind, b []byte, v T) {
	switch k {
	case KindBool:
		if any(v).(bool) {
			b[0] = 1
		} else {
			b[0] = 0
		}
	case KindChar8:
		b[0] = byte(any(v).(Char8))
	case KindUint8:
		b[0] = byte(anyToUint64(v))
	case KindInt8:
		b[0] = byte(anyToUint64(v))
	case KindChar16:
		binary.LittleEndian.PutUint16(b, uint16(any(v).(Char16)))
	case KindUint16:
		binary.LittleEndian.PutUint16(b, uint16(anyToUint64(v)))
	case KindInt16:
		binary.LittleEndian.PutUint16(b, uint16(anyToUint64(v)))
	case KindUint32:
		binary.LittleEndian.PutUint32(b, uint32(anyToUint64(v)))
	case KindInt32:
		binary.LittleEndian.PutUint32(b, uint32(anyToUint64(v)))
	case KindUint64:
		binary.LittleEndian.PutUint64(b, anyToUint64(v))
	case KindInt64:
		binary.LittleEndian.PutUint64(b, anyToUint64(v))
	case KindFloat32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(anyToFloat64(v))))
	case KindFloat64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(anyToFloat64(v)))
	default:
		panic("xtypes: not a primitive kind")
	}
}

func decodePrimitive[T Primitive](k Kind, b []byte) T {
	var out T
	switch k {
	case KindBool:
		out = any(b[0] != 0).(T)
	case KindChar8:
		out = any(Char8(b[0])).(T)
	case KindUint8:
		out = any(b[0]).(T)
	case KindInt8:
		out = any(int8(b[0])).(T)
	case KindChar16:
		out = any(Char16(binary.LittleEndian.Uint16(b))).(T)
	case KindUint16:
		out = any(binary.LittleEndian.Uint16(b)).(T)
	case KindInt16:
		out = any(int16(binary.LittleEndian.Uint16(b))).(T)
	case KindUint32:
		out = any(binary.LittleEndian.Uint32(b)).(T)
	case KindInt32:
		out = any(int32(binary.LittleEndian.Uint32(b))).(T)
	case KindUint64:
		out = any(binary.LittleEndian.Uint64(b)).(T)
	case KindInt64:
		out = any(int64(binary.LittleEndian.Uint64(b))).(T)
	case KindFloat32:
		out = any(math.Float32frombits(binary.LittleEndian.Uint32(b))).(T)
	case KindFloat64:
		out = any(math.Float64frombits(binary.LittleEndian.Uint64(b))).(T)
	default:
		panic("xtypes: not a primitive kind")
	}
	return out
}

func anyToUint64[T Primitive](v T) uint64 {
	switch x := any(v).(type) {
	case int8:
		return uint64(uint8(x))
	case uint8:
		return uint64(x)
	case int16:
		return uint64(uint16(x))
	case uint16:
		return uint64(x)
	case int32:
		return uint64(uint32(x))
	case uint32:
		return uint64(x)
	case int64:
		return uint64(x)
	case uint64:
		return x
	default:
		panic("xtypes: not an integer primitive")
	}
}

func anyToFloat64[T Primitive](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		panic("xtypes: not a float primitive")
	}
}

// primitiveCompatibility implements spec §4.3 rule 4 for the primitive
// self against an arbitrary descriptor other.
func primitiveCompatibility(self DynamicType, other DynamicType) Consistency {
	other = resolveAlias(other)
	if sm, ok := singleMember(other); ok {
		return sm.Type().IsCompatible(self)
	}
	k := self.Kind()
	ok := other.Kind()
	if ok == k {
		return ConsistencyEquals
	}
	// Width/sign tolerance only applies between numeric kinds; bool and
	// the char kinds match nothing but themselves.
	if !k.isPrimitiveNumeric() || !ok.isPrimitiveNumeric() {
		return ConsistencyNone
	}
	if ok.isPrimitiveFloat() != k.isPrimitiveFloat() {
		return ConsistencyNone
	}
	if k.primitiveWidth() == ok.primitiveWidth() {
		if k.isPrimitiveSigned() != ok.isPrimitiveSigned() {
			return ConsistencyEquals | ConsistencyIgnoreTypeSign
		}
		return ConsistencyNone
	}
	c := ConsistencyEquals | ConsistencyIgnoreTypeWidth
	if k.isPrimitiveSigned() != ok.isPrimitiveSigned() {
		c |= ConsistencyIgnoreTypeSign
	}
	return c
}
