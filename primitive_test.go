package xtypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func construct[T Primitive](t *testing.T, p *PrimitiveType[T]) Addr {
	t.Helper()
	addr := newAddr(p.MemorySize())
	p.Construct(addr)
	return addr
}

func TestPrimitiveConstructZeroes(t *testing.T) {
	p := PrimitiveTypeFor[uint32]()
	addr := construct(t, p)
	require.Equal(t, uint32(0), p.Value(addr))
}

func TestPrimitiveSetAndGetValue(t *testing.T) {
	p := PrimitiveTypeFor[float64]()
	addr := construct(t, p)
	p.SetValue(addr, 6.7)
	require.Equal(t, 6.7, p.Value(addr))
}

func TestPrimitiveCopy(t *testing.T) {
	p := PrimitiveTypeFor[int32]()
	src := construct(t, p)
	p.SetValue(src, -42)
	dst := construct(t, p)
	p.Copy(dst, src)
	require.Equal(t, int32(-42), p.Value(dst))
}

func TestPrimitiveCompare(t *testing.T) {
	p := PrimitiveTypeFor[uint16]()
	a := construct(t, p)
	b := construct(t, p)
	p.SetValue(a, 100)
	p.SetValue(b, 100)
	require.True(t, p.Compare(a, b))
	p.SetValue(b, 101)
	require.False(t, p.Compare(a, b))
}

func TestPrimitiveHashStableWithinRun(t *testing.T) {
	p := PrimitiveTypeFor[uint64]()
	a := construct(t, p)
	p.SetValue(a, 123456789)
	require.Equal(t, p.Hash(a), p.Hash(a))
}

func TestPrimitiveIsCompatibleSameKind(t *testing.T) {
	a := PrimitiveTypeFor[uint32]()
	b := PrimitiveTypeFor[uint32]()
	require.True(t, a.IsCompatible(b).IsEquals())
}

func TestPrimitiveIsCompatibleDifferingWidth(t *testing.T) {
	a := PrimitiveTypeFor[int32]()
	b := PrimitiveTypeFor[int64]()
	c := a.IsCompatible(b)
	require.False(t, c.IsNone())
	require.True(t, c.Has(ConsistencyIgnoreTypeWidth))
}

func TestPrimitiveIsCompatibleDifferingSign(t *testing.T) {
	a := PrimitiveTypeFor[int32]()
	b := PrimitiveTypeFor[uint32]()
	c := a.IsCompatible(b)
	require.False(t, c.IsNone())
	require.True(t, c.Has(ConsistencyIgnoreTypeSign))
}

func TestPrimitiveIsCompatibleDifferentFamily(t *testing.T) {
	a := PrimitiveTypeFor[int32]()
	b := PrimitiveTypeFor[float32]()
	require.True(t, a.IsCompatible(b).IsNone())
}

func TestPrimitiveCharKindsAreDistinct(t *testing.T) {
	require.Equal(t, KindChar8, PrimitiveTypeFor[Char8]().Kind())
	require.Equal(t, KindChar16, PrimitiveTypeFor[Char16]().Kind())
	require.True(t, PrimitiveTypeFor[Char8]().IsCompatible(PrimitiveTypeFor[Char8]()).IsEquals())
	require.True(t, PrimitiveTypeFor[Char8]().IsCompatible(PrimitiveTypeFor[uint8]()).IsNone())
}

func TestPrimitiveCopyFromTypeWidensByValue(t *testing.T) {
	narrow := PrimitiveTypeFor[uint16]()
	wide := PrimitiveTypeFor[uint32]()

	src := construct(t, narrow)
	narrow.SetValue(src, 0xBEEF)
	dst := construct(t, wide)
	require.NoError(t, wide.CopyFromType(dst, src, narrow))
	require.Equal(t, uint32(0xBEEF), wide.Value(dst))
}

func TestPrimitiveCopyFromTypeSignExtends(t *testing.T) {
	small := PrimitiveTypeFor[int8]()
	big := PrimitiveTypeFor[int32]()

	src := construct(t, small)
	small.SetValue(src, -5)
	dst := construct(t, big)
	require.NoError(t, big.CopyFromType(dst, src, small))
	require.Equal(t, int32(-5), big.Value(dst))
}

func TestPrimitiveCopyFromTypeConvertsFloatWidth(t *testing.T) {
	f64 := PrimitiveTypeFor[float64]()
	f32 := PrimitiveTypeFor[float32]()

	src := construct(t, f64)
	f64.SetValue(src, 1.5)
	dst := construct(t, f32)
	require.NoError(t, f32.CopyFromType(dst, src, f64))
	require.Equal(t, float32(1.5), f32.Value(dst))
}

func TestPrimitiveCopyFromTypeRejectsIncompatible(t *testing.T) {
	p := PrimitiveTypeFor[uint32]()
	s := PrimitiveTypeFor[float32]()
	src := construct(t, s)
	dst := construct(t, p)
	require.ErrorIs(t, p.CopyFromType(dst, src, s), ErrTypeMismatch)
}

func TestPrimitiveIsCompatibleAgainstStructure(t *testing.T) {
	inner := NewStructureType("Wrapper")
	_, err := inner.AddMember(NewMember("value", PrimitiveTypeFor[uint32]()))
	require.NoError(t, err)

	p := PrimitiveTypeFor[uint32]()
	require.True(t, p.IsCompatible(inner).IsEquals())
}
