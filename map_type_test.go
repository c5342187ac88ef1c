package xtypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapRejectsStructuredKey(t *testing.T) {
	badKey := NewStructureType("Key")
	_, err := badKey.AddMember(NewMember("x", PrimitiveTypeFor[uint32]()))
	require.NoError(t, err)
	_, err = NewMapType(badKey, PrimitiveTypeFor[uint32](), 0)
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestMapPushAndLookupByPrimitiveKey(t *testing.T) {
	m, err := NewMapType(PrimitiveTypeFor[uint32](), PrimitiveTypeFor[float64](), 0)
	require.NoError(t, err)
	addr := newAddr(m.MemorySize())
	m.Construct(addr)

	k, v, ok := m.Push(addr)
	require.True(t, ok)
	PrimitiveTypeFor[uint32]().SetValue(k, 7)
	PrimitiveTypeFor[float64]().SetValue(v, 3.5)
	m.ReindexKey(addr, 0, k)

	kb := m.keyBytes(k)
	got, ok := m.Lookup(addr, kb)
	require.True(t, ok)
	require.Equal(t, 3.5, PrimitiveTypeFor[float64]().Value(got))
	require.Equal(t, int64(1), m.Size(addr))
}

func TestMapPushRespectsBound(t *testing.T) {
	m, err := NewMapType(PrimitiveTypeFor[uint32](), PrimitiveTypeFor[uint32](), 1)
	require.NoError(t, err)
	addr := newAddr(m.MemorySize())
	m.Construct(addr)

	_, _, ok := m.Push(addr)
	require.True(t, ok)
	_, _, ok = m.Push(addr)
	require.False(t, ok)
	require.Equal(t, int64(1), m.Size(addr))
}

func TestMapStringKeyLookup(t *testing.T) {
	m, err := NewMapType(NewStringType(0, false), PrimitiveTypeFor[uint32](), 0)
	require.NoError(t, err)
	addr := newAddr(m.MemorySize())
	m.Construct(addr)

	k, v, ok := m.Push(addr)
	require.True(t, ok)
	require.NoError(t, NewStringType(0, false).SetValue(k, "answer"))
	PrimitiveTypeFor[uint32]().SetValue(v, 42)
	m.ReindexKey(addr, 0, k)

	got, ok := m.Lookup(addr, []byte("answer"))
	require.True(t, ok)
	require.Equal(t, uint32(42), PrimitiveTypeFor[uint32]().Value(got))
}

// TestMapHashIsOrderIndependent verifies hash stability under
// CollectionInstance's unspecified iteration order, per §3: two maps with
// entries inserted in a different order must compare equal and hash
// equal.
func TestMapHashIsOrderIndependent(t *testing.T) {
	m, err := NewMapType(PrimitiveTypeFor[uint32](), PrimitiveTypeFor[uint32](), 0)
	require.NoError(t, err)

	a := newAddr(m.MemorySize())
	m.Construct(a)
	for _, kv := range [][2]uint32{{1, 10}, {2, 20}} {
		k, v, ok := m.Push(a)
		require.True(t, ok)
		PrimitiveTypeFor[uint32]().SetValue(k, kv[0])
		PrimitiveTypeFor[uint32]().SetValue(v, kv[1])
		m.ReindexKey(a, m.Size(a)-1, k)
	}

	b := newAddr(m.MemorySize())
	m.Construct(b)
	for _, kv := range [][2]uint32{{2, 20}, {1, 10}} {
		k, v, ok := m.Push(b)
		require.True(t, ok)
		PrimitiveTypeFor[uint32]().SetValue(k, kv[0])
		PrimitiveTypeFor[uint32]().SetValue(v, kv[1])
		m.ReindexKey(b, m.Size(b)-1, k)
	}

	require.True(t, m.Compare(a, b))
	require.Equal(t, m.Hash(a), m.Hash(b))
}

func TestMapIsCompatibleRequiresBothKeyAndValue(t *testing.T) {
	a, err := NewMapType(PrimitiveTypeFor[uint32](), PrimitiveTypeFor[float64](), 0)
	require.NoError(t, err)
	b, err := NewMapType(PrimitiveTypeFor[uint32](), PrimitiveTypeFor[uint32](), 0)
	require.NoError(t, err)
	require.True(t, a.IsCompatible(b).IsNone())
}
