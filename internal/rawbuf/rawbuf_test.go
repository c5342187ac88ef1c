package rawbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddrBytesAliasesBlockStorage(t *testing.T) {
	a := NewAddr(8)
	b := a.Bytes(8)
	b[3] = 0xAB
	require.Equal(t, byte(0xAB), a.Plus(3).Bytes(1)[0])
}

func TestAddrZeroClearsRange(t *testing.T) {
	a := NewAddr(8)
	copy(a.Bytes(8), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	a.Plus(2).Zero(4)
	require.Equal(t, []byte{1, 2, 0, 0, 0, 0, 7, 8}, a.Bytes(8))
}

func TestHandleSetGetAndClear(t *testing.T) {
	a := NewAddr(handleSize)
	require.Nil(t, a.Handle())

	a.SetHandle("first")
	require.Equal(t, "first", a.Handle())

	// A second set at the same address reuses the slot.
	a.SetHandle("second")
	require.Equal(t, "second", a.Handle())

	a.ClearHandle()
	require.Nil(t, a.Handle())
}

func TestHandlesAtDistinctOffsetsAreIndependent(t *testing.T) {
	a := NewAddr(2 * handleSize)
	a.SetHandle("left")
	a.Plus(handleSize).SetHandle("right")
	require.Equal(t, "left", a.Handle())
	require.Equal(t, "right", a.Plus(handleSize).Handle())

	a.ClearHandle()
	require.Nil(t, a.Handle())
	require.Equal(t, "right", a.Plus(handleSize).Handle())
}

func TestBufferPushGrowsSize(t *testing.T) {
	b := NewBuffer(4, 0)
	require.Equal(t, int64(0), b.Size())

	for i := 0; i < 5; i++ {
		addr, ok := b.Push()
		require.True(t, ok)
		addr.Bytes(4)[0] = byte(i + 1)
	}
	require.Equal(t, int64(5), b.Size())
	for i := int64(0); i < 5; i++ {
		require.Equal(t, byte(i+1), b.ElemAddr(i).Bytes(4)[0])
	}
}

func TestBufferPushRespectsBound(t *testing.T) {
	b := NewBuffer(1, 2)
	_, ok := b.Push()
	require.True(t, ok)
	_, ok = b.Push()
	require.True(t, ok)
	require.True(t, b.Full())

	_, ok = b.Push()
	require.False(t, ok)
	require.Equal(t, int64(2), b.Size())
}

func TestBufferGrowInitializesNewSlots(t *testing.T) {
	b := NewBuffer(2, 0)
	var inited []int64
	b.Grow(3, func(a Addr) { inited = append(inited, a.Off) })
	require.Equal(t, []int64{0, 2, 4}, inited)
	require.Equal(t, int64(3), b.Size())

	// Growing to a smaller or equal size is a no-op.
	b.Grow(2, func(Addr) { t.Fatal("init called on no-op grow") })
	require.Equal(t, int64(3), b.Size())
}

func TestBufferShrinkReleasesInDescendingOrder(t *testing.T) {
	b := NewBuffer(2, 0)
	b.Grow(4, func(Addr) {})
	var released []int64
	b.Shrink(1, func(a Addr) { released = append(released, a.Off) })
	require.Equal(t, []int64{6, 4, 2}, released)
	require.Equal(t, int64(1), b.Size())
}

func TestBufferGrowthPreservesContent(t *testing.T) {
	b := NewBuffer(1, 0)
	a, ok := b.Push()
	require.True(t, ok)
	a.Bytes(1)[0] = 0x7F
	// Force several capacity doublings past the first element.
	b.Grow(33, func(Addr) {})
	require.Equal(t, byte(0x7F), b.ElemAddr(0).Bytes(1)[0])
}

func TestMapInstanceReserveAndLookup(t *testing.T) {
	m := NewMapInstance(4, 8, 0)
	k, v, ok := m.ReserveSlot()
	require.True(t, ok)
	copy(k.Bytes(4), []byte{1, 2, 3, 4})
	v.Bytes(8)[0] = 0xEE
	m.IndexInsert([]byte{1, 2, 3, 4}, 0)

	i, ok := m.Lookup([]byte{1, 2, 3, 4})
	require.True(t, ok)
	require.Equal(t, int64(0), i)
	require.Equal(t, byte(0xEE), m.ValueAddr(i).Bytes(8)[0])

	_, ok = m.Lookup([]byte{4, 3, 2, 1})
	require.False(t, ok)
}

func TestMapInstanceReserveRespectsBound(t *testing.T) {
	m := NewMapInstance(1, 1, 1)
	_, _, ok := m.ReserveSlot()
	require.True(t, ok)
	_, _, ok = m.ReserveSlot()
	require.False(t, ok)
	require.Equal(t, int64(1), m.Size())
}

func TestMapInstanceReindex(t *testing.T) {
	m := NewMapInstance(1, 1, 0)
	for i := 0; i < 3; i++ {
		k, _, ok := m.ReserveSlot()
		require.True(t, ok)
		k.Bytes(1)[0] = byte('a' + i)
	}
	m.Reindex(func(a Addr) []byte { return a.Bytes(1) })
	for i := 0; i < 3; i++ {
		got, ok := m.Lookup([]byte{byte('a' + i)})
		require.True(t, ok)
		require.Equal(t, int64(i), got)
	}
}
