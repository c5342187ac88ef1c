package xtypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildOuter(t *testing.T) *StructureType {
	t.Helper()
	inner := NewStructureType("Inner")
	_, err := inner.AddMember(NewMember("im1", PrimitiveTypeFor[uint32]()))
	require.NoError(t, err)
	_, err = inner.AddMember(NewMember("im2", PrimitiveTypeFor[float32]()))
	require.NoError(t, err)

	om3, err := NewSequenceType(PrimitiveTypeFor[uint32](), 5)
	require.NoError(t, err)

	outer := NewStructureType("Outer")
	_, err = outer.AddMember(NewMember("om1", PrimitiveTypeFor[float64]()))
	require.NoError(t, err)
	_, err = outer.AddMember(NewMember("om2", inner))
	require.NoError(t, err)
	_, err = outer.AddMember(NewMember("om3", om3))
	require.NoError(t, err)
	return outer
}

// TestCursorScenario1 is §8 scenario 1: set Outer/Inner fields and a
// sequence, mutate one element through the cursor, and read it all back.
func TestCursorScenario1(t *testing.T) {
	outer := buildOuter(t)
	root := NewDynamicData(outer)

	om1, err := root.Member("om1")
	require.NoError(t, err)
	require.NoError(t, SetValue(om1, 6.7))

	om2, err := root.Member("om2")
	require.NoError(t, err)
	im1, err := om2.Member("im1")
	require.NoError(t, err)
	require.NoError(t, SetValue(im1, uint32(42)))
	im2, err := om2.Member("im2")
	require.NoError(t, err)
	require.NoError(t, SetValue(im2, float32(35.8)))

	om3, err := root.Member("om3")
	require.NoError(t, err)
	for _, v := range []uint32{12, 31, 50} {
		e, err := om3.Push()
		require.NoError(t, err)
		require.NoError(t, SetValue(e, v))
	}
	mid, err := om3.At(1)
	require.NoError(t, err)
	require.NoError(t, SetValue(mid, uint32(100)))

	require.Equal(t, int64(3), om3.Size())
	var got []uint32
	for i := 0; i < int(om3.Size()); i++ {
		e, err := om3.At(i)
		require.NoError(t, err)
		v, err := Value[uint32](e)
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []uint32{12, 100, 50}, got)

	v, err := Value[uint32](im1)
	require.NoError(t, err)
	require.Equal(t, uint32(42), v)
}

// TestCursorScenario2 is §8 scenario 2: pushing six values into a
// sequence bound at 5 leaves size 5 and the sixth push absent.
func TestCursorScenario2(t *testing.T) {
	outer := buildOuter(t)
	root := NewDynamicData(outer)
	om3, err := root.Member("om3")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		e, err := om3.Push()
		require.NoError(t, err)
		require.NoError(t, SetValue(e, uint32(i)))
	}
	_, err = om3.Push()
	require.ErrorIs(t, err, ErrBoundsExceeded)
	require.Equal(t, int64(5), om3.Size())
}

func TestCursorMemberUnknownNameFails(t *testing.T) {
	outer := buildOuter(t)
	root := NewDynamicData(outer)
	_, err := root.Member("nope")
	require.ErrorIs(t, err, ErrInvalidMember)
}

func TestCursorAtOutOfRangeFails(t *testing.T) {
	outer := buildOuter(t)
	root := NewDynamicData(outer)
	om3, err := root.Member("om3")
	require.NoError(t, err)
	_, err = om3.At(0)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestCursorValueWrongKindFails(t *testing.T) {
	outer := buildOuter(t)
	root := NewDynamicData(outer)
	om1, err := root.Member("om1")
	require.NoError(t, err)
	_, err = Value[uint32](om1)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func buildFixedTemp(t *testing.T) *StructureType {
	t.Helper()
	temp := NewStructureType("Temp")
	_, err := temp.AddMember(NewMember("number", PrimitiveTypeFor[uint32]()))
	require.NoError(t, err)
	_, err = temp.AddMember(NewMember("string", NewStringType(0, false)))
	require.NoError(t, err)

	seq, err := NewSequenceType(temp, 0)
	require.NoError(t, err)

	fixed := NewStructureType("Fixed")
	_, err = fixed.AddMember(NewMember("number", PrimitiveTypeFor[uint32]()))
	require.NoError(t, err)
	_, err = fixed.AddMember(NewMember("inner", seq))
	require.NoError(t, err)
	return fixed
}

type edgeLabel struct {
	depth int
	kind  EdgeKind
	name  string
	index int
}

// TestCursorScenario4TraversalOrder is §8 scenario 4: the preorder walk
// of Fixed{number, inner:seq<Temp>} after pushing two Temp values visits
// the edges [], number, inner, [0], number, string, [1], number, string
// at depths 0,1,1,2,3,3,2,3,3.
func TestCursorScenario4TraversalOrder(t *testing.T) {
	fixed := buildFixedTemp(t)
	root := NewDynamicData(fixed)

	number, err := root.Member("number")
	require.NoError(t, err)
	require.NoError(t, SetValue(number, uint32(42)))

	inner, err := root.Member("inner")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		elem, err := inner.Push()
		require.NoError(t, err)
		num, err := elem.Member("number")
		require.NoError(t, err)
		require.NoError(t, SetValue(num, uint32(i)))
		str, err := elem.Member("string")
		require.NoError(t, err)
		if i == 0 {
			require.NoError(t, str.SetStr("0"))
		} else {
			require.NoError(t, str.SetStr("1"))
		}
	}

	var got []edgeLabel
	err = root.ForEach(true, func(n Node) error {
		got = append(got, edgeLabel{depth: n.Depth, kind: n.Edge.Kind, name: n.Edge.Name, index: n.Edge.Index})
		return nil
	})
	require.NoError(t, err)

	want := []edgeLabel{
		{0, EdgeRoot, "", 0},
		{1, EdgeMember, "number", 0},
		{1, EdgeMember, "inner", 1},
		{2, EdgeIndex, "", 0},
		{3, EdgeMember, "number", 0},
		{3, EdgeMember, "string", 1},
		{2, EdgeIndex, "", 1},
		{3, EdgeMember, "number", 0},
		{3, EdgeMember, "string", 1},
	}
	require.Equal(t, want, got)
}

// TestCursorScenario6CopyThenCompareAndHash is §8 scenario 6: copying a
// populated Outer into a fresh one yields equal values and equal hashes
// until a leaf in the source is mutated.
func TestCursorScenario6CopyThenCompareAndHash(t *testing.T) {
	outer := buildOuter(t)
	src := NewDynamicData(outer)
	om1, err := src.Member("om1")
	require.NoError(t, err)
	require.NoError(t, SetValue(om1, 6.7))
	om3, err := src.Member("om3")
	require.NoError(t, err)
	e, err := om3.Push()
	require.NoError(t, err)
	require.NoError(t, SetValue(e, uint32(9)))

	dst := NewDynamicData(outer)
	require.NoError(t, dst.Assign(src))
	require.True(t, src.Equal(dst))
	require.Equal(t, src.Hash(), dst.Hash())

	require.NoError(t, SetValue(om1, 1.0))
	require.False(t, src.Equal(dst))
}

func TestNewDynamicDataFromCopiesCursorValue(t *testing.T) {
	outer := buildOuter(t)
	src := NewDynamicData(outer)
	om1, err := src.Member("om1")
	require.NoError(t, err)
	require.NoError(t, SetValue(om1, 2.5))

	dup := NewDynamicDataFrom(src)
	require.True(t, dup.Equal(src))

	require.NoError(t, SetValue(om1, 9.0))
	require.False(t, dup.Equal(src))
}

func TestCursorAssignFailsOnIncompatibleTypes(t *testing.T) {
	a := NewDynamicData(NewStructureType("A"))
	b := NewDynamicData(PrimitiveTypeFor[uint32]())
	err := a.Assign(b)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestCursorStringFields(t *testing.T) {
	st := NewStructureType("Msg")
	_, err := st.AddMember(NewMember("text", NewStringType(0, false)))
	require.NoError(t, err)
	root := NewDynamicData(st)

	text, err := root.Member("text")
	require.NoError(t, err)
	require.NoError(t, text.SetStr("hello"))
	got, err := text.Str()
	require.NoError(t, err)
	require.Equal(t, "hello", got)
}

// TestCursorOptionalMemberUninitializedAccess is §7's worked case: a
// member flagged optional may be read only after it has been written at
// least once; a non-optional member never needs one.
func TestCursorOptionalMemberUninitializedAccess(t *testing.T) {
	st := NewStructureType("Reading")
	_, err := st.AddMember(NewMember("required", PrimitiveTypeFor[uint32]()))
	require.NoError(t, err)
	_, err = st.AddMember(NewMember("note", NewStringType(0, false)).Optional(true))
	require.NoError(t, err)
	root := NewDynamicData(st)

	required, err := root.Member("required")
	require.NoError(t, err)
	_, err = Value[uint32](required)
	require.NoError(t, err, "a non-optional member is readable before any explicit write")

	note, err := root.Member("note")
	require.NoError(t, err)
	_, err = note.Str()
	require.ErrorIs(t, err, ErrUninitializedAccess)

	require.NoError(t, note.SetStr("logged"))
	got, err := note.Str()
	require.NoError(t, err)
	require.Equal(t, "logged", got)
}

// TestCursorOptionalMemberWrittenViaAssign shows that assigning a whole
// aggregate into an optional structure member marks it written too, not
// just the primitive-leaf setters.
func TestCursorOptionalMemberWrittenViaAssign(t *testing.T) {
	inner := buildInnerType(t)
	outer := NewStructureType("HasOptionalInner")
	_, err := outer.AddMember(NewMember("maybe", inner).Optional(true))
	require.NoError(t, err)

	root := NewDynamicData(outer)
	maybe, err := root.Member("maybe")
	require.NoError(t, err)
	im1, err := maybe.Member("im1")
	require.NoError(t, err)
	_, err = Value[uint32](im1)
	require.NoError(t, err, "non-optional leaf members of an unwritten optional parent are still readable")

	src := NewDynamicData(inner)
	srcIm1, err := src.Member("im1")
	require.NoError(t, err)
	require.NoError(t, SetValue(srcIm1, uint32(9)))

	require.False(t, outer.isWritten(root.addr, maybe.optionalBit))
	require.NoError(t, maybe.Assign(src))
	require.True(t, outer.isWritten(root.addr, maybe.optionalBit))
	v, err := Value[uint32](im1)
	require.NoError(t, err)
	require.Equal(t, uint32(9), v)
}

// TestCursorPushAndIndexAssignAggregate is the om4/om6 pattern from the
// original source's main.cpp walkthrough: push a default-constructed
// structure element into a sequence, then assign a populated cursor's
// value into it, and separately assign into an already-sized array
// element by index — both via the Push/At + Assign composition rather
// than a single combined call.
func TestCursorPushAndIndexAssignAggregate(t *testing.T) {
	inner := buildInnerType(t)
	seq, err := NewSequenceType(inner, 0)
	require.NoError(t, err)
	arr, err := NewArrayType(inner, 2)
	require.NoError(t, err)

	outer := NewStructureType("Outer")
	_, err = outer.AddMember(NewMember("om2", inner))
	require.NoError(t, err)
	_, err = outer.AddMember(NewMember("om4", seq))
	require.NoError(t, err)
	_, err = outer.AddMember(NewMember("om6", arr))
	require.NoError(t, err)

	root := NewDynamicData(outer)
	om2, err := root.Member("om2")
	require.NoError(t, err)
	im1, err := om2.Member("im1")
	require.NoError(t, err)
	require.NoError(t, SetValue(im1, uint32(7)))

	om4, err := root.Member("om4")
	require.NoError(t, err)
	e, err := om4.Push()
	require.NoError(t, err)
	require.NoError(t, e.Assign(om2))
	again, err := om4.At(0)
	require.NoError(t, err)
	require.True(t, again.Equal(om2))

	om6, err := root.Member("om6")
	require.NoError(t, err)
	slot, err := om6.At(1)
	require.NoError(t, err)
	require.NoError(t, slot.Assign(om2))
	require.True(t, slot.Equal(om2))
}

func TestCursorMapPutAndGet(t *testing.T) {
	mt, err := NewMapType(PrimitiveTypeFor[uint32](), PrimitiveTypeFor[float64](), 0)
	require.NoError(t, err)
	root := NewDynamicData(mt)

	v, err := MapPut[uint32](root, 7)
	require.NoError(t, err)
	require.NoError(t, SetValue(v, 3.5))

	got, ok := MapGet[uint32](root, 7)
	require.True(t, ok)
	gv, err := Value[float64](got)
	require.NoError(t, err)
	require.Equal(t, 3.5, gv)

	_, ok = MapGet[uint32](root, 8)
	require.False(t, ok)
}
