package xtypes

import (
	"errors"

	"github.com/haodongnj/xtypes/internal/rawbuf"
)

// DynamicData is a non-owning cursor over an instance tree: a descriptor
// plus a byte address. Navigation (Member, At) returns a new cursor
// rather than mutating the receiver, so callers can hold several cursors
// into the same tree at once; per §5 of the engine's concurrency model,
// only one of them may be used to write at a time.
type DynamicData struct {
	typ  DynamicType
	addr Addr

	// home/homeAddr/optionalBit identify this cursor's slot in its parent
	// structure, when it was reached via Member or a structure's At: they
	// let the value-level accessors below mark or check the member's
	// written-bit. home is nil for cursors that are not an optional (or
	// any) structure member, e.g. the root, collection elements, map
	// entries.
	home        *StructureType
	homeAddr    Addr
	optionalBit int
}

// NewDynamicData allocates and default-constructs a fresh instance of t,
// returning a cursor at its root.
func NewDynamicData(t DynamicType) *DynamicData {
	addr := rawbuf.NewAddr(t.MemorySize())
	t.Construct(addr)
	return &DynamicData{typ: t, addr: addr, optionalBit: -1}
}

// NewDynamicDataFrom allocates a fresh instance of src's descriptor and
// deep-copies src's current value into it. The new cursor owns its own
// root; later writes through either cursor do not affect the other.
func NewDynamicDataFrom(src *DynamicData) *DynamicData {
	addr := rawbuf.NewAddr(src.typ.MemorySize())
	src.typ.Construct(addr)
	src.typ.Copy(addr, src.addr)
	return &DynamicData{typ: src.typ, addr: addr, optionalBit: -1}
}

// Type returns the descriptor this cursor is addressing.
func (d *DynamicData) Type() DynamicType { return d.typ }

// Size returns the element count (collections) or member count
// (structures) at this cursor.
func (d *DynamicData) Size() int64 { return d.typ.Resolve().Size(d.addr) }

// Member returns a child cursor at the named structure field. Fails with
// ErrInvalidMember if this cursor is not a structure or has no such
// field.
func (d *DynamicData) Member(name string) (*DynamicData, error) {
	st, ok := d.typ.Resolve().(*StructureType)
	if !ok {
		return nil, newError(ErrInvalidMemberKind, "%s is not a structure", d.typ.Name())
	}
	m, ok := st.Member(name)
	if !ok {
		return nil, newError(ErrInvalidMemberKind, "structure %q has no member %q", st.Name(), name)
	}
	addr, err := st.GetMember(d.addr, name)
	if err != nil {
		return nil, err
	}
	return &DynamicData{typ: m.Type(), addr: addr, home: st, homeAddr: d.addr, optionalBit: m.optionalBit}, nil
}

// At returns a child cursor at the i-th element of a collection, or the
// i-th member of a structure. Out-of-range fails with ErrOutOfBounds.
func (d *DynamicData) At(i int) (*DynamicData, error) {
	child, _, err := d.childAt(i)
	return child, err
}

func (d *DynamicData) childAt(i int) (*DynamicData, Edge, error) {
	t := d.typ.Resolve()
	if st, ok := t.(*StructureType); ok {
		addr, err := st.GetAt(d.addr, i)
		if err != nil {
			return nil, Edge{}, err
		}
		m := st.Members()[i]
		return &DynamicData{typ: m.Type(), addr: addr, home: st, homeAddr: d.addr, optionalBit: m.optionalBit}, Edge{Kind: EdgeMember, Name: m.Name(), Index: i}, nil
	}
	addr, err := t.GetAt(d.addr, i)
	if err != nil {
		return nil, Edge{}, err
	}
	var elemType DynamicType
	switch v := t.(type) {
	case *ArrayType:
		elemType = v.content
	case *SequenceType:
		elemType = v.content
	case *MapType:
		elemType = v.valueType
	default:
		return nil, Edge{}, newError(ErrInvalidTypeKind, "cannot index into %s", t.Name())
	}
	return &DynamicData{typ: elemType, addr: addr, optionalBit: -1}, Edge{Kind: EdgeIndex, Index: i}, nil
}

// markWritten records, on this cursor's home structure, that this member
// has now been given a value. It is a no-op for cursors that are not an
// optional structure member (home == nil or optionalBit < 0).
func (d *DynamicData) markWritten() {
	if d.home != nil {
		d.home.markWritten(d.homeAddr, d.optionalBit)
	}
}

// checkWritten returns ErrUninitializedAccess if this cursor addresses an
// optional structure member that has never been written.
func (d *DynamicData) checkWritten() error {
	if d.home != nil && !d.home.isWritten(d.homeAddr, d.optionalBit) {
		return newError(ErrUninitializedAccessKind, "%s is optional and was never written", d.typ.Name())
	}
	return nil
}

// Value reads a leaf cursor's value as T. The cursor's resolved
// descriptor must be exactly PrimitiveType[T]; width or sign promotion
// is the caller's responsibility, not this function's. Reading an
// optional member that has never been written fails with
// ErrUninitializedAccess.
func Value[T Primitive](d *DynamicData) (T, error) {
	p, ok := d.typ.Resolve().(*PrimitiveType[T])
	if !ok {
		var zero T
		return zero, newError(ErrTypeMismatchKind, "%s does not hold a %s value", d.typ.Name(), kindOf(zero))
	}
	if err := d.checkWritten(); err != nil {
		var zero T
		return zero, err
	}
	return p.Value(d.addr), nil
}

// SetValue writes v into a leaf cursor whose resolved descriptor is
// exactly PrimitiveType[T].
func SetValue[T Primitive](d *DynamicData, v T) error {
	p, ok := d.typ.Resolve().(*PrimitiveType[T])
	if !ok {
		return newError(ErrTypeMismatchKind, "%s cannot hold a %s value", d.typ.Name(), kindOf(v))
	}
	p.SetValue(d.addr, v)
	d.markWritten()
	return nil
}

// Str decodes a string cursor's current contents. Reading an optional
// member that has never been written fails with ErrUninitializedAccess.
func (d *DynamicData) Str() (string, error) {
	st, ok := d.typ.Resolve().(*StringType)
	if !ok {
		return "", newError(ErrTypeMismatchKind, "%s is not a string", d.typ.Name())
	}
	if err := d.checkWritten(); err != nil {
		return "", err
	}
	return st.Value(d.addr)
}

// SetStr resizes a string cursor and copies v into it; shorthand for the
// resize-then-copy pattern the spec calls string(s).
func (d *DynamicData) SetStr(v string) error {
	st, ok := d.typ.Resolve().(*StringType)
	if !ok {
		return newError(ErrTypeMismatchKind, "%s is not a string", d.typ.Name())
	}
	if err := st.SetValue(d.addr, v); err != nil {
		return err
	}
	d.markWritten()
	return nil
}

// PushChar appends one character to a string cursor. It fails with
// ErrBoundsExceeded, leaving the string unmodified, once a non-zero
// bound is reached.
func (d *DynamicData) PushChar(c uint16) error {
	st, ok := d.typ.Resolve().(*StringType)
	if !ok {
		return newError(ErrTypeMismatchKind, "%s is not a string", d.typ.Name())
	}
	if !st.Push(d.addr, c) {
		return newError(ErrBoundsExceededKind, "push exceeds bound for %s", d.typ.Name())
	}
	d.markWritten()
	return nil
}

// Push appends a new, default-constructed element to a sequence cursor
// and returns a cursor addressing it. It fails with ErrBoundsExceeded,
// leaving the sequence unmodified, once a non-zero bound is reached.
func (d *DynamicData) Push() (*DynamicData, error) {
	seq, ok := d.typ.Resolve().(*SequenceType)
	if !ok {
		return nil, newError(ErrTypeMismatchKind, "%s is not a sequence", d.typ.Name())
	}
	addr, ok := seq.Push(d.addr)
	if !ok {
		return nil, newError(ErrBoundsExceededKind, "push exceeds bound for %s", d.typ.Name())
	}
	return &DynamicData{typ: seq.content, addr: addr}, nil
}

// Resize grows or shrinks a sequence cursor to n elements.
func (d *DynamicData) Resize(n int64) error {
	seq, ok := d.typ.Resolve().(*SequenceType)
	if !ok {
		return newError(ErrTypeMismatchKind, "%s is not a sequence", d.typ.Name())
	}
	return seq.Resize(d.addr, n)
}

// MapPut inserts a new entry under a primitive key into a map cursor and
// returns a cursor addressing the value slot, ready to be written.
func MapPut[K Primitive](d *DynamicData, key K) (*DynamicData, error) {
	mt, ok := d.typ.Resolve().(*MapType)
	if !ok {
		return nil, newError(ErrTypeMismatchKind, "%s is not a map", d.typ.Name())
	}
	kp, ok := resolveAlias(mt.keyType).(*PrimitiveType[K])
	if !ok {
		return nil, newError(ErrTypeMismatchKind, "map %q key is not %s", mt.Name(), kindOf(key))
	}
	k, v, ok := mt.Push(d.addr)
	if !ok {
		return nil, newError(ErrBoundsExceededKind, "put exceeds bound for %s", d.typ.Name())
	}
	kp.SetValue(k, key)
	mt.ReindexKey(d.addr, mt.Size(d.addr)-1, k)
	return &DynamicData{typ: mt.valueType, addr: v}, nil
}

// MapGet looks up a primitive key in a map cursor, returning a cursor
// addressing its value, or false if absent.
func MapGet[K Primitive](d *DynamicData, key K) (*DynamicData, bool) {
	mt, ok := d.typ.Resolve().(*MapType)
	if !ok {
		return nil, false
	}
	kp, ok := resolveAlias(mt.keyType).(*PrimitiveType[K])
	if !ok {
		return nil, false
	}
	buf := make([]byte, kp.MemorySize())
	encodePrimitive(kp.kind, buf, key)
	addr, ok := mt.Lookup(d.addr, buf)
	if !ok {
		return nil, false
	}
	return &DynamicData{typ: mt.valueType, addr: addr}, true
}

// MapPutStr inserts a new entry under a string key into a map cursor and
// returns a cursor addressing the value slot, ready to be written.
func (d *DynamicData) MapPutStr(key string) (*DynamicData, error) {
	mt, ok := d.typ.Resolve().(*MapType)
	if !ok {
		return nil, newError(ErrTypeMismatchKind, "%s is not a map", d.typ.Name())
	}
	st, ok := resolveAlias(mt.keyType).(*StringType)
	if !ok {
		return nil, newError(ErrTypeMismatchKind, "map %q key is not a string", mt.Name())
	}
	k, v, ok := mt.Push(d.addr)
	if !ok {
		return nil, newError(ErrBoundsExceededKind, "put exceeds bound for %s", d.typ.Name())
	}
	if err := st.SetValue(k, key); err != nil {
		return nil, err
	}
	mt.ReindexKey(d.addr, mt.Size(d.addr)-1, k)
	return &DynamicData{typ: mt.valueType, addr: v}, nil
}

// MapGetStr looks up a string key in a map cursor, returning a cursor
// addressing its value, or false if absent.
func (d *DynamicData) MapGetStr(key string) (*DynamicData, bool) {
	mt, ok := d.typ.Resolve().(*MapType)
	if !ok {
		return nil, false
	}
	addr, ok := mt.Lookup(d.addr, []byte(key))
	if !ok {
		return nil, false
	}
	return &DynamicData{typ: mt.valueType, addr: addr}, true
}

// Assign performs aggregate assignment: rhs is deep-copied into this
// cursor through copy_from_type, succeeding whenever the descriptors are
// compatible under §4.3's unwrapping rules, even if not identical.
func (d *DynamicData) Assign(rhs *DynamicData) error {
	if err := d.typ.CopyFromType(d.addr, rhs.addr, rhs.typ); err != nil {
		return err
	}
	d.markWritten()
	return nil
}

// Equal reports structural equality between this cursor and rhs, for
// cursors of the same descriptor.
func (d *DynamicData) Equal(rhs *DynamicData) bool {
	return d.typ.Compare(d.addr, rhs.addr)
}

// Hash returns this cursor's structural hash.
func (d *DynamicData) Hash() uint64 {
	return d.typ.Hash(d.addr)
}

// Node is the cursor-level node a ForEach visitor receives: its depth,
// whether it has a parent, the edge that reached it, and the cursor
// addressing this node's data. Parent is itself a cursor, not a raw
// descriptor-and-address pair, so a visitor can navigate upward exactly
// as it would from the root.
type Node struct {
	Depth     int
	HasParent bool
	Parent    *DynamicData
	Edge      Edge
	Data      *DynamicData
}

// ForEach performs a depth-first walk of the value rooted at this
// cursor, in preorder by default (postorder when preorder is false).
// Returning Break from visitor stops the walk early without error;
// unwinding happens by ordinary error propagation through the recursion,
// caught only here.
func (d *DynamicData) ForEach(preorder bool, visitor func(Node) error) error {
	err := d.forEach(0, nil, Edge{Kind: EdgeRoot}, preorder, visitor)
	if errors.Is(err, Break) {
		return nil
	}
	return err
}

func (d *DynamicData) forEach(depth int, parent *DynamicData, edge Edge, preorder bool, visitor func(Node) error) error {
	node := Node{Depth: depth, HasParent: parent != nil, Parent: parent, Edge: edge, Data: d}
	if preorder {
		if err := visitor(node); err != nil {
			return err
		}
	}
	t := d.typ.Resolve()
	if t.IsAggregationType() {
		n := int(t.Size(d.addr))
		for i := 0; i < n; i++ {
			child, cedge, err := d.childAt(i)
			if err != nil {
				return err
			}
			if err := child.forEach(depth+1, d, cedge, preorder, visitor); err != nil {
				return err
			}
		}
	}
	if !preorder {
		if err := visitor(node); err != nil {
			return err
		}
	}
	return nil
}
