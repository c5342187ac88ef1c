package xtypes

// ArrayType is a fixed-length collection: its size is the product of its
// dimensions and never changes after construction. Elements are stored
// inline, contiguous, at index*content.MemorySize().
type ArrayType struct {
	typeBase
	content DynamicType
	dims    []int64
	count   int64 // product(dims)
}

// NewArrayType returns an array of content with the given dimensions.
// At least one dimension is required.
func NewArrayType(content DynamicType, dims ...int64) (*ArrayType, error) {
	if len(dims) == 0 {
		return nil, newError(ErrInvalidTypeKind, "array requires at least one dimension")
	}
	n := int64(1)
	for _, d := range dims {
		if d <= 0 {
			return nil, newError(ErrInvalidTypeKind, "array dimension must be positive, got %d", d)
		}
		n *= d
	}
	if content.MemorySize() == 0 {
		return nil, newError(ErrInvalidTypeKind, "array of zero-sized content %q", content.Name())
	}
	dimsCopy := append([]int64(nil), dims...)
	return &ArrayType{
		typeBase: typeBase{name: "array<" + content.Name() + ">", kind: KindArray},
		content:  content.Clone(),
		dims:     dimsCopy,
		count:    n,
	}, nil
}

// Content returns the element descriptor.
func (a *ArrayType) Content() DynamicType { return a.content }

// Dimensions returns the array's declared dimensions.
func (a *ArrayType) Dimensions() []int64 { return a.dims }

func (a *ArrayType) MemorySize() int64 { return a.content.MemorySize() * a.count }

func (a *ArrayType) NaturalAlignment() int64 { return a.content.NaturalAlignment() }

func (a *ArrayType) elemAddr(addr Addr, i int64) Addr {
	return addr.Plus(i * a.content.MemorySize())
}

func (a *ArrayType) Construct(addr Addr) {
	for i := int64(0); i < a.count; i++ {
		a.content.Construct(a.elemAddr(addr, i))
	}
}

func (a *ArrayType) Copy(dst, src Addr) {
	for i := int64(0); i < a.count; i++ {
		a.content.Copy(a.elemAddr(dst, i), a.elemAddr(src, i))
	}
}

func (a *ArrayType) CopyFromType(dst, src Addr, other DynamicType) error {
	ot := unwrapSingleMember(other)
	oa, ok := ot.(*ArrayType)
	if !ok || oa.count != a.count {
		return newError(ErrTypeMismatchKind, "cannot copy %s into array %q", other.Name(), a.name)
	}
	for i := int64(0); i < a.count; i++ {
		if err := a.content.CopyFromType(a.elemAddr(dst, i), oa.elemAddr(src, i), oa.content); err != nil {
			return err
		}
	}
	return nil
}

func (a *ArrayType) Move(dst, src Addr, dstInitialized bool) {
	for i := int64(0); i < a.count; i++ {
		a.content.Move(a.elemAddr(dst, i), a.elemAddr(src, i), dstInitialized)
	}
}

func (a *ArrayType) Destroy(addr Addr) {
	for i := a.count - 1; i >= 0; i-- {
		a.content.Destroy(a.elemAddr(addr, i))
	}
}

func (a *ArrayType) GetAt(addr Addr, i int) (Addr, error) {
	if i < 0 || int64(i) >= a.count {
		return Addr{}, newError(ErrOutOfBoundsKind, "index %d out of range for array %q of size %d", i, a.name, a.count)
	}
	return a.elemAddr(addr, int64(i)), nil
}

func (a *ArrayType) Size(addr Addr) int64 { return a.count }

func (a *ArrayType) Compare(x, y Addr) bool {
	for i := int64(0); i < a.count; i++ {
		if !a.content.Compare(a.elemAddr(x, i), a.elemAddr(y, i)) {
			return false
		}
	}
	return true
}

func (a *ArrayType) Hash(addr Addr) uint64 {
	var h uint64 = 1099511628211
	for i := int64(0); i < a.count; i++ {
		h = combineHash(h, a.content.Hash(a.elemAddr(addr, i)))
	}
	return h
}

func (a *ArrayType) ForEachInstance(node InstanceNode, visitor InstanceVisitor) error {
	if err := visitor(node); err != nil {
		return err
	}
	for i := int64(0); i < a.count; i++ {
		child := node.child(a.content, a.elemAddr(node.Addr, i), Edge{Kind: EdgeIndex, Index: int(i)})
		if err := a.content.ForEachInstance(child, visitor); err != nil {
			return err
		}
	}
	return nil
}

func (a *ArrayType) ForEachType(node TypeNode, visitor TypeVisitor, preorder bool) error {
	if preorder {
		if err := visitor(node); err != nil {
			return err
		}
	}
	child := node.child(a.content, Edge{Kind: EdgeIndex})
	if err := a.content.ForEachType(child, visitor, preorder); err != nil {
		return err
	}
	if !preorder {
		if err := visitor(node); err != nil {
			return err
		}
	}
	return nil
}

func (a *ArrayType) IsCompatible(other DynamicType) Consistency {
	other = resolveAlias(other)
	if sm, ok := singleMember(other); ok {
		return a.IsCompatible(sm.Type())
	}
	oa, ok := other.(*ArrayType)
	if !ok || len(oa.dims) != len(a.dims) {
		return ConsistencyNone
	}
	c := a.content.IsCompatible(oa.content)
	if c.IsNone() {
		return ConsistencyNone
	}
	for i := range a.dims {
		if a.dims[i] != oa.dims[i] {
			c |= ConsistencyIgnoreArrayBounds
			break
		}
	}
	return c
}

func (a *ArrayType) Resolve() DynamicType { return a }

func (a *ArrayType) Clone() DynamicType {
	c := *a
	c.content = a.content.Clone()
	c.dims = append([]int64(nil), a.dims...)
	return &c
}
