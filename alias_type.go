package xtypes

// AliasType is a named indirection to another descriptor. Every
// operation forwards to the resolved target; an alias never owns bytes
// of its own.
type AliasType struct {
	typeBase
	target DynamicType
}

// NewAliasType returns a named alias for target. Building a cycle of
// aliases (directly or transitively through other aliases) is an error,
// detected here by walking the chain the new alias would introduce.
func NewAliasType(name string, target DynamicType) (*AliasType, error) {
	a := &AliasType{typeBase{name: name, kind: KindAlias}, target}
	seen := map[*AliasType]bool{a: true}
	cur := target
	for cur.Kind() == KindAlias {
		ca := cur.(*AliasType)
		if seen[ca] {
			return nil, newError(ErrInvalidTypeKind, "cyclic alias %q", name)
		}
		seen[ca] = true
		cur = ca.target
	}
	return a, nil
}

func (a *AliasType) MemorySize() int64       { return a.Resolve().MemorySize() }
func (a *AliasType) NaturalAlignment() int64 { return a.Resolve().NaturalAlignment() }

func (a *AliasType) Construct(addr Addr)                 { a.Resolve().Construct(addr) }
func (a *AliasType) Copy(dst, src Addr)                   { a.Resolve().Copy(dst, src) }
func (a *AliasType) Move(dst, src Addr, dstInitialized bool) {
	a.Resolve().Move(dst, src, dstInitialized)
}
func (a *AliasType) Destroy(addr Addr) { a.Resolve().Destroy(addr) }

func (a *AliasType) CopyFromType(dst, src Addr, other DynamicType) error {
	return a.Resolve().CopyFromType(dst, src, other)
}

func (a *AliasType) GetAt(addr Addr, i int) (Addr, error) { return a.Resolve().GetAt(addr, i) }
func (a *AliasType) Size(addr Addr) int64                 { return a.Resolve().Size(addr) }
func (a *AliasType) Compare(x, y Addr) bool                { return a.Resolve().Compare(x, y) }
func (a *AliasType) Hash(addr Addr) uint64                 { return a.Resolve().Hash(addr) }

func (a *AliasType) ForEachInstance(node InstanceNode, visitor InstanceVisitor) error {
	return a.Resolve().ForEachInstance(node, visitor)
}

func (a *AliasType) ForEachType(node TypeNode, visitor TypeVisitor, preorder bool) error {
	return a.Resolve().ForEachType(node, visitor, preorder)
}

func (a *AliasType) IsCompatible(other DynamicType) Consistency {
	return a.Resolve().IsCompatible(other)
}

func (a *AliasType) IsAggregationType() bool { return a.Resolve().IsAggregationType() }
func (a *AliasType) IsConstructedType() bool { return a.Resolve().IsConstructedType() }

// Resolve follows the alias chain to the first non-alias descriptor.
func (a *AliasType) Resolve() DynamicType {
	var cur DynamicType = a
	for cur.Kind() == KindAlias {
		cur = cur.(*AliasType).target
	}
	return cur
}

func (a *AliasType) Clone() DynamicType {
	c := *a
	c.target = a.target.Clone()
	return &c
}
