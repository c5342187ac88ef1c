// Package xtypes is a runtime, self-describing type system for structured
// data, modeled on the OMG DDS-XTYPES dynamic type/value API. Callers
// compose DynamicType descriptors at run time, instantiate them into
// DynamicData values, and navigate those values with a cursor that
// supports chained field/index access, reads and writes, pushes into
// sequences, aggregate assignment between structurally compatible
// subtrees, and depth-first visitation.
//
// The package does not specify wire serialization, a transport, or a
// schema registry; it is the engine those layers are built on top of.
package xtypes

import "github.com/haodongnj/xtypes/internal/rawbuf"

// Addr is the address a DynamicType operates over: an opaque handle onto
// a byte block, never a bare pointer. It is a type alias onto the
// internal rawbuf layer. Every DynamicType operation and ForEachInstance
// take one; DynamicData keeps its own internally so cursor users need
// not handle Addr at all.
type Addr = rawbuf.Addr

// DynamicType is the Instanceable contract every descriptor implements:
// every operation a caller needs over a byte block of size MemorySize(),
// plus the metadata (name, kind) that identifies the descriptor itself.
//
// Implementations are values: Clone produces an independent deep copy, so
// a structure can own its members without two structures secretly
// sharing mutable state.
type DynamicType interface {
	// Name returns the descriptor's name.
	Name() string
	// Kind returns the tag that selects this descriptor's behavior.
	Kind() Kind
	// MemorySize returns the stride of this type, independent of content.
	MemorySize() int64
	// NaturalAlignment returns the alignment a structure must round a
	// member of this type up to when computing its offset.
	NaturalAlignment() int64

	// Construct default-initializes the block at addr.
	Construct(addr Addr)
	// Copy deep-copies src into dst; both addresses must belong to this
	// descriptor.
	Copy(dst, src Addr)
	// CopyFromType deep-copies src, described by other, into dst,
	// described by this descriptor, when other resolves compatible. If
	// other is a single-member structure it is unwrapped and the call
	// recurses on that member, making single-field wrappers transparent.
	CopyFromType(dst, src Addr, other DynamicType) error
	// Move destructively moves src into dst, destroying dst first when
	// dstInitialized.
	Move(dst, src Addr, dstInitialized bool)
	// Destroy releases any resources owned by the block at addr. It must
	// be idempotent on a zeroed block of a primitive kind.
	Destroy(addr Addr)

	// GetAt returns the address of the i-th element (collections) or the
	// i-th member (structures).
	GetAt(addr Addr, i int) (Addr, error)
	// Size returns the element count (collections) or member count
	// (structures) at addr.
	Size(addr Addr) int64

	// Compare reports structural equality between a and b.
	Compare(a, b Addr) bool
	// Hash returns a hash stable within this process run.
	Hash(addr Addr) uint64

	// ForEachInstance performs a depth-first walk of the value rooted at
	// node, calling visitor once per node visited.
	ForEachInstance(node InstanceNode, visitor InstanceVisitor) error
	// ForEachType performs a depth-first walk of the type tree rooted at
	// node, calling visitor once per node visited, pre- or post-order.
	ForEachType(node TypeNode, visitor TypeVisitor, preorder bool) error

	// IsCompatible returns the structural-compatibility flags between
	// this descriptor and other.
	IsCompatible(other DynamicType) Consistency
	// IsAggregationType reports whether this descriptor has children.
	IsAggregationType() bool
	// IsConstructedType reports whether this descriptor is anything but
	// a primitive or string leaf.
	IsConstructedType() bool
	// Resolve follows alias chains to the first non-alias descriptor. It
	// is the identity function on every other kind.
	Resolve() DynamicType
	// Clone returns an independent deep copy of this descriptor.
	Clone() DynamicType
}

// typeBase factors the bookkeeping every concrete DynamicType shares:
// its name, its kind, and the aggregation predicates that follow from
// the kind alone.
type typeBase struct {
	name string
	kind Kind
}

func (t typeBase) Name() string { return t.name }
func (t typeBase) Kind() Kind   { return t.kind }

func (t typeBase) IsAggregationType() bool { return t.kind.IsAggregationType() }
func (t typeBase) IsConstructedType() bool { return t.kind.IsConstructedType() }

// EdgeKind distinguishes how a traversal reached a node: through a named
// structure member, or through a numeric collection index.
type EdgeKind int

const (
	// EdgeRoot marks the root node of a walk, which has no parent edge.
	EdgeRoot EdgeKind = iota
	// EdgeMember marks an edge reached by structure member name.
	EdgeMember
	// EdgeIndex marks an edge reached by collection index.
	EdgeIndex
)

// Edge labels how a node was reached from its parent. A member edge
// carries the member's Name and its position in Index; an index edge
// carries only Index.
type Edge struct {
	Kind  EdgeKind
	Name  string
	Index int
}

// TypeNode is the node a TypeVisitor receives while walking a type tree:
// its depth, the descriptor at this node, and (when not the root) the
// edge that reached it and the parent descriptor.
type TypeNode struct {
	Depth     int
	Type      DynamicType
	Edge      Edge
	HasParent bool
	Parent    DynamicType
}

func rootTypeNode(t DynamicType) TypeNode {
	return TypeNode{Depth: 0, Type: t, Edge: Edge{Kind: EdgeRoot}}
}

func (n TypeNode) child(t DynamicType, edge Edge) TypeNode {
	return TypeNode{Depth: n.Depth + 1, Type: t, Edge: edge, HasParent: true, Parent: n.Type}
}

// InstanceNode is the node an InstanceVisitor receives while walking a
// value tree: its depth, whether it has a parent, the edge that reached
// it, and the cursor-addressable data at this node.
type InstanceNode struct {
	Depth     int
	Type      DynamicType
	Addr      Addr
	Edge      Edge
	HasParent bool
	Parent    *InstanceNode
}

func rootInstanceNode(t DynamicType, addr Addr) InstanceNode {
	return InstanceNode{Depth: 0, Type: t, Addr: addr, Edge: Edge{Kind: EdgeRoot}}
}

func (n InstanceNode) child(t DynamicType, addr Addr, edge Edge) InstanceNode {
	parent := n
	return InstanceNode{Depth: n.Depth + 1, Type: t, Addr: addr, Edge: edge, HasParent: true, Parent: &parent}
}

// breakSignal is a distinct error type so Break can be recognized by
// identity (errors.Is) without being confused with any *Error kind.
type breakSignal struct{}

func (breakSignal) Error() string { return "traversal stopped early" }

// Break is the error a TypeVisitor or InstanceVisitor returns to signal
// early termination of a traversal. ForEachType/ForEachInstance unwind
// all child frames cleanly and return nil to the original caller: Break
// is not itself propagated as a failure.
var Break error = breakSignal{}

// TypeVisitor is called once per node during a type-tree traversal.
// Returning Break stops the walk early; any other non-nil error aborts
// the walk and is returned by ForEachType.
type TypeVisitor func(TypeNode) error

// InstanceVisitor is called once per node during a value-tree traversal.
// Returning Break stops the walk early; any other non-nil error aborts
// the walk and is returned by ForEachInstance.
type InstanceVisitor func(InstanceNode) error
