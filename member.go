package xtypes

// Member is one field of a StructureType. It owns a deep clone of its
// type descriptor, so mutating the structure that declared a member never
// disturbs a type reused elsewhere.
type Member struct {
	name        string
	typ         DynamicType
	id          int32
	key         bool
	optional    bool
	bitset      bool
	offset      int64
	optionalBit int
}

// NewMember returns a Member named name carrying a clone of typ. The
// clone keeps structure members value-like even when the same descriptor
// is reused across several members (see DynamicType.Clone).
func NewMember(name string, typ DynamicType) Member {
	return Member{name: name, typ: typ.Clone(), id: -1, optionalBit: -1}
}

// Name returns the member's field name.
func (m Member) Name() string { return m.name }

// Type returns the member's owned type descriptor.
func (m Member) Type() DynamicType { return m.typ }

// MemberID returns the explicit member id, or -1 if none was set.
func (m Member) MemberID() int32 { return m.id }

// HasID reports whether an id was explicitly assigned.
func (m Member) HasID() bool { return m.id >= 0 }

// IsKey reports whether this member participates in the owning
// structure's key.
func (m Member) IsKey() bool { return m.key }

// IsOptional reports whether this member is optional, that is, holds no
// readable value until it is first written. StructureType assigns each optional member its own written-bit
// (see optionalBit) when it is added; reading an optional member's value
// before it has one raises ErrUninitializedAccess.
func (m Member) IsOptional() bool { return m.optional }

// IsBitset reports whether this member is flagged as a bitset field.
func (m Member) IsBitset() bool { return m.bitset }

// Offset returns the byte offset assigned to this member when its owning
// structure was finalized.
func (m Member) Offset() int64 { return m.offset }

// ID sets the member id. This is the corrected behavior for the
// reference implementation's StructMember::id, which assigns its bitset_
// field instead of id_; here id and bitset are independent, each settable
// only through its own method.
func (m Member) ID(value int32) Member {
	m.id = value
	return m
}

// Key sets whether this member participates in the owning structure's
// key.
func (m Member) Key(value bool) Member {
	m.key = value
	return m
}

// Optional sets whether this member is optional; an optional member must
// be written before it can be read.
func (m Member) Optional(value bool) Member {
	m.optional = value
	return m
}

// Bitset sets whether this member is flagged as a bitset field,
// independently of ID.
func (m Member) Bitset(value bool) Member {
	m.bitset = value
	return m
}
