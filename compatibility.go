package xtypes

// resolveAlias follows alias chains to the first non-alias descriptor,
// the precondition every IsCompatible rule after rule 1 assumes holds.
func resolveAlias(t DynamicType) DynamicType {
	for t.Kind() == KindAlias {
		t = t.Resolve()
	}
	return t
}

// singleMember reports whether t (after resolving aliases) is a
// structure with exactly one member, returning that member.
func singleMember(t DynamicType) (Member, bool) {
	t = resolveAlias(t)
	st, ok := t.(*StructureType)
	if !ok || len(st.members) != 1 {
		return Member{}, false
	}
	return st.members[0], true
}

// unwrapSingleMember peels away alias indirection and single-member
// structure wrappers, returning the first descriptor that is neither.
// copy_from_type uses this to make single-field wrappers transparent.
func unwrapSingleMember(t DynamicType) DynamicType {
	t = resolveAlias(t)
	if m, ok := singleMember(t); ok {
		return unwrapSingleMember(m.Type())
	}
	return t
}

// collectionCompatibility implements spec §4.3 rule 5 for strings and
// sequences: combine the content's flags with the appropriate
// IGNORE_*_BOUNDS bit when bounds differ. Arrays are handled by
// ArrayType.IsCompatible instead.
func collectionCompatibility(selfKind Kind, selfBounds int64, selfContent DynamicType, other DynamicType, ignoreBoundsBit Consistency) Consistency {
	other = resolveAlias(other)
	if sm, ok := singleMember(other); ok {
		return collectionCompatibility(selfKind, selfBounds, selfContent, sm.Type(), ignoreBoundsBit)
	}
	if other.Kind() != selfKind {
		return ConsistencyNone
	}
	c := selfContent.IsCompatible(contentOf(other))
	if c.IsNone() {
		return ConsistencyNone
	}
	if boundsOf(other) != selfBounds {
		c |= ignoreBoundsBit
	}
	return c
}

func contentOf(t DynamicType) DynamicType {
	switch v := t.(type) {
	case *SequenceType:
		return v.content
	case *StringType:
		return v.charType()
	}
	panic("xtypes: not a collection type")
}

func boundsOf(t DynamicType) int64 {
	switch v := t.(type) {
	case *SequenceType:
		return v.bounds
	case *StringType:
		return v.bounds
	}
	panic("xtypes: not a collection type")
}

// structureCompatibility implements spec §4.3 rule 6: positionally pair
// members of the shorter list, aggregate their flags, and add
// IGNORE_MEMBERS / IGNORE_MEMBER_NAMES as the lists or names diverge.
func structureCompatibility(self *StructureType, other DynamicType) Consistency {
	other = resolveAlias(other)
	if other.Kind() != KindStructure {
		if len(self.members) == 1 {
			return self.members[0].Type().IsCompatible(other)
		}
		return ConsistencyNone
	}
	// Two structures always pair positionally; single-member unwrapping
	// only applies when exactly one side is a structure.
	os := other.(*StructureType)
	n := len(self.members)
	if len(os.members) < n {
		n = len(os.members)
	}
	c := ConsistencyEquals
	namesDiffer := false
	for i := 0; i < n; i++ {
		a, b := self.members[i], os.members[i]
		mc := a.Type().IsCompatible(b.Type())
		if mc.IsNone() {
			return ConsistencyNone
		}
		c |= mc &^ ConsistencyEquals
		if a.Name() != b.Name() {
			namesDiffer = true
		}
	}
	if len(self.members) != len(os.members) {
		c |= ConsistencyIgnoreMembers
	}
	if namesDiffer {
		c |= ConsistencyIgnoreMemberNames
	}
	return c
}
