package xtypes

// Kind names every kind of DynamicType. It is a closed enumeration: each
// kind has its own DynamicType implementation, reached through that
// interface, and the places that need to tell kinds apart switch on Kind
// or on the concrete descriptor type.
type Kind uint8

const (
	KindBool Kind = iota
	KindChar8
	KindChar16
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindArray
	KindSequence
	KindMap
	KindStructure
	KindAlias
)

var kindNames = [...]string{
	KindBool:      "bool",
	KindChar8:     "char8",
	KindChar16:    "char16",
	KindInt8:      "int8",
	KindUint8:     "uint8",
	KindInt16:     "int16",
	KindUint16:    "uint16",
	KindInt32:     "int32",
	KindUint32:    "uint32",
	KindInt64:     "int64",
	KindUint64:    "uint64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindString:    "string",
	KindArray:     "array",
	KindSequence:  "sequence",
	KindMap:       "map",
	KindStructure: "structure",
	KindAlias:     "alias",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsAggregationType reports whether k has children (array, sequence, map,
// or structure).
func (k Kind) IsAggregationType() bool {
	switch k {
	case KindArray, KindSequence, KindMap, KindStructure:
		return true
	}
	return false
}

// IsConstructedType reports whether k is an aggregate kind (the glossary
// defines "constructed type" as any aggregate). It is false for
// primitives, strings and KindAlias itself; AliasType answers for its
// resolved target.
func (k Kind) IsConstructedType() bool {
	return k.IsAggregationType()
}

func (k Kind) isPrimitiveNumeric() bool {
	switch k {
	case KindInt8, KindUint8, KindInt16, KindUint16,
		KindInt32, KindUint32, KindInt64, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
	return false
}

func (k Kind) isPrimitiveFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k Kind) isPrimitiveSigned() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64, KindFloat32, KindFloat64:
		return true
	}
	return false
}

// primitiveWidth returns the byte width of a primitive kind, or 0 if k is
// not a fixed-width primitive.
func (k Kind) primitiveWidth() int64 {
	switch k {
	case KindBool, KindChar8, KindInt8, KindUint8:
		return 1
	case KindChar16, KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindInt64, KindUint64, KindFloat64:
		return 8
	}
	return 0
}
