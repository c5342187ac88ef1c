// Package demo builds the sample types the command-line tools exercise:
// Outer{om1:f64, om2:Inner, om3:seq<u32,5>} where Inner{im1:u32, im2:f32},
// the structure used throughout the engine's own scenario tests.
package demo

import "github.com/haodongnj/xtypes"

// BuildOuterType returns a fresh Outer descriptor.
func BuildOuterType() (*xtypes.StructureType, error) {
	inner := xtypes.NewStructureType("Inner")
	if _, err := inner.AddMember(xtypes.NewMember("im1", xtypes.PrimitiveTypeFor[uint32]())); err != nil {
		return nil, err
	}
	if _, err := inner.AddMember(xtypes.NewMember("im2", xtypes.PrimitiveTypeFor[float32]())); err != nil {
		return nil, err
	}

	om3, err := xtypes.NewSequenceType(xtypes.PrimitiveTypeFor[uint32](), 5)
	if err != nil {
		return nil, err
	}

	outer := xtypes.NewStructureType("Outer")
	if _, err := outer.AddMember(xtypes.NewMember("om1", xtypes.PrimitiveTypeFor[float64]())); err != nil {
		return nil, err
	}
	if _, err := outer.AddMember(xtypes.NewMember("om2", inner)); err != nil {
		return nil, err
	}
	if _, err := outer.AddMember(xtypes.NewMember("om3", om3)); err != nil {
		return nil, err
	}
	return outer, nil
}
