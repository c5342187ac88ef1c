package xtypes

import "errors"

// ForEachType performs a depth-first walk of t's type tree starting from
// its root (no parent, EdgeRoot), in preorder by default. Returning
// Break from visitor stops the walk early; ForEachType then returns nil
// rather than propagating Break as a failure. Any other non-nil error
// aborts the walk and is returned as-is.
func ForEachType(t DynamicType, preorder bool, visitor TypeVisitor) error {
	err := t.ForEachType(rootTypeNode(t), visitor, preorder)
	if errors.Is(err, Break) {
		return nil
	}
	return err
}

// ForEachInstance performs a depth-first, preorder walk of the value of
// kind t stored at addr. Returning Break from visitor stops the walk
// early; ForEachInstance then returns nil rather than propagating Break
// as a failure.
func ForEachInstance(t DynamicType, addr Addr, visitor InstanceVisitor) error {
	err := t.ForEachInstance(rootInstanceNode(t, addr), visitor)
	if errors.Is(err, Break) {
		return nil
	}
	return err
}
