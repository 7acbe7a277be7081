package spawners

import (
	"fmt"
	"strings"
)

// NestedBuildError reports a failure while building or resolving a config
// referenced from a component parameter. Chain runs from the top-level
// entity to the reference that failed; a failure deeper down extends the
// chain instead of wrapping another NestedBuildError.
type NestedBuildError struct {
	Chain []string
	// Field is the component parameter holding the reference, e.g.
	// "Turrets.turrets[0].weapon_config".
	Field string
	Err   error
}

func (e *NestedBuildError) Error() string {
	return fmt.Sprintf("nested build %s (%s): %v", strings.Join(e.Chain, " -> "), e.Field, e.Err)
}

func (e *NestedBuildError) Unwrap() error { return e.Err }

// CyclicReferenceError is returned when an entity reference leads back to
// an entity already being built higher up the same chain.
type CyclicReferenceError struct {
	Chain []string
}

func (e *CyclicReferenceError) Error() string {
	return "cyclic entity reference: " + strings.Join(e.Chain, " -> ")
}
