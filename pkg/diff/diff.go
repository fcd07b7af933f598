// Package diff computes the boolean set relationships between a
// reference solid and a generated solid.
package diff

import (
	"fmt"

	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// Diff derives the three comparison solids from reference A and
// generated B:
//
//	missing = A - B  (geometry the generator failed to produce)
//	extra   = B - A  (geometry the generator should not have produced)
//	common  = A & B  (geometry shared by both)
//
// Diff is a pure function of its inputs and retains no references to
// them. Non-overlapping inputs yield a valid zero-volume common solid,
// never an error; interpreting zero volumes is the metrics layer's job.
func Diff(k kernel.Kernel, reference, generated kernel.Solid) (missing, extra, common kernel.Solid, err error) {
	missing, err = k.Subtract(reference, generated)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("computing missing geometry (reference - generated): %w", err)
	}
	extra, err = k.Subtract(generated, reference)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("computing extra geometry (generated - reference): %w", err)
	}
	common, err = k.Intersect(reference, generated)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("computing common geometry (reference & generated): %w", err)
	}
	return missing, extra, common, nil
}
