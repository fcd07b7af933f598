// Package demo builds the built-in fixture models used by the --demo
// CLI mode and by end-to-end tests.
package demo

import (
	"fmt"

	"github.com/solidgrade/soliddiff/pkg/kernel"
)

// Models returns the demo pair: the reference is a box with a centered
// cylindrical hole, the generated model is the same box with the hole
// offset and enlarged. The pair is shaped so the comparison lands in a
// mid-quality band with measurable under-generation.
func Models(k kernel.Kernel) (reference, generated kernel.Solid, err error) {
	reference, err = k.Subtract(k.Box(40, 40, 40), k.Cylinder(50, 10))
	if err != nil {
		return nil, nil, fmt.Errorf("building demo reference: %w", err)
	}
	generated, err = k.Subtract(k.Box(40, 40, 40), k.Translate(k.Cylinder(50, 12), 5, 5, 0))
	if err != nil {
		return nil, nil, fmt.Errorf("building demo generated model: %w", err)
	}
	return reference, generated, nil
}
