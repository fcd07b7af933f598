// Package main provides the entry point for the soliddiff CLI.
//
// soliddiff compares two 3D solid models using boolean operations and
// reports volumetric similarity metrics (IoU, Dice, precision, recall)
// suitable for automated grading of generated CAD geometry.
//
// Usage:
//
//	soliddiff <reference> <generated>
//	soliddiff gold.stl predicted.stl --json
//	soliddiff --demo
//
// See --help for all available options.
package main

// main is the entry point for soliddiff.
func main() {
	Execute()
}
