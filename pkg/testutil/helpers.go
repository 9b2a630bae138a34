// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/finance-tracker/internal/calculator"
	"github.com/iwvelando/finance-tracker/pkg/mathutil"
)

// FindResult finds a result by kind and name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []calculator.Result, kind calculator.Kind, name string) *calculator.Result {
	for i := range results {
		if results[i].Kind == kind && results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// ApproxEqual reports whether got is within tolerance of expected.
func ApproxEqual(got, expected, tolerance float64) bool {
	return mathutil.WithinTolerance(got, expected, tolerance)
}
