// vi: sw=4 ts=4:

/*

	Mnemonic:	units
	Abstract:	Unit interning and conversion for numeric parameters (spec §4.B).
				Units are compared by pointer, never by string value, so the
				interning pool below is the only place a unit string is ever
				allocated -- grounded on original_source/src/sim/cpar.cc's own
				interned-unit-string approach.
	Date:		30 Jul 2026
	Author:		E. Scott Daniels
*/

package gizmos

import (
	"sync"
)

var (
	unit_pool   = map[string]*string{}
	unit_pool_m sync.Mutex
)

/*
	Intern_unit returns the pointer-stable interned string for u, creating
	it on first use. All unit comparisons in this package use this pointer,
	never the string value, per spec §4.B.
*/
func Intern_unit(u string) *string {
	unit_pool_m.Lock()
	defer unit_pool_m.Unlock()
	if p, ok := unit_pool[u]; ok {
		return p
	}
	s := u
	unit_pool[u] = &s
	return &s
}

// dimension groups a set of linearly-related units to a common base unit
// within that dimension, expressed as "factor to reach the base unit."
type unit_dim struct {
	base    string
	factors map[string]float64
}

var unit_dims = []unit_dim{
	{
		base: "s",
		factors: map[string]float64{
			"ns": 1e-9, "us": 1e-6, "ms": 1e-3, "s": 1, "min": 60, "h": 3600, "d": 86400,
		},
	},
	{
		base: "b",
		factors: map[string]float64{
			"b": 1, "B": 8, "Kb": 1e3, "KB": 8e3, "Mb": 1e6, "MB": 8e6, "Gb": 1e9, "GB": 8e9,
		},
	},
}

func find_dim(unit string) *unit_dim {
	for i := range unit_dims {
		if _, ok := unit_dims[i].factors[unit]; ok {
			return &unit_dims[i]
		}
	}
	return nil
}

/*
	Convert_unit normalizes value from one unit to another through the
	fixed linear-factor table. Conversion across dimensions fails with
	UnitMismatch (spec §4.B).
*/
func Convert_unit(value float64, from string, to string) (float64, error) {
	if from == to {
		return value, nil
	}
	fd := find_dim(from)
	td := find_dim(to)
	if fd == nil || td == nil || fd.base != td.base {
		return 0, New_error(UnitMismatch, "cannot convert %q to %q", from, to)
	}
	base := value * fd.factors[from]
	return base / td.factors[to], nil
}
