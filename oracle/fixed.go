// Package oracle provides reference implementations of the lending
// engine's Oracle collaborator (spec.md §4.4). Price discovery is
// explicitly out of scope for the core; this package exists only so the
// engine is runnable and testable without a live price feed wired in.
package oracle

import "github.com/Im-Sue/Pelago/lending"

// Fixed is a constant-price Oracle. The spec accepts a constant
// implementation as sufficient for the core (spec.md §4.4); 100 loan units
// per whole collateral unit at 1e8 precision is the default used across
// the test scenarios in spec.md §8.
type Fixed struct {
	value     uint64
	precision uint64
}

var _ lending.Oracle = Fixed{}

// NewFixed constructs a constant Oracle reporting value/precision as the
// collateral->loan price.
func NewFixed(value, precision uint64) Fixed {
	if precision == 0 {
		precision = lending.PricePrecision
	}
	return Fixed{value: value, precision: precision}
}

// DefaultFixed reports 100 loan units per whole collateral unit at
// lending.PricePrecision, matching the scenarios in spec.md §8.
func DefaultFixed() Fixed {
	return NewFixed(100*lending.PricePrecision, lending.PricePrecision)
}

// Price implements lending.Oracle.
func (f Fixed) Price() (uint64, uint64, error) {
	return f.value, f.precision, nil
}
