package lending

import "math/big"

// MulDivDown computes floor(x*y/d). The multiplication is carried out in a
// 128-bit-equivalent big.Int intermediate so that x*y never overflows
// before the division; the final result is checked against the uint64
// range so overflow is a hard failure rather than a silent wrap.
func MulDivDown(x, y, d uint64) (uint64, error) {
	return mulDiv(x, y, d, false)
}

// MulDivUp computes ceil(x*y/d) = floor((x*y + d - 1) / d), evaluated via
// remainder inspection rather than the literal +d-1 form so the
// intermediate never needs headroom beyond x*y itself.
func MulDivUp(x, y, d uint64) (uint64, error) {
	return mulDiv(x, y, d, true)
}

func mulDiv(x, y, d uint64, roundUp bool) (uint64, error) {
	if d == 0 {
		return 0, ErrDivisionByZero
	}
	product := new(big.Int).Mul(new(big.Int).SetUint64(x), new(big.Int).SetUint64(y))
	divisor := new(big.Int).SetUint64(d)
	quotient, remainder := new(big.Int).QuoRem(product, divisor, new(big.Int))
	if roundUp && remainder.Sign() != 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	if !quotient.IsUint64() {
		return 0, ErrMathOverflow
	}
	return quotient.Uint64(), nil
}

// addChecked returns a+b, failing with ErrMathOverflow instead of wrapping.
func addChecked(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

// subChecked returns a-b, failing with ErrMathOverflow on underflow. Engine
// call sites that want saturating behaviour (repay only, per spec.md §4.6)
// use subSaturating instead.
func subChecked(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrMathOverflow
	}
	return a - b, nil
}

// subSaturating returns max(0, a-b). Only Repay's debt reduction uses this;
// every other subtraction in the engine is checked.
func subSaturating(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
