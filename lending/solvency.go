package lending

// CheckSolvency evaluates the health predicate from spec.md §4.5:
// a position is healthy iff its debt (rounded up) does not exceed
// collateral_value * lltv / LLTVPrecision (collateral value rounded down).
// Rounding is deliberately adversarial against the user on both sides: debt
// is over-stated, collateral value is under-stated.
//
// A position with zero borrow shares is trivially healthy regardless of
// collateral, matching spec.md §4.5 and the monotonicity property in
// spec.md §8 (property 8).
func CheckSolvency(oracle Oracle, lltv, collateral, borrowShares, totalBorrowAssets, totalBorrowShares uint64) error {
	if borrowShares == 0 {
		return nil
	}
	if oracle == nil {
		return ErrNilOracle
	}

	price, precision, err := oracle.Price()
	if err != nil {
		return err
	}
	if precision == 0 {
		return ErrDivisionByZero
	}

	collateralValue, err := MulDivDown(collateral, price, precision)
	if err != nil {
		return err
	}
	maxBorrow, err := MulDivDown(collateralValue, lltv, LLTVPrecision)
	if err != nil {
		return err
	}

	debtValueUp, err := ToAssetsUp(borrowShares, totalBorrowAssets, totalBorrowShares)
	if err != nil {
		return err
	}

	if debtValueUp > maxBorrow {
		return ErrInsufficientCollateral
	}
	return nil
}
