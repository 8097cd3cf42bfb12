package lending

// ShareMath converts between asset amounts and pool shares using the
// virtual offsets defined in params.go. Each of the four conversions below
// is its own named function — never a single function parameterised by a
// rounding-direction flag — so the rounding matrix in spec.md §4.2 is
// enforced by the type signature of each call site rather than by
// convention.

// ToSharesDown computes the shares minted for a given asset amount,
// rounding down (against the user). Used by Supply (by-assets) and Repay
// (by-assets).
func ToSharesDown(assets, totalAssets, totalShares uint64) (uint64, error) {
	shares, err := addChecked(totalShares, VirtualShares)
	if err != nil {
		return 0, err
	}
	denom, err := addChecked(totalAssets, VirtualAssets)
	if err != nil {
		return 0, err
	}
	return MulDivDown(assets, shares, denom)
}

// ToSharesUp computes the shares burned/owed for a given asset amount,
// rounding up (against the user). Used by Withdraw (by-assets) and Borrow
// (by-assets).
func ToSharesUp(assets, totalAssets, totalShares uint64) (uint64, error) {
	shares, err := addChecked(totalShares, VirtualShares)
	if err != nil {
		return 0, err
	}
	denom, err := addChecked(totalAssets, VirtualAssets)
	if err != nil {
		return 0, err
	}
	return MulDivUp(assets, shares, denom)
}

// ToAssetsDown computes the asset amount paid out for a given share count,
// rounding down (against the user). Used by Withdraw (by-shares) and
// Borrow (by-shares).
func ToAssetsDown(shares, totalAssets, totalShares uint64) (uint64, error) {
	assets, err := addChecked(totalAssets, VirtualAssets)
	if err != nil {
		return 0, err
	}
	denom, err := addChecked(totalShares, VirtualShares)
	if err != nil {
		return 0, err
	}
	return MulDivDown(shares, assets, denom)
}

// ToAssetsUp computes the asset amount owed for a given share count,
// rounding up (against the user). Used by Supply (by-shares), Repay
// (by-shares), and the solvency check's debt valuation.
func ToAssetsUp(shares, totalAssets, totalShares uint64) (uint64, error) {
	assets, err := addChecked(totalAssets, VirtualAssets)
	if err != nil {
		return 0, err
	}
	denom, err := addChecked(totalShares, VirtualShares)
	if err != nil {
		return 0, err
	}
	return MulDivUp(shares, assets, denom)
}
