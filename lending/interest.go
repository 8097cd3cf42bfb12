package lending

import "math/big"

// InterestModel is the abstract contract InterestAccrual folds into market
// totals: a function of the outstanding borrow and the elapsed time. The
// interface exists so a later utilisation-driven curve can be slotted in
// without touching accrue (spec.md §9); LinearModel is the only
// implementation this repository ships, since a variable-rate model is an
// explicit Non-goal.
type InterestModel interface {
	// Interest returns the asset-unit interest owed on totalBorrowAssets
	// over dt elapsed seconds.
	Interest(totalBorrowAssets, dt uint64) (uint64, error)
}

// LinearModel implements the spec's fixed linear-APY model:
// interest = floor(totalBorrowAssets * RateWAD * dt / (WAD * SecondsPerYear)).
type LinearModel struct {
	RateWAD        uint64
	SecondsPerYear uint64
}

// DefaultLinearModel is the 5%-per-year model fixed by spec.md §4.3.
var DefaultLinearModel = LinearModel{RateWAD: RateWAD, SecondsPerYear: SecondsPerYear}

// Interest implements InterestModel. The product RateWAD*dt can exceed the
// 64-bit range for large dt, so the full three-term computation is carried
// out in a single big.Int intermediate rather than chained MulDivDown calls.
func (m LinearModel) Interest(totalBorrowAssets, dt uint64) (uint64, error) {
	if totalBorrowAssets == 0 || dt == 0 {
		return 0, nil
	}
	if m.SecondsPerYear == 0 {
		return 0, ErrDivisionByZero
	}
	numerator := new(big.Int).SetUint64(totalBorrowAssets)
	numerator.Mul(numerator, new(big.Int).SetUint64(m.RateWAD))
	numerator.Mul(numerator, new(big.Int).SetUint64(dt))

	denominator := new(big.Int).SetUint64(WAD)
	denominator.Mul(denominator, new(big.Int).SetUint64(m.SecondsPerYear))

	quotient := new(big.Int).Quo(numerator, denominator)
	if !quotient.IsUint64() {
		return 0, ErrMathOverflow
	}
	return quotient.Uint64(), nil
}

// AccrueInterest is the prologue event: the amount of interest folded into
// a market's totals by a single accrual step, plus the post-state the
// event observer needs to reconstruct balances without re-reading records.
type AccrueInterest struct {
	MarketID          string
	Interest          uint64
	TotalBorrowAssets uint64
	TotalSupplyAssets uint64
	Elapsed           uint64
	Timestamp         int64
}

// accrue advances market.LastUpdate to now and credits linear interest on
// outstanding debt to both the supply and borrow totals. It is the
// mandatory first step of every state-changing MarketEngine operation
// (spec.md §4.3). A zero-interest, zero-elapsed accrual is idempotent and
// returns a nil event.
func accrue(market *Market, model InterestModel, now int64) (*AccrueInterest, error) {
	if now < market.LastUpdate {
		return nil, ErrInvalidTimestamp
	}
	dt := uint64(now - market.LastUpdate)
	if dt == 0 || market.TotalBorrowAssets == 0 {
		market.LastUpdate = now
		return nil, nil
	}

	interest, err := model.Interest(market.TotalBorrowAssets, dt)
	if err != nil {
		return nil, err
	}
	if interest == 0 {
		market.LastUpdate = now
		return nil, nil
	}

	totalBorrow, err := addChecked(market.TotalBorrowAssets, interest)
	if err != nil {
		return nil, err
	}
	totalSupply, err := addChecked(market.TotalSupplyAssets, interest)
	if err != nil {
		return nil, err
	}

	market.TotalBorrowAssets = totalBorrow
	market.TotalSupplyAssets = totalSupply
	market.LastUpdate = now

	return &AccrueInterest{
		MarketID:          market.ID.String(),
		Interest:          interest,
		TotalBorrowAssets: market.TotalBorrowAssets,
		TotalSupplyAssets: market.TotalSupplyAssets,
		Elapsed:           dt,
		Timestamp:         now,
	}, nil
}
