package lending

// Constants fixed by the specification. None of these are governance- or
// config-tunable: LLTV is set once at market initialisation and the rest
// are compiled in.
const (
	// VirtualAssets and VirtualShares defend every share conversion against
	// the first-depositor inflation attack (spec.md §4.2, §9).
	VirtualAssets uint64 = 1
	VirtualShares uint64 = 1_000_000

	// LLTVPrecision is the fixed-point precision of a market's LLTV and of
	// the solvency check's ratio comparison.
	LLTVPrecision uint64 = 100_000_000

	// PricePrecision is the fixed-point precision an Oracle's price is
	// expressed in.
	PricePrecision uint64 = 100_000_000

	// RateWAD is the fixed 5% annual borrow rate, expressed as a WAD
	// (1e18-scaled) fraction.
	RateWAD uint64 = 50_000_000_000_000_000

	// WAD is the fixed-point scale RateWAD is expressed in.
	WAD uint64 = 1_000_000_000_000_000_000

	// SecondsPerYear is the denominator InterestAccrual uses to turn an
	// annual rate into a per-second one.
	SecondsPerYear uint64 = 31_557_600
)
