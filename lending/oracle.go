package lending

// Oracle returns a fixed-point price of one whole collateral unit expressed
// in loan base units, at PricePrecision. The engine never computes prices
// itself; it treats the oracle as an abstract collaborator (spec.md §4.4),
// so tests and the reference implementation in the oracle package both
// satisfy this interface without the engine knowing which one it got.
type Oracle interface {
	Price() (value uint64, precision uint64, err error)
}
