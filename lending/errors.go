package lending

import "errors"

// Error taxonomy for the lending engine. Every value below is terminal for
// the operation that raised it: no partial state is committed, and the
// persistence layer must not be asked to store anything.
var (
	ErrInvalidLltv               = errors.New("lending: lltv must be in (0, 1e8]")
	ErrZeroAmount                = errors.New("lending: amount must be non-zero")
	ErrInconsistentInput         = errors.New("lending: exactly one of assets/shares must be non-zero")
	ErrInsufficientCollateral    = errors.New("lending: position fails the solvency check")
	ErrInsufficientLiquidity     = errors.New("lending: total borrow would exceed total supply")
	ErrInsufficientSupply        = errors.New("lending: withdraw exceeds the user's supply shares")
	ErrInsufficientBorrow        = errors.New("lending: debt-shares underflow")
	ErrMathOverflow              = errors.New("lending: arithmetic overflow")
	ErrDivisionByZero            = errors.New("lending: division by zero")
	ErrInvalidTimestamp          = errors.New("lending: now precedes market.last_update")
	ErrUninitializedMarket       = errors.New("lending: market was never initialised")
	ErrInvalidVault              = errors.New("lending: transport reported a vault mismatch")
	ErrMarketAlreadyInitialized  = errors.New("lending: market already initialised for this asset pair")
	ErrNilState                  = errors.New("lending: no store configured on the engine")
	ErrNilOracle                 = errors.New("lending: no oracle configured on the engine")
	ErrNilTransfer               = errors.New("lending: no asset transfer collaborator configured on the engine")
)
