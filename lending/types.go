package lending

import "github.com/Im-Sue/Pelago/identity"

// Market is the global accounting state for one isolated (loan asset,
// collateral asset) pair. It is created once by InitializeMarket and is
// immutable in its identifying fields thereafter; every MarketEngine
// operation in the market reads and rewrites the remaining fields.
type Market struct {
	ID                 identity.MarketID
	LoanAssetID        identity.AssetID
	CollateralAssetID  identity.AssetID
	// LLTV is fixed-point at LLTVPrecision; 0 < LLTV <= LLTVPrecision.
	LLTV uint64

	TotalSupplyAssets uint64
	TotalSupplyShares uint64
	TotalBorrowAssets uint64
	TotalBorrowShares uint64

	// LastUpdate is wall-clock seconds since epoch; set to "now" on every
	// operation via accrue.
	LastUpdate int64

	Authority identity.AccountID
}

// UserPosition is one user's stake in one market: their claim on the
// supply pool, their share of the borrow pool, and their pledged
// collateral. It is created on first supply or collateral deposit and is
// never destroyed by the core.
type UserPosition struct {
	MarketID identity.MarketID
	UserID   identity.AccountID

	SupplyShares      uint64
	BorrowShares      uint64
	CollateralAmount  uint64
}
