package lending

import "github.com/Im-Sue/Pelago/identity"

// MarketStore is the persistence collaborator for Market records
// (spec.md §6: "Persistence: load/store, transactional within one
// operation"). The core never assumes how or where markets are stored; it
// only requires that a committed Put is visible to the next Get.
type MarketStore interface {
	GetMarket(id identity.MarketID) (*Market, error)
	PutMarket(market *Market) error
}

// PositionStore is the persistence collaborator for UserPosition records.
type PositionStore interface {
	GetUserPosition(marketID identity.MarketID, user identity.AccountID) (*UserPosition, error)
	PutUserPosition(position *UserPosition) error
}

// AssetTransfer is the custody collaborator (spec.md §1: "Asset custody
// and transfer ... moves asset base units in and out"). TransferIn moves
// units from a user into the market's vault; TransferOut moves units from
// the vault to a receiver. Either call aborts the whole operation on
// failure; the engine never retries or partially applies a transfer.
type AssetTransfer interface {
	TransferIn(asset identity.AssetID, market identity.MarketID, from identity.AccountID, amount uint64) error
	TransferOut(asset identity.AssetID, market identity.MarketID, to identity.AccountID, amount uint64) error
}

// MetricsRecorder is the optional observability collaborator engine
// operations report to. A nil recorder is always safe to call through.
type MetricsRecorder interface {
	ObserveOperation(marketID, operation, outcome string)
	ObserveInterestAccrued(marketID string, amount uint64)
}
