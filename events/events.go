// Package events defines the stable, order-independent event records the
// lending engine emits for each operation (spec.md §6). Each record
// carries enough post-state for an off-chain observer to reconstruct
// balances without re-reading the market or position it came from. The
// shape mirrors the teacher repository's core/events package: a typed
// struct per event, a constant EventType, and an Attributes() map an
// observer can serialise however it likes.
package events

import (
	"strconv"

	"github.com/google/uuid"
)

// Record is satisfied by every event type in this package.
type Record interface {
	EventType() string
	Attributes() map[string]string
}

func u64(v uint64) string { return strconv.FormatUint(v, 10) }
func i64(v int64) string  { return strconv.FormatInt(v, 10) }

// newID generates a fresh event identifier. Callers that need determinism
// in tests can ignore the field entirely; it exists for observers that
// want an idempotency key, not for engine correctness.
func newID() string { return uuid.NewString() }

const (
	TypeAccrueInterest    = "lending.accrue_interest"
	TypeSupply            = "lending.supply"
	TypeWithdraw           = "lending.withdraw"
	TypeSupplyCollateral   = "lending.supply_collateral"
	TypeWithdrawCollateral = "lending.withdraw_collateral"
	TypeBorrow             = "lending.borrow"
	TypeRepay              = "lending.repay"
)

// AccrueInterest records one accrual step.
type AccrueInterest struct {
	EventID           string
	MarketID          string
	Interest          uint64
	TotalBorrowAssets uint64
	TotalSupplyAssets uint64
	Elapsed           uint64
	Timestamp         int64
}

func NewAccrueInterest(marketID string, interest, totalBorrowAssets, totalSupplyAssets, elapsed uint64, timestamp int64) AccrueInterest {
	return AccrueInterest{
		EventID:           newID(),
		MarketID:          marketID,
		Interest:          interest,
		TotalBorrowAssets: totalBorrowAssets,
		TotalSupplyAssets: totalSupplyAssets,
		Elapsed:           elapsed,
		Timestamp:         timestamp,
	}
}

func (AccrueInterest) EventType() string { return TypeAccrueInterest }

func (e AccrueInterest) Attributes() map[string]string {
	return map[string]string{
		"eventId":           e.EventID,
		"marketId":          e.MarketID,
		"interest":          u64(e.Interest),
		"totalBorrowAssets": u64(e.TotalBorrowAssets),
		"totalSupplyAssets": u64(e.TotalSupplyAssets),
		"elapsed":           u64(e.Elapsed),
		"timestamp":         i64(e.Timestamp),
	}
}

// Supply records a lend-side deposit.
type Supply struct {
	EventID           string
	MarketID          string
	User              string
	Assets            uint64
	Shares            uint64
	TotalSupplyAssets uint64
	TotalSupplyShares uint64
}

func NewSupply(marketID, user string, assets, shares, totalSupplyAssets, totalSupplyShares uint64) Supply {
	return Supply{
		EventID:           newID(),
		MarketID:          marketID,
		User:              user,
		Assets:            assets,
		Shares:            shares,
		TotalSupplyAssets: totalSupplyAssets,
		TotalSupplyShares: totalSupplyShares,
	}
}

func (Supply) EventType() string { return TypeSupply }

func (e Supply) Attributes() map[string]string {
	return map[string]string{
		"eventId":           e.EventID,
		"marketId":          e.MarketID,
		"user":              e.User,
		"assets":            u64(e.Assets),
		"shares":            u64(e.Shares),
		"totalSupplyAssets": u64(e.TotalSupplyAssets),
		"totalSupplyShares": u64(e.TotalSupplyShares),
	}
}

// Withdraw records a lend-side redemption.
type Withdraw struct {
	EventID           string
	MarketID          string
	User              string
	Receiver          string
	Assets            uint64
	Shares            uint64
	TotalSupplyAssets uint64
	TotalSupplyShares uint64
}

func NewWithdraw(marketID, user, receiver string, assets, shares, totalSupplyAssets, totalSupplyShares uint64) Withdraw {
	return Withdraw{
		EventID:           newID(),
		MarketID:          marketID,
		User:              user,
		Receiver:          receiver,
		Assets:            assets,
		Shares:            shares,
		TotalSupplyAssets: totalSupplyAssets,
		TotalSupplyShares: totalSupplyShares,
	}
}

func (Withdraw) EventType() string { return TypeWithdraw }

func (e Withdraw) Attributes() map[string]string {
	return map[string]string{
		"eventId":           e.EventID,
		"marketId":          e.MarketID,
		"user":              e.User,
		"receiver":          e.Receiver,
		"assets":            u64(e.Assets),
		"shares":            u64(e.Shares),
		"totalSupplyAssets": u64(e.TotalSupplyAssets),
		"totalSupplyShares": u64(e.TotalSupplyShares),
	}
}

// SupplyCollateral records a collateral deposit.
type SupplyCollateral struct {
	EventID           string
	MarketID          string
	User              string
	Amount            uint64
	CollateralAmount  uint64
}

func NewSupplyCollateral(marketID, user string, amount, collateralAmount uint64) SupplyCollateral {
	return SupplyCollateral{EventID: newID(), MarketID: marketID, User: user, Amount: amount, CollateralAmount: collateralAmount}
}

func (SupplyCollateral) EventType() string { return TypeSupplyCollateral }

func (e SupplyCollateral) Attributes() map[string]string {
	return map[string]string{
		"eventId":          e.EventID,
		"marketId":         e.MarketID,
		"user":             e.User,
		"amount":           u64(e.Amount),
		"collateralAmount": u64(e.CollateralAmount),
	}
}

// WithdrawCollateral records a collateral release.
type WithdrawCollateral struct {
	EventID          string
	MarketID         string
	User             string
	Receiver         string
	Amount           uint64
	CollateralAmount uint64
}

func NewWithdrawCollateral(marketID, user, receiver string, amount, collateralAmount uint64) WithdrawCollateral {
	return WithdrawCollateral{EventID: newID(), MarketID: marketID, User: user, Receiver: receiver, Amount: amount, CollateralAmount: collateralAmount}
}

func (WithdrawCollateral) EventType() string { return TypeWithdrawCollateral }

func (e WithdrawCollateral) Attributes() map[string]string {
	return map[string]string{
		"eventId":          e.EventID,
		"marketId":         e.MarketID,
		"user":             e.User,
		"receiver":         e.Receiver,
		"amount":           u64(e.Amount),
		"collateralAmount": u64(e.CollateralAmount),
	}
}

// Borrow records a debt draw.
type Borrow struct {
	EventID           string
	MarketID          string
	Borrower          string
	Receiver          string
	Assets            uint64
	Shares            uint64
	TotalBorrowAssets uint64
	TotalBorrowShares uint64
}

func NewBorrow(marketID, borrower, receiver string, assets, shares, totalBorrowAssets, totalBorrowShares uint64) Borrow {
	return Borrow{
		EventID:           newID(),
		MarketID:          marketID,
		Borrower:          borrower,
		Receiver:          receiver,
		Assets:            assets,
		Shares:            shares,
		TotalBorrowAssets: totalBorrowAssets,
		TotalBorrowShares: totalBorrowShares,
	}
}

func (Borrow) EventType() string { return TypeBorrow }

func (e Borrow) Attributes() map[string]string {
	return map[string]string{
		"eventId":           e.EventID,
		"marketId":          e.MarketID,
		"borrower":          e.Borrower,
		"receiver":          e.Receiver,
		"assets":            u64(e.Assets),
		"shares":            u64(e.Shares),
		"totalBorrowAssets": u64(e.TotalBorrowAssets),
		"totalBorrowShares": u64(e.TotalBorrowShares),
	}
}

// Repay records a debt reduction. Payer and borrower may differ.
type Repay struct {
	EventID              string
	MarketID             string
	Payer                string
	Borrower             string
	Assets               uint64
	SharesBurned         uint64
	RemainingBorrowShares uint64
	TotalBorrowAssets    uint64
	TotalBorrowShares    uint64
}

func NewRepay(marketID, payer, borrower string, assets, sharesBurned, remainingBorrowShares, totalBorrowAssets, totalBorrowShares uint64) Repay {
	return Repay{
		EventID:               newID(),
		MarketID:              marketID,
		Payer:                 payer,
		Borrower:              borrower,
		Assets:                assets,
		SharesBurned:          sharesBurned,
		RemainingBorrowShares: remainingBorrowShares,
		TotalBorrowAssets:     totalBorrowAssets,
		TotalBorrowShares:     totalBorrowShares,
	}
}

func (Repay) EventType() string { return TypeRepay }

func (e Repay) Attributes() map[string]string {
	return map[string]string{
		"eventId":               e.EventID,
		"marketId":              e.MarketID,
		"payer":                 e.Payer,
		"borrower":              e.Borrower,
		"assets":                u64(e.Assets),
		"sharesBurned":          u64(e.SharesBurned),
		"remainingBorrowShares": u64(e.RemainingBorrowShares),
		"totalBorrowAssets":     u64(e.TotalBorrowAssets),
		"totalBorrowShares":     u64(e.TotalBorrowShares),
	}
}
