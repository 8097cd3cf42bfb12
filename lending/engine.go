package lending

import (
	"log/slog"

	"github.com/Im-Sue/Pelago/events"
	"github.com/Im-Sue/Pelago/identity"
)

// Engine orchestrates the six MarketEngine operations plus market
// initialisation. It holds no process-wide mutable state of its own
// (spec.md §9, design note "No hidden global state"); everything it
// touches is loaded from and written back to the configured stores.
//
// Every operation's accrual event return value is nil whenever err is
// non-nil: an aborted operation never persists, so the interest it would
// have accrued never happened either, and the caller must not treat a
// non-nil error's other return values as partially committed.
type Engine struct {
	markets   MarketStore
	positions PositionStore
	transfer  AssetTransfer
	model     InterestModel
	logger    *slog.Logger
	metrics   MetricsRecorder
}

// NewEngine constructs an Engine wired to the required collaborators. The
// interest model defaults to DefaultLinearModel; logging and metrics are
// both optional and safe to leave unset.
func NewEngine(markets MarketStore, positions PositionStore, transfer AssetTransfer) *Engine {
	return &Engine{
		markets:   markets,
		positions: positions,
		transfer:  transfer,
		model:     DefaultLinearModel,
	}
}

// SetInterestModel overrides the interest model used by accrue. Only
// DefaultLinearModel ships in this repository; the setter exists so tests
// can exercise accrual with values other than the wall-clock-driven 5%
// rate without waiting a simulated year for a measurable effect.
func (e *Engine) SetInterestModel(model InterestModel) {
	if e == nil || model == nil {
		return
	}
	e.model = model
}

// SetLogger wires a structured logger. One line is emitted per completed
// operation (info) and per rejected operation (warn), plus one info line
// for each accrual step that credits interest.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if e == nil {
		return
	}
	e.logger = logger
}

// SetMetrics wires an optional Prometheus recorder.
func (e *Engine) SetMetrics(metrics MetricsRecorder) {
	if e == nil {
		return
	}
	e.metrics = metrics
}

func (e *Engine) logOp(marketID identity.MarketID, op string, err error) {
	if e == nil || e.logger == nil {
		return
	}
	if err != nil {
		e.logger.Warn("lending operation rejected", "market", marketID.String(), "operation", op, "error", err)
		return
	}
	e.logger.Info("lending operation committed", "market", marketID.String(), "operation", op)
}

func (e *Engine) observe(marketID identity.MarketID, op string, err error) {
	if e == nil || e.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "rejected"
	}
	e.metrics.ObserveOperation(marketID.String(), op, outcome)
}

// InitializeMarket creates a new isolated market for a (loan asset,
// collateral asset) pair. The market identifier is derived deterministically
// from the pair (identity.DeriveMarketID), so a second initialisation of
// the same pair fails with ErrMarketAlreadyInitialized rather than
// silently overwriting the first market's accounting state.
func (e *Engine) InitializeMarket(loanAsset, collateralAsset identity.AssetID, lltv uint64, authority identity.AccountID, now int64) (*Market, error) {
	if e == nil || e.markets == nil {
		return nil, ErrNilState
	}
	if lltv == 0 || lltv > LLTVPrecision {
		return nil, ErrInvalidLltv
	}

	marketID := identity.DeriveMarketID(loanAsset, collateralAsset)
	existing, err := e.markets.GetMarket(marketID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMarketAlreadyInitialized
	}

	market := &Market{
		ID:                marketID,
		LoanAssetID:       loanAsset,
		CollateralAssetID: collateralAsset,
		LLTV:              lltv,
		Authority:         authority,
		LastUpdate:        now,
	}
	if err := e.markets.PutMarket(market); err != nil {
		return nil, err
	}
	return market, nil
}

// parseDualArgument enforces the dual-parameter contract (spec.md §4.6,
// §6): exactly one of assetsArg/sharesArg must be non-zero.
func parseDualArgument(assetsArg, sharesArg uint64) error {
	if (assetsArg == 0) == (sharesArg == 0) {
		return ErrInconsistentInput
	}
	return nil
}

func (e *Engine) loadMarket(marketID identity.MarketID) (*Market, error) {
	if e == nil || e.markets == nil {
		return nil, ErrNilState
	}
	market, err := e.markets.GetMarket(marketID)
	if err != nil {
		return nil, err
	}
	if market == nil {
		return nil, ErrUninitializedMarket
	}
	return market, nil
}

func (e *Engine) loadOrCreatePosition(marketID identity.MarketID, user identity.AccountID) (*UserPosition, error) {
	if e == nil || e.positions == nil {
		return nil, ErrNilState
	}
	position, err := e.positions.GetUserPosition(marketID, user)
	if err != nil {
		return nil, err
	}
	if position == nil {
		position = &UserPosition{MarketID: marketID, UserID: user}
	}
	return position, nil
}

// accrueStep runs the mandatory interest-accrual prologue and reports it
// through logging/metrics. Every public operation below calls this first,
// before reading any share totals it will mutate.
func (e *Engine) accrueStep(market *Market, now int64) (*events.AccrueInterest, error) {
	result, err := accrue(market, e.model, now)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	evt := events.NewAccrueInterest(result.MarketID, result.Interest, result.TotalBorrowAssets, result.TotalSupplyAssets, result.Elapsed, result.Timestamp)
	if e.metrics != nil {
		e.metrics.ObserveInterestAccrued(result.MarketID, result.Interest)
	}
	if e.logger != nil {
		e.logger.Info("interest accrued", "market", result.MarketID, "interest", result.Interest, "elapsed", result.Elapsed)
	}
	return &evt, nil
}

// Supply lends loan-asset liquidity into the market, minting supply shares
// for the user (spec.md §4.6 "supply").
func (e *Engine) Supply(marketID identity.MarketID, user identity.AccountID, assetsArg, sharesArg uint64, now int64) (supplyEvt *events.Supply, accrueEvt *events.AccrueInterest, err error) {
	defer func() { e.logOp(marketID, "supply", err); e.observe(marketID, "supply", err) }()

	if e == nil || e.transfer == nil {
		return nil, nil, ErrNilTransfer
	}
	market, err := e.loadMarket(marketID)
	if err != nil {
		return nil, nil, err
	}
	accrueEvt, err = e.accrueStep(market, now)
	if err != nil {
		return nil, nil, err
	}
	if err = parseDualArgument(assetsArg, sharesArg); err != nil {
		return nil, nil, err
	}

	var assets, shares uint64
	if assetsArg > 0 {
		shares, err = ToSharesDown(assetsArg, market.TotalSupplyAssets, market.TotalSupplyShares)
		assets = assetsArg
	} else {
		assets, err = ToAssetsUp(sharesArg, market.TotalSupplyAssets, market.TotalSupplyShares)
		shares = sharesArg
	}
	if err != nil {
		return nil, nil, err
	}
	if assets == 0 || shares == 0 {
		return nil, nil, ErrZeroAmount
	}

	position, err := e.loadOrCreatePosition(marketID, user)
	if err != nil {
		return nil, nil, err
	}

	newTotalSupplyAssets, err := addChecked(market.TotalSupplyAssets, assets)
	if err != nil {
		return nil, nil, err
	}
	newTotalSupplyShares, err := addChecked(market.TotalSupplyShares, shares)
	if err != nil {
		return nil, nil, err
	}
	newPositionShares, err := addChecked(position.SupplyShares, shares)
	if err != nil {
		return nil, nil, err
	}

	if err = e.transfer.TransferIn(market.LoanAssetID, marketID, user, assets); err != nil {
		return nil, nil, err
	}

	market.TotalSupplyAssets = newTotalSupplyAssets
	market.TotalSupplyShares = newTotalSupplyShares
	position.SupplyShares = newPositionShares

	if err = e.positions.PutUserPosition(position); err != nil {
		return nil, nil, err
	}
	if err = e.markets.PutMarket(market); err != nil {
		return nil, nil, err
	}

	evt := events.NewSupply(marketID.String(), user.String(), assets, shares, market.TotalSupplyAssets, market.TotalSupplyShares)
	supplyEvt = &evt
	return supplyEvt, accrueEvt, nil
}

// Withdraw redeems supply shares back to assets (spec.md §4.6 "withdraw").
func (e *Engine) Withdraw(marketID identity.MarketID, user identity.AccountID, assetsArg, sharesArg uint64, receiver identity.AccountID, now int64) (withdrawEvt *events.Withdraw, accrueEvt *events.AccrueInterest, err error) {
	defer func() { e.logOp(marketID, "withdraw", err); e.observe(marketID, "withdraw", err) }()

	if e == nil || e.transfer == nil {
		return nil, nil, ErrNilTransfer
	}
	market, err := e.loadMarket(marketID)
	if err != nil {
		return nil, nil, err
	}
	accrueEvt, err = e.accrueStep(market, now)
	if err != nil {
		return nil, nil, err
	}
	if err = parseDualArgument(assetsArg, sharesArg); err != nil {
		return nil, nil, err
	}

	var assets, shares uint64
	if assetsArg > 0 {
		shares, err = ToSharesUp(assetsArg, market.TotalSupplyAssets, market.TotalSupplyShares)
		assets = assetsArg
	} else {
		assets, err = ToAssetsDown(sharesArg, market.TotalSupplyAssets, market.TotalSupplyShares)
		shares = sharesArg
	}
	if err != nil {
		return nil, nil, err
	}
	if assets == 0 || shares == 0 {
		return nil, nil, ErrZeroAmount
	}

	position, err := e.loadOrCreatePosition(marketID, user)
	if err != nil {
		return nil, nil, err
	}
	if position.SupplyShares < shares {
		return nil, nil, ErrInsufficientSupply
	}

	newPositionShares, err := subChecked(position.SupplyShares, shares)
	if err != nil {
		return nil, nil, err
	}
	newTotalSupplyShares, err := subChecked(market.TotalSupplyShares, shares)
	if err != nil {
		return nil, nil, err
	}
	newTotalSupplyAssets, err := subChecked(market.TotalSupplyAssets, assets)
	if err != nil {
		return nil, nil, err
	}
	if market.TotalBorrowAssets > newTotalSupplyAssets {
		return nil, nil, ErrInsufficientLiquidity
	}

	if err = e.transfer.TransferOut(market.LoanAssetID, marketID, receiver, assets); err != nil {
		return nil, nil, err
	}

	position.SupplyShares = newPositionShares
	market.TotalSupplyShares = newTotalSupplyShares
	market.TotalSupplyAssets = newTotalSupplyAssets

	if err = e.positions.PutUserPosition(position); err != nil {
		return nil, nil, err
	}
	if err = e.markets.PutMarket(market); err != nil {
		return nil, nil, err
	}

	evt := events.NewWithdraw(marketID.String(), user.String(), receiver.String(), assets, shares, market.TotalSupplyAssets, market.TotalSupplyShares)
	withdrawEvt = &evt
	return withdrawEvt, accrueEvt, nil
}

// SupplyCollateral deposits collateral for a user. No solvency check is
// run: a collateral increase can only help a position's health.
func (e *Engine) SupplyCollateral(marketID identity.MarketID, user identity.AccountID, amount uint64, now int64) (evtOut *events.SupplyCollateral, accrueEvt *events.AccrueInterest, err error) {
	defer func() { e.logOp(marketID, "supply_collateral", err); e.observe(marketID, "supply_collateral", err) }()

	if e == nil || e.transfer == nil {
		return nil, nil, ErrNilTransfer
	}
	if amount == 0 {
		return nil, nil, ErrZeroAmount
	}
	market, err := e.loadMarket(marketID)
	if err != nil {
		return nil, nil, err
	}
	accrueEvt, err = e.accrueStep(market, now)
	if err != nil {
		return nil, nil, err
	}

	position, err := e.loadOrCreatePosition(marketID, user)
	if err != nil {
		return nil, nil, err
	}
	newCollateral, err := addChecked(position.CollateralAmount, amount)
	if err != nil {
		return nil, nil, err
	}

	if err = e.transfer.TransferIn(market.CollateralAssetID, marketID, user, amount); err != nil {
		return nil, nil, err
	}

	position.CollateralAmount = newCollateral
	if err = e.positions.PutUserPosition(position); err != nil {
		return nil, nil, err
	}
	if err = e.markets.PutMarket(market); err != nil {
		return nil, nil, err
	}

	evt := events.NewSupplyCollateral(marketID.String(), user.String(), amount, position.CollateralAmount)
	evtOut = &evt
	return evtOut, accrueEvt, nil
}

// WithdrawCollateral releases collateral, provided the resulting position
// remains solvent (spec.md §4.6 "withdraw_collateral").
func (e *Engine) WithdrawCollateral(marketID identity.MarketID, user identity.AccountID, amount uint64, receiver identity.AccountID, oracle Oracle, now int64) (evtOut *events.WithdrawCollateral, accrueEvt *events.AccrueInterest, err error) {
	defer func() { e.logOp(marketID, "withdraw_collateral", err); e.observe(marketID, "withdraw_collateral", err) }()

	if e == nil || e.transfer == nil {
		return nil, nil, ErrNilTransfer
	}
	if amount == 0 {
		return nil, nil, ErrZeroAmount
	}
	market, err := e.loadMarket(marketID)
	if err != nil {
		return nil, nil, err
	}
	accrueEvt, err = e.accrueStep(market, now)
	if err != nil {
		return nil, nil, err
	}

	position, err := e.loadOrCreatePosition(marketID, user)
	if err != nil {
		return nil, nil, err
	}
	if position.CollateralAmount < amount {
		return nil, nil, ErrInsufficientCollateral
	}
	remaining, err := subChecked(position.CollateralAmount, amount)
	if err != nil {
		return nil, nil, err
	}

	if err = CheckSolvency(oracle, market.LLTV, remaining, position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares); err != nil {
		return nil, nil, err
	}

	if err = e.transfer.TransferOut(market.CollateralAssetID, marketID, receiver, amount); err != nil {
		return nil, nil, err
	}

	position.CollateralAmount = remaining
	if err = e.positions.PutUserPosition(position); err != nil {
		return nil, nil, err
	}
	if err = e.markets.PutMarket(market); err != nil {
		return nil, nil, err
	}

	evt := events.NewWithdrawCollateral(marketID.String(), user.String(), receiver.String(), amount, position.CollateralAmount)
	evtOut = &evt
	return evtOut, accrueEvt, nil
}

// Borrow draws loan-asset debt against a user's collateral (spec.md §4.6
// "borrow"). Liquidity is checked before solvency because it is cheaper
// (spec.md §9, Open Questions) — both orderings fail the same transaction.
func (e *Engine) Borrow(marketID identity.MarketID, user identity.AccountID, assetsArg, sharesArg uint64, receiver identity.AccountID, oracle Oracle, now int64) (borrowEvt *events.Borrow, accrueEvt *events.AccrueInterest, err error) {
	defer func() { e.logOp(marketID, "borrow", err); e.observe(marketID, "borrow", err) }()

	if e == nil || e.transfer == nil {
		return nil, nil, ErrNilTransfer
	}
	market, err := e.loadMarket(marketID)
	if err != nil {
		return nil, nil, err
	}
	accrueEvt, err = e.accrueStep(market, now)
	if err != nil {
		return nil, nil, err
	}
	if err = parseDualArgument(assetsArg, sharesArg); err != nil {
		return nil, nil, err
	}

	var assets, shares uint64
	if assetsArg > 0 {
		shares, err = ToSharesUp(assetsArg, market.TotalBorrowAssets, market.TotalBorrowShares)
		assets = assetsArg
	} else {
		assets, err = ToAssetsDown(sharesArg, market.TotalBorrowAssets, market.TotalBorrowShares)
		shares = sharesArg
	}
	if err != nil {
		return nil, nil, err
	}
	if assets == 0 || shares == 0 {
		return nil, nil, ErrZeroAmount
	}

	position, err := e.loadOrCreatePosition(marketID, user)
	if err != nil {
		return nil, nil, err
	}

	newTotalBorrowAssets, err := addChecked(market.TotalBorrowAssets, assets)
	if err != nil {
		return nil, nil, err
	}
	newTotalBorrowShares, err := addChecked(market.TotalBorrowShares, shares)
	if err != nil {
		return nil, nil, err
	}
	newPositionShares, err := addChecked(position.BorrowShares, shares)
	if err != nil {
		return nil, nil, err
	}

	if newTotalBorrowAssets > market.TotalSupplyAssets {
		return nil, nil, ErrInsufficientLiquidity
	}
	if err = CheckSolvency(oracle, market.LLTV, position.CollateralAmount, newPositionShares, newTotalBorrowAssets, newTotalBorrowShares); err != nil {
		return nil, nil, err
	}

	if err = e.transfer.TransferOut(market.LoanAssetID, marketID, receiver, assets); err != nil {
		return nil, nil, err
	}

	market.TotalBorrowAssets = newTotalBorrowAssets
	market.TotalBorrowShares = newTotalBorrowShares
	position.BorrowShares = newPositionShares

	if err = e.positions.PutUserPosition(position); err != nil {
		return nil, nil, err
	}
	if err = e.markets.PutMarket(market); err != nil {
		return nil, nil, err
	}

	evt := events.NewBorrow(marketID.String(), user.String(), receiver.String(), assets, shares, market.TotalBorrowAssets, market.TotalBorrowShares)
	borrowEvt = &evt
	return borrowEvt, accrueEvt, nil
}

// Repay reduces a borrower's debt. The payer and borrower may differ. Debt
// reduction saturates at zero so an overpayment never faults (spec.md
// §4.6 "repay", property 7).
func (e *Engine) Repay(marketID identity.MarketID, payer, borrower identity.AccountID, assetsArg, sharesArg uint64, now int64) (repayEvt *events.Repay, accrueEvt *events.AccrueInterest, err error) {
	defer func() { e.logOp(marketID, "repay", err); e.observe(marketID, "repay", err) }()

	if e == nil || e.transfer == nil {
		return nil, nil, ErrNilTransfer
	}
	market, err := e.loadMarket(marketID)
	if err != nil {
		return nil, nil, err
	}
	accrueEvt, err = e.accrueStep(market, now)
	if err != nil {
		return nil, nil, err
	}
	if err = parseDualArgument(assetsArg, sharesArg); err != nil {
		return nil, nil, err
	}

	var assets, shares uint64
	if assetsArg > 0 {
		shares, err = ToSharesDown(assetsArg, market.TotalBorrowAssets, market.TotalBorrowShares)
		assets = assetsArg
	} else {
		assets, err = ToAssetsUp(sharesArg, market.TotalBorrowAssets, market.TotalBorrowShares)
		shares = sharesArg
	}
	if err != nil {
		return nil, nil, err
	}
	if assets == 0 || shares == 0 {
		return nil, nil, ErrZeroAmount
	}

	position, err := e.loadOrCreatePosition(marketID, borrower)
	if err != nil {
		return nil, nil, err
	}

	sharesBurned := minUint64(shares, position.BorrowShares)

	if err = e.transfer.TransferIn(market.LoanAssetID, marketID, payer, assets); err != nil {
		return nil, nil, err
	}

	position.BorrowShares -= sharesBurned
	market.TotalBorrowShares -= sharesBurned
	market.TotalBorrowAssets = subSaturating(market.TotalBorrowAssets, assets)

	if err = e.positions.PutUserPosition(position); err != nil {
		return nil, nil, err
	}
	if err = e.markets.PutMarket(market); err != nil {
		return nil, nil, err
	}

	evt := events.NewRepay(marketID.String(), payer.String(), borrower.String(), assets, sharesBurned, position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares)
	repayEvt = &evt
	return repayEvt, accrueEvt, nil
}
