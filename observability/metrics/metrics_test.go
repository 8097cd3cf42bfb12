package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/Im-Sue/Pelago/identity"
	"github.com/Im-Sue/Pelago/lending"
	"github.com/Im-Sue/Pelago/oracle"
	"github.com/Im-Sue/Pelago/store"
)

// TestRecorderObservesEngineOperations wires the Default singleton into a
// live Engine via SetMetrics and confirms real operations, both committed
// and rejected, actually drive its collectors rather than sitting unused.
func TestRecorderObservesEngineOperations(t *testing.T) {
	recorder := Default()

	mem := store.NewMemory()
	engine := lending.NewEngine(mem, mem, mem)
	engine.SetMetrics(recorder)

	loan, err := identity.NewAssetID([]byte("metrics-loan"))
	require.NoError(t, err)
	collat, err := identity.NewAssetID([]byte("metrics-collat"))
	require.NoError(t, err)
	authority, err := identity.NewAccountID([]byte("metrics-authority"))
	require.NoError(t, err)
	market, err := engine.InitializeMarket(loan, collat, 80_000_000, authority, 0)
	require.NoError(t, err)

	user, err := identity.NewAccountID([]byte("metrics-user"))
	require.NoError(t, err)
	mem.Fund(loan, market.ID, user, 1_000_000_000)

	successBefore := testutil.ToFloat64(recorder.operations.WithLabelValues(market.ID.String(), "supply", "success"))

	_, _, err = engine.Supply(market.ID, user, 100_000_000, 0, 0)
	require.NoError(t, err)

	successAfter := testutil.ToFloat64(recorder.operations.WithLabelValues(market.ID.String(), "supply", "success"))
	require.Equal(t, successBefore+1, successAfter)

	_, _, err = engine.Supply(market.ID, user, 0, 0, 0)
	require.ErrorIs(t, err, lending.ErrInconsistentInput)

	rejected := testutil.ToFloat64(recorder.operations.WithLabelValues(market.ID.String(), "supply", "rejected"))
	require.Equal(t, float64(1), rejected)
}

// TestRecorderObservesInterestAccrual confirms accrued interest is
// credited to the interest counter during a real borrow-then-accrue flow.
func TestRecorderObservesInterestAccrual(t *testing.T) {
	recorder := Default()

	mem := store.NewMemory()
	engine := lending.NewEngine(mem, mem, mem)
	engine.SetMetrics(recorder)

	loan, err := identity.NewAssetID([]byte("metrics-loan-2"))
	require.NoError(t, err)
	collat, err := identity.NewAssetID([]byte("metrics-collat-2"))
	require.NoError(t, err)
	authority, err := identity.NewAccountID([]byte("metrics-authority-2"))
	require.NoError(t, err)
	market, err := engine.InitializeMarket(loan, collat, 80_000_000, authority, 0)
	require.NoError(t, err)

	lender, err := identity.NewAccountID([]byte("metrics-lender-2"))
	require.NoError(t, err)
	mem.Fund(loan, market.ID, lender, 2_000_000_000)
	_, _, err = engine.Supply(market.ID, lender, 2_000_000_000, 0, 0)
	require.NoError(t, err)

	borrower, err := identity.NewAccountID([]byte("metrics-borrower-2"))
	require.NoError(t, err)
	mem.Fund(collat, market.ID, borrower, 10_000_000_000)
	_, _, err = engine.SupplyCollateral(market.ID, borrower, 10_000_000_000, 0)
	require.NoError(t, err)
	_, _, err = engine.Borrow(market.ID, borrower, 1_000_000_000, 0, borrower, oracle.DefaultFixed(), 0)
	require.NoError(t, err)

	before := testutil.ToFloat64(recorder.interest.WithLabelValues(market.ID.String()))

	mem.Fund(loan, market.ID, borrower, 1)
	_, accrueEvt, err := engine.Repay(market.ID, borrower, borrower, 1, 0, 10)
	require.NoError(t, err)
	require.NotNil(t, accrueEvt)

	after := testutil.ToFloat64(recorder.interest.WithLabelValues(market.ID.String()))
	require.Greater(t, after, before)
}
