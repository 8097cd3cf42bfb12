package lending

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLinearModelTenSecondAccrual covers scenario S8.
func TestLinearModelTenSecondAccrual(t *testing.T) {
	interest, err := DefaultLinearModel.Interest(1_000_000_000, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(15), interest)
}

func TestLinearModelZeroInputsAreFree(t *testing.T) {
	interest, err := DefaultLinearModel.Interest(0, 10)
	require.NoError(t, err)
	require.Zero(t, interest)

	interest, err = DefaultLinearModel.Interest(1_000_000, 0)
	require.NoError(t, err)
	require.Zero(t, interest)
}

func TestAccrueRejectsPastTimestamp(t *testing.T) {
	market := &Market{LastUpdate: 100}
	_, err := accrue(market, DefaultLinearModel, 99)
	require.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestAccrueNoOpWhenNoTimeElapsed(t *testing.T) {
	market := &Market{LastUpdate: 100, TotalBorrowAssets: 1_000_000_000}
	evt, err := accrue(market, DefaultLinearModel, 100)
	require.NoError(t, err)
	require.Nil(t, evt)
}

func TestAccrueNoOpWhenNoBorrowOutstanding(t *testing.T) {
	market := &Market{LastUpdate: 100, TotalSupplyAssets: 5_000}
	evt, err := accrue(market, DefaultLinearModel, 200)
	require.NoError(t, err)
	require.Nil(t, evt)
	require.Equal(t, int64(200), market.LastUpdate)
}

// TestAccrueIdempotentOnRepeatedNow covers universal invariant 9.
func TestAccrueIdempotentOnRepeatedNow(t *testing.T) {
	market := &Market{LastUpdate: 100, TotalBorrowAssets: 1_000_000_000, TotalSupplyAssets: 1_000_000_000}
	_, err := accrue(market, DefaultLinearModel, 110)
	require.NoError(t, err)
	snapshot := *market

	evt, err := accrue(market, DefaultLinearModel, 110)
	require.NoError(t, err)
	require.Nil(t, evt)
	require.Equal(t, snapshot, *market)
}

func TestAccrueCreditsBothSupplyAndBorrowTotals(t *testing.T) {
	market := &Market{LastUpdate: 0, TotalBorrowAssets: 1_000_000_000, TotalSupplyAssets: 1_000_000_000}
	evt, err := accrue(market, DefaultLinearModel, 10)
	require.NoError(t, err)
	require.NotNil(t, evt)
	require.Equal(t, uint64(15), evt.Interest)
	require.Equal(t, uint64(1_000_000_015), market.TotalBorrowAssets)
	require.Equal(t, uint64(1_000_000_015), market.TotalSupplyAssets)
}
