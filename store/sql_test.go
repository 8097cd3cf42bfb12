package store_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Im-Sue/Pelago/identity"
	"github.com/Im-Sue/Pelago/lending"
	"github.com/Im-Sue/Pelago/store"
)

// memorySqliteDSN returns a shared-cache in-memory sqlite DSN unique to
// this test run, matching the teacher repository's own
// services/otc-gateway/server_test.go setupTestDB pattern.
func memorySqliteDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

func TestSQLMarketRoundTrip(t *testing.T) {
	db, err := store.Open(memorySqliteDSN())
	require.NoError(t, err)

	loan, err := identity.NewAssetID([]byte("sql-loan"))
	require.NoError(t, err)
	collat, err := identity.NewAssetID([]byte("sql-collat"))
	require.NoError(t, err)
	authority, err := identity.NewAccountID([]byte("sql-authority"))
	require.NoError(t, err)
	marketID := identity.DeriveMarketID(loan, collat)

	market := &lending.Market{
		ID:                marketID,
		LoanAssetID:       loan,
		CollateralAssetID: collat,
		LLTV:              80_000_000,
		TotalSupplyAssets: 100_000_000,
		TotalSupplyShares: 100_000_000_000_000,
		TotalBorrowAssets: 40_000_000,
		TotalBorrowShares: 40_000_000_000_000,
		LastUpdate:        42,
		Authority:         authority,
	}
	require.NoError(t, db.PutMarket(market))

	loaded, err := db.GetMarket(marketID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, market.ID, loaded.ID)
	require.Equal(t, market.LoanAssetID, loaded.LoanAssetID)
	require.Equal(t, market.CollateralAssetID, loaded.CollateralAssetID)
	require.Equal(t, market.LLTV, loaded.LLTV)
	require.Equal(t, market.TotalSupplyAssets, loaded.TotalSupplyAssets)
	require.Equal(t, market.TotalSupplyShares, loaded.TotalSupplyShares)
	require.Equal(t, market.TotalBorrowAssets, loaded.TotalBorrowAssets)
	require.Equal(t, market.TotalBorrowShares, loaded.TotalBorrowShares)
	require.Equal(t, market.LastUpdate, loaded.LastUpdate)
	require.Equal(t, market.Authority, loaded.Authority)

	market.TotalBorrowAssets = 55_000_000
	require.NoError(t, db.PutMarket(market))
	reloaded, err := db.GetMarket(marketID)
	require.NoError(t, err)
	require.Equal(t, uint64(55_000_000), reloaded.TotalBorrowAssets)
}

func TestSQLGetMarketMissingReturnsNilNil(t *testing.T) {
	db, err := store.Open(memorySqliteDSN())
	require.NoError(t, err)

	unknown, err := identity.NewAssetID([]byte("sql-nowhere"))
	require.NoError(t, err)
	marketID := identity.DeriveMarketID(unknown, unknown)

	market, err := db.GetMarket(marketID)
	require.NoError(t, err)
	require.Nil(t, market)
}

func TestSQLUserPositionRoundTrip(t *testing.T) {
	db, err := store.Open(memorySqliteDSN())
	require.NoError(t, err)

	loan, err := identity.NewAssetID([]byte("sql-loan-2"))
	require.NoError(t, err)
	collat, err := identity.NewAssetID([]byte("sql-collat-2"))
	require.NoError(t, err)
	marketID := identity.DeriveMarketID(loan, collat)
	user, err := identity.NewAccountID([]byte("sql-user"))
	require.NoError(t, err)

	position := &lending.UserPosition{
		MarketID:         marketID,
		UserID:           user,
		SupplyShares:     500_000,
		BorrowShares:     250_000,
		CollateralAmount: 10_000_000,
	}
	require.NoError(t, db.PutUserPosition(position))

	loaded, err := db.GetUserPosition(marketID, user)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, position.MarketID, loaded.MarketID)
	require.Equal(t, position.UserID, loaded.UserID)
	require.Equal(t, position.SupplyShares, loaded.SupplyShares)
	require.Equal(t, position.BorrowShares, loaded.BorrowShares)
	require.Equal(t, position.CollateralAmount, loaded.CollateralAmount)
}

func TestSQLGetUserPositionMissingReturnsNilNil(t *testing.T) {
	db, err := store.Open(memorySqliteDSN())
	require.NoError(t, err)

	unknown, err := identity.NewAssetID([]byte("sql-nowhere-2"))
	require.NoError(t, err)
	marketID := identity.DeriveMarketID(unknown, unknown)
	user, err := identity.NewAccountID([]byte("sql-stranger"))
	require.NoError(t, err)

	position, err := db.GetUserPosition(marketID, user)
	require.NoError(t, err)
	require.Nil(t, position)
}

// TestSQLStoreWiredIntoEngine exercises store.SQL as the engine's
// MarketStore/PositionStore through a real Supply operation, not just as
// a standalone persistence round trip.
func TestSQLStoreWiredIntoEngine(t *testing.T) {
	db, err := store.Open(memorySqliteDSN())
	require.NoError(t, err)
	mem := store.NewMemory()
	engine := lending.NewEngine(db, db, mem)

	loan, err := identity.NewAssetID([]byte("sql-engine-loan"))
	require.NoError(t, err)
	collat, err := identity.NewAssetID([]byte("sql-engine-collat"))
	require.NoError(t, err)
	authority, err := identity.NewAccountID([]byte("sql-engine-authority"))
	require.NoError(t, err)
	market, err := engine.InitializeMarket(loan, collat, 80_000_000, authority, 0)
	require.NoError(t, err)

	user, err := identity.NewAccountID([]byte("sql-engine-user"))
	require.NoError(t, err)
	mem.Fund(loan, market.ID, user, 1_000_000_000)

	evt, _, err := engine.Supply(market.ID, user, 100_000_000, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(100_000_000), evt.Assets)

	persisted, err := db.GetMarket(market.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(100_000_000), persisted.TotalSupplyAssets)
}
