// SQL persistence for markets and positions, grounded on the teacher
// repository's services/otc-gateway/models package: gorm struct tags for
// schema, a dedicated row type per domain struct, and gorm.Open(sqlite...)
// wiring for both production and test use.
package store

import (
	"errors"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Im-Sue/Pelago/identity"
	"github.com/Im-Sue/Pelago/lending"
)

// marketRow is the gorm-mapped row for a lending.Market. Identifiers are
// stored via their bech32 string encoding so the table stays human
// readable and portable across identity-package internal representation
// changes.
type marketRow struct {
	ID                string `gorm:"primaryKey"`
	LoanAssetID       string `gorm:"index"`
	CollateralAssetID string `gorm:"index"`
	LLTV              uint64
	TotalSupplyAssets uint64
	TotalSupplyShares uint64
	TotalBorrowAssets uint64
	TotalBorrowShares uint64
	LastUpdate        int64
	Authority         string
}

func (marketRow) TableName() string { return "lending_markets" }

// positionRow is the gorm-mapped row for a lending.UserPosition.
type positionRow struct {
	MarketID         string `gorm:"primaryKey"`
	UserID           string `gorm:"primaryKey"`
	SupplyShares     uint64
	BorrowShares     uint64
	CollateralAmount uint64
}

func (positionRow) TableName() string { return "lending_positions" }

// SQL is a gorm-backed implementation of lending.MarketStore and
// lending.PositionStore. It does not implement lending.AssetTransfer:
// custody belongs to whatever vault integration a deployment wires in, so
// a SQL deployment pairs this store with a separate AssetTransfer rather
// than one derived from this package.
type SQL struct {
	db *gorm.DB
}

var (
	_ lending.MarketStore   = (*SQL)(nil)
	_ lending.PositionStore = (*SQL)(nil)
)

// Open opens (creating if necessary) a sqlite database at dsn and
// migrates the lending schema into it.
func Open(dsn string) (*SQL, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&marketRow{}, &positionRow{}); err != nil {
		return nil, err
	}
	return &SQL{db: db}, nil
}

func toMarketRow(market *lending.Market) marketRow {
	return marketRow{
		ID:                market.ID.String(),
		LoanAssetID:       market.LoanAssetID.String(),
		CollateralAssetID: market.CollateralAssetID.String(),
		LLTV:              market.LLTV,
		TotalSupplyAssets: market.TotalSupplyAssets,
		TotalSupplyShares: market.TotalSupplyShares,
		TotalBorrowAssets: market.TotalBorrowAssets,
		TotalBorrowShares: market.TotalBorrowShares,
		LastUpdate:        market.LastUpdate,
		Authority:         market.Authority.String(),
	}
}

func fromMarketRow(row marketRow) (*lending.Market, error) {
	marketID, err := identity.DecodeMarketID(row.ID)
	if err != nil {
		return nil, err
	}
	loanAsset, err := identity.DecodeAssetID(row.LoanAssetID)
	if err != nil {
		return nil, err
	}
	collateralAsset, err := identity.DecodeAssetID(row.CollateralAssetID)
	if err != nil {
		return nil, err
	}
	authority, err := identity.DecodeAccountID(row.Authority)
	if err != nil {
		return nil, err
	}
	return &lending.Market{
		ID:                marketID,
		LoanAssetID:       loanAsset,
		CollateralAssetID: collateralAsset,
		LLTV:              row.LLTV,
		TotalSupplyAssets: row.TotalSupplyAssets,
		TotalSupplyShares: row.TotalSupplyShares,
		TotalBorrowAssets: row.TotalBorrowAssets,
		TotalBorrowShares: row.TotalBorrowShares,
		LastUpdate:        row.LastUpdate,
		Authority:         authority,
	}, nil
}

// GetMarket implements lending.MarketStore.
func (s *SQL) GetMarket(id identity.MarketID) (*lending.Market, error) {
	var row marketRow
	err := s.db.First(&row, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromMarketRow(row)
}

// PutMarket implements lending.MarketStore. The row's primary key is the
// deterministic market id, always non-zero, so a plain Save would read as
// an update of a row that does not exist yet and silently affect nothing;
// an explicit upsert is required on first write.
func (s *SQL) PutMarket(market *lending.Market) error {
	if market == nil {
		return nil
	}
	row := toMarketRow(market)
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// GetUserPosition implements lending.PositionStore.
func (s *SQL) GetUserPosition(marketID identity.MarketID, user identity.AccountID) (*lending.UserPosition, error) {
	var row positionRow
	err := s.db.First(&row, "market_id = ? AND user_id = ?", marketID.String(), user.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	marketIDValue, err := identity.DecodeMarketID(row.MarketID)
	if err != nil {
		return nil, err
	}
	userIDValue, err := identity.DecodeAccountID(row.UserID)
	if err != nil {
		return nil, err
	}
	return &lending.UserPosition{
		MarketID:         marketIDValue,
		UserID:           userIDValue,
		SupplyShares:     row.SupplyShares,
		BorrowShares:     row.BorrowShares,
		CollateralAmount: row.CollateralAmount,
	}, nil
}

// PutUserPosition implements lending.PositionStore. See PutMarket for why
// this is an explicit upsert rather than a plain Save.
func (s *SQL) PutUserPosition(position *lending.UserPosition) error {
	if position == nil {
		return nil
	}
	row := positionRow{
		MarketID:         position.MarketID.String(),
		UserID:           position.UserID.String(),
		SupplyShares:     position.SupplyShares,
		BorrowShares:     position.BorrowShares,
		CollateralAmount: position.CollateralAmount,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "market_id"}, {Name: "user_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}
