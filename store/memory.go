// Package store provides reference implementations of the lending
// engine's persistence and custody collaborators (lending.MarketStore,
// lending.PositionStore, lending.AssetTransfer). Memory is the map-backed
// double used by tests and local experimentation, grounded on the teacher
// repository's mockEngineState pattern (native/lending/engine_accrual_test.go):
// a struct holding plain Go maps keyed by the byte representation of an
// identifier, guarded by a single mutex.
package store

import (
	"sync"

	"github.com/Im-Sue/Pelago/identity"
	"github.com/Im-Sue/Pelago/lending"
)

// Memory is an in-process implementation of MarketStore, PositionStore,
// and AssetTransfer. It is safe for concurrent use; callers that need
// cross-operation atomicity still need to serialize at the Engine call
// site, since Memory only guarantees each individual Get/Put is atomic.
type Memory struct {
	mu        sync.Mutex
	markets   map[string]*lending.Market
	positions map[string]*lending.UserPosition
	balances  map[string]uint64
}

var (
	_ lending.MarketStore   = (*Memory)(nil)
	_ lending.PositionStore = (*Memory)(nil)
	_ lending.AssetTransfer = (*Memory)(nil)
)

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		markets:   make(map[string]*lending.Market),
		positions: make(map[string]*lending.UserPosition),
		balances:  make(map[string]uint64),
	}
}

func marketKey(id identity.MarketID) string {
	return string(id.Bytes())
}

func positionKey(marketID identity.MarketID, user identity.AccountID) string {
	return string(marketID.Bytes()) + "/" + string(user.Bytes())
}

func balanceKey(asset identity.AssetID, market identity.MarketID, account identity.AccountID) string {
	return string(asset.Bytes()) + "/" + string(market.Bytes()) + "/" + string(account.Bytes())
}

// GetMarket implements lending.MarketStore. A copy is returned so the
// caller's mutations never alias the store's own record until PutMarket.
func (m *Memory) GetMarket(id identity.MarketID) (*lending.Market, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	market, ok := m.markets[marketKey(id)]
	if !ok {
		return nil, nil
	}
	clone := *market
	return &clone, nil
}

// PutMarket implements lending.MarketStore.
func (m *Memory) PutMarket(market *lending.Market) error {
	if market == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *market
	m.markets[marketKey(market.ID)] = &clone
	return nil
}

// GetUserPosition implements lending.PositionStore.
func (m *Memory) GetUserPosition(marketID identity.MarketID, user identity.AccountID) (*lending.UserPosition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	position, ok := m.positions[positionKey(marketID, user)]
	if !ok {
		return nil, nil
	}
	clone := *position
	return &clone, nil
}

// PutUserPosition implements lending.PositionStore.
func (m *Memory) PutUserPosition(position *lending.UserPosition) error {
	if position == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *position
	m.positions[positionKey(position.MarketID, position.UserID)] = &clone
	return nil
}

// Fund credits an account's ledger balance for an asset within a market's
// vault, for test setup. It is not part of lending.AssetTransfer.
func (m *Memory) Fund(asset identity.AssetID, market identity.MarketID, account identity.AccountID, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := balanceKey(asset, market, account)
	m.balances[key] += amount
}

// Balance reports an account's ledger balance for an asset within a
// market's vault.
func (m *Memory) Balance(asset identity.AssetID, market identity.MarketID, account identity.AccountID) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[balanceKey(asset, market, account)]
}

// TransferIn implements lending.AssetTransfer by debiting the sender's
// ledger balance. It returns errInsufficientFunds, distinct from the
// engine's own error vocabulary, since custody failures are a
// transport-layer concern the spec leaves to the AssetTransfer
// implementation.
func (m *Memory) TransferIn(asset identity.AssetID, market identity.MarketID, from identity.AccountID, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := balanceKey(asset, market, from)
	if m.balances[key] < amount {
		return errInsufficientFunds
	}
	m.balances[key] -= amount
	return nil
}

// TransferOut implements lending.AssetTransfer by crediting the
// receiver's ledger balance out of the vault. Memory tracks no separate
// vault account; credits are simply minted to the receiver, matching the
// teacher's reference test doubles which never model a real token supply.
func (m *Memory) TransferOut(asset identity.AssetID, market identity.MarketID, to identity.AccountID, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := balanceKey(asset, market, to)
	m.balances[key] += amount
	return nil
}
