// Package identity provides the opaque account, asset, and market
// identifiers used throughout the lending engine. The core treats these as
// bare identifiers; this package only adds a stable, human-readable
// encoding on top of them for logs and events.
package identity

import (
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	"lukechampine.com/blake3"
)

// rawLen is the fixed width of every identifier in this package.
const rawLen = 20

// Prefix is the human-readable bech32 prefix distinguishing identifier
// classes in logs and events.
type Prefix string

const (
	AccountPrefix Prefix = "lend"
	AssetPrefix   Prefix = "asset"
	MarketPrefix  Prefix = "mkt"
)

// raw is the shared representation behind AccountID, AssetID, and MarketID.
// Each of those is a distinct defined type wrapping raw, so the compiler
// rejects accidental mixing (e.g. passing an AssetID where an AccountID is
// wanted) even though the underlying bytes are handled identically.
type raw struct {
	prefix Prefix
	bytes  [rawLen]byte
}

func newRaw(prefix Prefix, b []byte) (raw, error) {
	if len(b) > rawLen {
		return raw{}, fmt.Errorf("identity: raw identifier exceeds %d bytes", rawLen)
	}
	var r raw
	r.prefix = prefix
	copy(r.bytes[rawLen-len(b):], b)
	return r, nil
}

func (r raw) Bytes() []byte {
	out := make([]byte, rawLen)
	copy(out, r.bytes[:])
	return out
}

func (r raw) Prefix() Prefix { return r.prefix }

func (r raw) IsZero() bool {
	if r.prefix != "" {
		return false
	}
	for _, b := range r.bytes {
		if b != 0 {
			return false
		}
	}
	return true
}

func (r raw) String() string {
	conv, err := bech32.ConvertBits(r.bytes[:], 8, 5, true)
	if err != nil {
		return fmt.Sprintf("%s:invalid", r.prefix)
	}
	encoded, err := bech32.Encode(string(r.prefix), conv)
	if err != nil {
		return fmt.Sprintf("%s:invalid", r.prefix)
	}
	return encoded
}

func decodeRaw(s string) (raw, error) {
	prefix, data, err := bech32.Decode(s)
	if err != nil {
		return raw{}, fmt.Errorf("identity: invalid bech32 string: %w", err)
	}
	b, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return raw{}, fmt.Errorf("identity: error converting bits: %w", err)
	}
	return newRaw(Prefix(prefix), b)
}

// AccountID identifies a user or pool authority.
type AccountID struct{ raw }

// AssetID identifies a loan or collateral asset.
type AssetID struct{ raw }

// MarketID identifies a single isolated (loan asset, collateral asset)
// lending market.
type MarketID struct{ raw }

// NewAccountID wraps up to 20 raw bytes as an AccountID.
func NewAccountID(b []byte) (AccountID, error) {
	r, err := newRaw(AccountPrefix, b)
	return AccountID{r}, err
}

// NewAssetID wraps up to 20 raw bytes as an AssetID.
func NewAssetID(b []byte) (AssetID, error) {
	r, err := newRaw(AssetPrefix, b)
	return AssetID{r}, err
}

// DecodeAccountID parses a bech32-encoded account identifier.
func DecodeAccountID(s string) (AccountID, error) {
	r, err := decodeRaw(s)
	return AccountID{r}, err
}

// DecodeAssetID parses a bech32-encoded asset identifier.
func DecodeAssetID(s string) (AssetID, error) {
	r, err := decodeRaw(s)
	return AssetID{r}, err
}

// DecodeMarketID parses a bech32-encoded market identifier.
func DecodeMarketID(s string) (MarketID, error) {
	r, err := decodeRaw(s)
	return MarketID{r}, err
}

// DeriveMarketID deterministically computes the MarketID for a
// (loan asset, collateral asset) pair. Two initialize_market calls for the
// same pair always collide on the same MarketID.
func DeriveMarketID(loanAsset, collateralAsset AssetID) MarketID {
	h := blake3.Sum256(append(loanAsset.Bytes(), collateralAsset.Bytes()...))
	r, _ := newRaw(MarketPrefix, h[:rawLen])
	return MarketID{r}
}
