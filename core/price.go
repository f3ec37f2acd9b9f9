package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot prices of both assets in a common numeraire
type PriceSnapshot struct {
	CollateralPrice decimal.Decimal `json:"collateral_price"`
	BorrowPrice     decimal.Decimal `json:"borrow_price"`
	Timestamp       time.Time       `json:"timestamp"`
	Sequence        int64           `json:"sequence"`
}

// Valid both prices are positive
func (p *PriceSnapshot) Valid() bool {
	return p != nil && p.CollateralPrice.IsPositive() && p.BorrowPrice.IsPositive()
}

// Stale the snapshot is older than window at now, a zero window never expires
func (p *PriceSnapshot) Stale(now time.Time, window time.Duration) bool {
	if window <= 0 {
		return false
	}

	return now.Sub(p.Timestamp) > window
}

// PriceTicker price ticker of one asset
type PriceTicker struct {
	AssetID   string          `json:"asset_id,omitempty"`
	Price     decimal.Decimal `json:"price,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
	Sequence  int64           `json:"sequence,omitempty"`
	// base64 blst signature over Payload, optional
	Signature string `json:"signature,omitempty"`
}

// Payload signed content of the ticker
func (t *PriceTicker) Payload() []byte {
	return []byte(fmt.Sprintf("%s:%s:%d:%d", t.AssetID, t.Price.String(), t.Timestamp, t.Sequence))
}

// PriceOracle price oracle adapter
//
// Latest fails with ErrStalePrice when the feed is older than the freshness window.
type PriceOracle interface {
	Latest(ctx context.Context) (*PriceSnapshot, error)
}
