package oracle

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"lending/core"
	"lending/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/pandodao/blst"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Option oracle option
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replace time.Now, the freshness window is measured against it
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

type priceOracle struct {
	cfg     core.PriceOracleConfig
	markets core.MarketService
	verify  *blst.PublicKey
	options
}

// New oracle backed by the ticker api at cfg.EndPoint
//
// When cfg.VerifyKey is set, every ticker must carry a signature of that key.
func New(cfg core.PriceOracleConfig, markets core.MarketService, opts ...Option) (core.PriceOracle, error) {
	o := &priceOracle{
		cfg:     cfg,
		markets: markets,
		options: newOptions(opts),
	}

	if cfg.VerifyKey != "" {
		pub, err := decodePublicKey(cfg.VerifyKey)
		if err != nil {
			return nil, fmt.Errorf("decode verify key: %w", err)
		}

		o.verify = pub
	}

	return o, nil
}

func decodePublicKey(s string) (*blst.PublicKey, error) {
	bts, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	pub := blst.PublicKey{}
	if err := pub.FromBytes(bts); err != nil {
		return nil, err
	}

	return &pub, nil
}

func (o *priceOracle) Latest(ctx context.Context) (*core.PriceSnapshot, error) {
	market, err := o.markets.Configuration(ctx)
	if err != nil {
		return nil, err
	}

	collateral, err := o.pullTicker(ctx, market.CollateralAssetID)
	if err != nil {
		return nil, err
	}

	borrow, err := o.pullTicker(ctx, market.BorrowAssetID)
	if err != nil {
		return nil, err
	}

	// the snapshot is as old as its oldest price
	snapshot := &core.PriceSnapshot{
		CollateralPrice: collateral.Price,
		BorrowPrice:     borrow.Price,
		Timestamp:       time.Unix(min(collateral.Timestamp, borrow.Timestamp), 0),
		Sequence:        min(collateral.Sequence, borrow.Sequence),
	}

	return snapshot, check(snapshot, o.now(), o.cfg.FreshnessWindow)
}

func (o *priceOracle) pullTicker(ctx context.Context, assetID string) (*core.PriceTicker, error) {
	log := logger.FromContext(ctx).WithField("asset", assetID)

	url := fmt.Sprintf("%s/api/v2/tickers/%s", o.cfg.EndPoint, assetID)
	var ticker core.PriceTicker
	if err := resthttp.Get(ctx, url, &ticker); err != nil {
		log.WithError(err).Errorln("pull price ticker")
		return nil, core.WrapError(core.ErrInvalidPrice, "", decimal.Zero, err)
	}

	if ticker.AssetID != assetID {
		return nil, core.NewError(core.ErrInvalidPrice, "", decimal.Zero, "unexpected ticker asset "+ticker.AssetID)
	}

	if o.verify != nil && !verifyTicker(&ticker, o.verify) {
		log.WithFields(logrus.Fields{
			"price":     ticker.Price,
			"timestamp": ticker.Timestamp,
		}).Errorln("price ticker verify failed")
		return nil, core.NewError(core.ErrInvalidPrice, "", decimal.Zero, "invalid ticker signature")
	}

	return &ticker, nil
}

func verifyTicker(t *core.PriceTicker, pub *blst.PublicKey) bool {
	bts, err := base64.StdEncoding.DecodeString(t.Signature)
	if err != nil || len(bts) == 0 {
		return false
	}

	sig := blst.Signature{}
	if err := sig.FromBytes(bts); err != nil {
		return false
	}

	return pub.Verify(t.Payload(), &sig)
}

func check(snapshot *core.PriceSnapshot, now time.Time, window time.Duration) error {
	if !snapshot.Valid() {
		return core.NewError(core.ErrInvalidPrice, "", decimal.Zero, "prices must be positive")
	}

	if snapshot.Stale(now, window) {
		return core.NewError(core.ErrStalePrice, "", decimal.Zero,
			fmt.Sprintf("price at %s older than %s", snapshot.Timestamp.UTC().Format(time.RFC3339), window))
	}

	return nil
}

// IsPriceError the error is caused by the price feed
func IsPriceError(err error) bool {
	return errors.Is(err, core.ErrStalePrice) || errors.Is(err, core.ErrInvalidPrice)
}

func min(a, b int64) int64 {
	if a < b {
		return a
	}

	return b
}
