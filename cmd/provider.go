package cmd

import (
	"lending/core"
	"lending/internal/ledger"
	"lending/pkg/concurrency"
	"lending/service/account"
	"lending/service/borrow"
	"lending/service/liquidation"
	marketservice "lending/service/market"
	"lending/service/oracle"
	"lending/service/session"
	"lending/service/user"
	walletservice "lending/service/wallet"
	"lending/store/market"
	"lending/store/position"
	"lending/store/snapshot"
	"lending/store/transfer"
	"lending/worker"
	"lending/worker/payee"
	"lending/worker/storemanager"
	transferworker "lending/worker/transfer"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

func provideWallet() *core.Wallet {
	c, err := mixin.NewFromKeystore(&cfg.MainWallet.Keystore)
	if err != nil {
		panic(err)
	}

	return &core.Wallet{
		Client: c,
		Pin:    cfg.MainWallet.Pin,
	}
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func providePositionStore(db *db.DB) core.PositionStore {
	return position.New(db)
}

func provideSnapshotStore(db *db.DB) core.SnapshotStore {
	return snapshot.New(db)
}

func provideTransferStore(db *db.DB) core.TransferStore {
	return transfer.New(db)
}

func provideMarketStore(db *db.DB) core.MarketStore {
	return market.Cache(market.New(db), cfg.App.CacheTTL)
}

// ------------------service------------------------------------

func provideWalletService(wallet *core.Wallet) *walletservice.Service {
	return walletservice.New(wallet)
}

func provideMarketService(markets core.MarketStore) core.MarketService {
	return marketservice.New(markets, cfg.Market)
}

func providePriceOracle(markets core.MarketService) core.PriceOracle {
	o, err := oracle.New(cfg.PriceOracle, markets)
	if err != nil {
		panic(err)
	}

	return o
}

func provideSession() core.Session {
	return session.New(user.New(), cfg.App.SessionCapacity)
}

func provideLedger(db *db.DB, positions core.PositionStore, snapshots core.SnapshotStore, transfers core.TransferStore) *ledger.Ledger {
	return ledger.New(db, positions, snapshots, transfers)
}

// services holds everything the server and the worker share
//
// The account locker is per process, positions are still guarded by
// their version when the server and the worker run apart.
type services struct {
	db        *db.DB
	property  property.Store
	wallet    *walletservice.Service
	ledger    *ledger.Ledger
	snapshots core.SnapshotStore
	transfers core.TransferStore
	markets   core.MarketService
	oracle    core.PriceOracle
	accounts  core.AccountService
	borrows   core.BorrowService
	liquidate core.LiquidationService
}

func provideServices() *services {
	database := provideDatabase()
	positions := providePositionStore(database)
	snapshots := provideSnapshotStore(database)
	transfers := provideTransferStore(database)
	l := provideLedger(database, positions, snapshots, transfers)
	markets := provideMarketService(provideMarketStore(database))
	priceOracle := providePriceOracle(markets)
	wallet := provideWalletService(provideWallet())
	locker := concurrency.NewKeyLocker()

	return &services{
		db:        database,
		property:  providePropertyStore(database),
		wallet:    wallet,
		ledger:    l,
		snapshots: snapshots,
		transfers: transfers,
		markets:   markets,
		oracle:    priceOracle,
		accounts:  account.New(positions, markets, priceOracle),
		borrows:   borrow.New(l, markets, priceOracle, wallet, locker),
		liquidate: liquidation.New(l, markets, priceOracle, locker),
	}
}

func (s *services) payee() *payee.Payee {
	return payee.New(
		s.wallet,
		s.ledger,
		s.snapshots,
		s.property,
		s.markets,
		s.borrows,
		s.liquidate,
	)
}

// workers inbound transfers, queued outbound transfers and pruning
func (s *services) workers() []worker.Worker {
	return []worker.Worker{
		s.payee(),
		transferworker.New(s.transfers, s.wallet),
		storemanager.New(s.transfers, s.snapshots, cfg.App.Retention),
	}
}
