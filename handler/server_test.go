package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lending/core"
	"lending/handler/rest"
	"lending/internal/ledger"
	"lending/pkg/concurrency"
	"lending/pkg/id"
	"lending/service/account"
	"lending/service/borrow"
	"lending/service/market"
	"lending/service/oracle"
	marketstore "lending/store/market"
	"lending/store/position"
	"lending/store/snapshot"
	"lending/store/storetest"
	"lending/store/transfer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Collect(ctx context.Context, transfer *core.Transfer) error {
	return m.Called(transfer).Error(0)
}

func (m *mockGateway) Send(ctx context.Context, transfer *core.Transfer) error {
	return m.Called(transfer).Error(0)
}

type tokenSession map[string]*core.User

func (s tokenSession) Login(ctx context.Context, accessToken string) (*core.User, error) {
	if user, ok := s[accessToken]; ok {
		return user, nil
	}

	return nil, errors.New("invalid token")
}

type payer struct {
	transfer *core.Transfer
}

func (p *payer) PaySchemaURL(ctx context.Context, transfer *core.Transfer) (string, error) {
	p.transfer = transfer
	return "mixin://codes/" + transfer.TraceID, nil
}

type fixture struct {
	server  *httptest.Server
	oracle  *oracle.Static
	gateway *mockGateway
	payer   *payer
}

func newFixture(t *testing.T) *fixture {
	markets := market.New(marketstore.NewMemory(), core.MarketSpec{
		CollateralAssetID:    "c6d0c728-2624-429b-8e0d-d9d19b6592fa",
		BorrowAssetID:        "4d8c508b-91c5-375b-92b0-ee702ed2dac5",
		CollateralFactor:     decimal.RequireFromString("0.5"),
		LiquidationThreshold: decimal.RequireFromString("0.8"),
		MaxLiquidatorSpread:  decimal.RequireFromString("0.05"),
	})

	f := &fixture{
		oracle: oracle.Fixed(&core.PriceSnapshot{
			CollateralPrice: decimal.NewFromInt(1),
			BorrowPrice:     decimal.NewFromInt(1),
			Timestamp:       time.Now(),
		}, time.Minute),
		gateway: &mockGateway{},
		payer:   &payer{},
	}

	database := storetest.Open(t)
	positions := position.New(database)
	l := ledger.New(database, positions, snapshot.New(database), transfer.New(database))
	session := tokenSession{
		"alice-token": {MixinID: "alice"},
		"admin-token": {MixinID: "admin"},
	}

	s := New(session, rest.Services{
		Markets:  markets,
		Oracle:   f.oracle,
		Accounts: account.New(positions, markets, f.oracle),
		Borrows:  borrow.New(l, markets, f.oracle, f.gateway, concurrency.NewKeyLocker()),
		Payer:    f.payer,
		IsAdmin:  func(userID string) bool { return userID == "admin" },
	})

	f.server = httptest.NewServer(s.HandleRestAPI())
	t.Cleanup(f.server.Close)
	return f
}

type response struct {
	Status int
	Data   json.RawMessage `json:"data"`
	Code   int             `json:"code"`
	Kind   string          `json:"kind"`
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) *response {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	r := &response{Status: resp.StatusCode}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(r))
	return r
}

func (f *fixture) init(t *testing.T) {
	r := f.do(t, http.MethodPost, "/market", "admin-token", nil)
	require.Equal(t, http.StatusOK, r.Status)
}

func TestMarketInit(t *testing.T) {
	f := newFixture(t)

	r := f.do(t, http.MethodGet, "/configuration", "", nil)
	assert.Equal(t, http.StatusPreconditionFailed, r.Status)
	assert.Equal(t, "MarketNotInitialized", r.Kind)
	assert.Equal(t, int(core.ErrMarketNotInitialized), r.Code)

	r = f.do(t, http.MethodPost, "/market", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.Status)

	r = f.do(t, http.MethodPost, "/market", "alice-token", nil)
	assert.Equal(t, http.StatusForbidden, r.Status)

	r = f.do(t, http.MethodPost, "/market", "admin-token", map[string]interface{}{
		"lower_collateral_accounts": []string{"vip"},
	})
	require.Equal(t, http.StatusOK, r.Status)

	var m core.Market
	require.NoError(t, json.Unmarshal(r.Data, &m))
	assert.Equal(t, []string{"vip"}, m.LowerAccounts())
	assert.Equal(t, "0.5", m.WarningThreshold.String())

	r = f.do(t, http.MethodPost, "/market", "admin-token", nil)
	assert.Equal(t, http.StatusConflict, r.Status)
	assert.Equal(t, "MarketInitialized", r.Kind)

	r = f.do(t, http.MethodGet, "/configuration", "", nil)
	assert.Equal(t, http.StatusOK, r.Status)
}

func TestDepositAndBorrow(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	f.gateway.On("Collect", mock.Anything).Return(nil)

	r := f.do(t, http.MethodPost, "/collaterals", "", map[string]interface{}{"amount": "1000", "trace_id": id.GenTraceID()})
	assert.Equal(t, http.StatusUnauthorized, r.Status)

	r = f.do(t, http.MethodPost, "/collaterals", "alice-token", map[string]interface{}{"amount": "1000", "trace_id": "x"})
	assert.Equal(t, http.StatusBadRequest, r.Status)

	r = f.do(t, http.MethodPost, "/collaterals", "alice-token", map[string]interface{}{"amount": "1000", "trace_id": id.GenTraceID()})
	require.Equal(t, http.StatusOK, r.Status)

	var p core.Position
	require.NoError(t, json.Unmarshal(r.Data, &p))
	assert.Equal(t, "1000", p.Collateral.String())

	r = f.do(t, http.MethodPost, "/borrows", "alice-token", map[string]interface{}{"amount": "600", "trace_id": id.GenTraceID()})
	assert.Equal(t, http.StatusPreconditionFailed, r.Status)
	assert.Equal(t, "InsufficientCollateral", r.Kind)

	trace := id.GenTraceID()
	r = f.do(t, http.MethodPost, "/borrows", "alice-token", map[string]interface{}{"amount": "400", "trace_id": trace})
	require.Equal(t, http.StatusOK, r.Status)
	require.NoError(t, json.Unmarshal(r.Data, &p))
	assert.Equal(t, "400", p.Debt.String())

	r = f.do(t, http.MethodPost, "/borrows", "alice-token", map[string]interface{}{"amount": "50", "trace_id": trace})
	assert.Equal(t, http.StatusConflict, r.Status)
	assert.Equal(t, "TraceApplied", r.Kind)

	var status struct {
		Status core.HealthStatus `json:"status"`
	}

	r = f.do(t, http.MethodGet, "/borrows/alice/status", "", nil)
	require.Equal(t, http.StatusOK, r.Status)
	require.NoError(t, json.Unmarshal(r.Data, &status))
	assert.Equal(t, core.HealthStatusHealthy, status.Status)

	r = f.do(t, http.MethodGet, "/borrows/alice/status?collateral_price=1&borrow_price=2", "", nil)
	require.Equal(t, http.StatusOK, r.Status)
	require.NoError(t, json.Unmarshal(r.Data, &status))
	assert.Equal(t, core.HealthStatusLiquidation, status.Status)

	r = f.do(t, http.MethodPost, "/close", "alice-token", map[string]interface{}{"trace_id": id.GenTraceID()})
	assert.Equal(t, http.StatusPreconditionFailed, r.Status)
	assert.Equal(t, "OutstandingDebt", r.Kind)
}

func TestStalePrice(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	f.oracle.Set(&core.PriceSnapshot{
		CollateralPrice: decimal.NewFromInt(1),
		BorrowPrice:     decimal.NewFromInt(1),
		Timestamp:       time.Now().Add(-time.Hour),
	})

	r := f.do(t, http.MethodGet, "/prices", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, r.Status)
	assert.Equal(t, "StalePrice", r.Kind)
}

func TestPayRequests(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	r := f.do(t, http.MethodPost, "/pay-requests", "alice-token", map[string]interface{}{"action": "borrow", "amount": "10"})
	assert.Equal(t, http.StatusBadRequest, r.Status)

	r = f.do(t, http.MethodPost, "/pay-requests", "alice-token", map[string]interface{}{"action": "liquidate", "amount": "10"})
	assert.Equal(t, http.StatusBadRequest, r.Status)

	r = f.do(t, http.MethodPost, "/pay-requests", "alice-token", map[string]interface{}{"action": "repay", "amount": "1.5"})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, "InvalidAmount", r.Kind)

	r = f.do(t, http.MethodPost, "/pay-requests", "alice-token", map[string]interface{}{
		"action":     "liquidate",
		"amount":     "10",
		"account_id": "bob",
	})
	require.Equal(t, http.StatusOK, r.Status)

	msg, err := core.ParseTransferMessage(f.payer.transfer.Memo)
	require.NoError(t, err)
	assert.Equal(t, core.MessageTypeLiquidate, msg.Type)
	assert.Equal(t, "bob", msg.AccountID)
	assert.Equal(t, "4d8c508b-91c5-375b-92b0-ee702ed2dac5", f.payer.transfer.AssetID)

	r = f.do(t, http.MethodPost, "/pay-requests", "alice-token", map[string]interface{}{"action": "collateralize", "amount": "10"})
	require.Equal(t, http.StatusOK, r.Status)
	assert.Equal(t, core.MsgCollateralize, f.payer.transfer.Memo)
	assert.Equal(t, "c6d0c728-2624-429b-8e0d-d9d19b6592fa", f.payer.transfer.AssetID)
}

func TestNotFound(t *testing.T) {
	f := newFixture(t)

	r := f.do(t, http.MethodGet, "/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, r.Status)
}
