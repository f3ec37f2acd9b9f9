package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransferMessage(t *testing.T) {
	for msg, want := range map[string]TransferMessage{
		`{"Liquidate":{"account_id":"alice"}}`: {Type: MessageTypeLiquidate, AccountID: "alice"},
		`"close"`:                              {Type: MessageTypeClose},
		`close`:                                {Type: MessageTypeClose},
		`"Collateralize"`:                      {Type: MessageTypeCollateralize},
		` Repay `:                              {Type: MessageTypeRepay},
	} {
		got, err := ParseTransferMessage(msg)
		require.NoError(t, err, msg)
		assert.Equal(t, want, *got, msg)
	}

	for _, msg := range []string{
		"",
		"liquidate",
		`{"Liquidate":{"account_id":""}}`,
		`{"Liquidate":{}}`,
		`{"Liquidate":"alice"}`,
		`{"Liquidate":{"account_id":"alice"},"Repay":{}}`,
		`{"Close":{}}`,
		`[1,2]`,
	} {
		_, err := ParseTransferMessage(msg)
		assert.True(t, errors.Is(err, ErrUnparseableMessage), msg)
	}
}

func TestLiquidateMessage(t *testing.T) {
	msg := LiquidateMessage("alice")
	assert.Equal(t, `{"Liquidate":{"account_id":"alice"}}`, msg)

	m, err := ParseTransferMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "alice", m.AccountID)
}

func TestPayTransfer(t *testing.T) {
	market := &Market{CollateralAssetID: "c", BorrowAssetID: "b"}
	amount := decimal.NewFromInt(10)

	transfer, err := PayTransfer(market, "collateralize", "", amount)
	require.NoError(t, err)
	assert.Equal(t, "c", transfer.AssetID)
	assert.Equal(t, MsgCollateralize, transfer.Memo)

	transfer, err = PayTransfer(market, "close", "", amount)
	require.NoError(t, err)
	assert.Equal(t, "b", transfer.AssetID)
	assert.Equal(t, MsgClose, transfer.Memo)

	_, err = PayTransfer(market, "liquidate", "", amount)
	assert.True(t, errors.Is(err, ErrUnparseableMessage))

	_, err = PayTransfer(market, "borrow", "", amount)
	assert.True(t, errors.Is(err, ErrUnparseableMessage))
}
