package core

import (
	"encoding/json"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"
)

// MessageType kind of an inbound transfer msg
type MessageType int

const (
	_ MessageType = iota
	// MessageTypeLiquidate {"Liquidate": {"account_id": "..."}}
	MessageTypeLiquidate
	// MessageTypeClose "close"
	MessageTypeClose
	// MessageTypeCollateralize "Collateralize"
	MessageTypeCollateralize
	// MessageTypeRepay "Repay"
	MessageTypeRepay
)

// plain msg tags
const (
	MsgClose         = "close"
	MsgCollateralize = "Collateralize"
	MsgRepay         = "Repay"
)

// tags of ledger changes requested without a transfer msg
const (
	MsgBorrow    = "borrow"
	MsgLiquidate = "liquidate"
	MsgRefund    = "refund"
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeLiquidate:
		return "liquidate"
	case MessageTypeClose:
		return "close"
	case MessageTypeCollateralize:
		return "collateralize"
	case MessageTypeRepay:
		return "repay"
	}

	return "unknown"
}

// TransferMessage decoded msg of an inbound transfer
type TransferMessage struct {
	Type MessageType
	// target account of a liquidation
	AccountID string
}

type liquidateMsg struct {
	AccountID string `json:"account_id"`
}

// ParseTransferMessage decode msg, anything else than the known shapes is ErrUnparseableMessage
func ParseTransferMessage(msg string) (*TransferMessage, error) {
	unparseable := NewError(ErrUnparseableMessage, "", decimal.Zero, "msg "+strconvQuote(msg))

	var tag string
	if err := json.Unmarshal([]byte(msg), &tag); err == nil {
		return parseTag(tag, unparseable)
	}

	// bare tags are accepted as well as json strings
	if tm, err := parseTag(strings.TrimSpace(msg), unparseable); err == nil {
		return tm, nil
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal([]byte(msg), &body); err != nil || len(body) != 1 {
		return nil, unparseable
	}

	raw, ok := body["Liquidate"]
	if !ok {
		return nil, unparseable
	}

	var l liquidateMsg
	if err := json.Unmarshal(raw, &l); err != nil || govalidator.IsNull(l.AccountID) {
		return nil, unparseable
	}

	return &TransferMessage{Type: MessageTypeLiquidate, AccountID: l.AccountID}, nil
}

func parseTag(tag string, unparseable error) (*TransferMessage, error) {
	switch tag {
	case MsgClose, "Close":
		return &TransferMessage{Type: MessageTypeClose}, nil
	case MsgCollateralize, "collateralize":
		return &TransferMessage{Type: MessageTypeCollateralize}, nil
	case MsgRepay, "repay":
		return &TransferMessage{Type: MessageTypeRepay}, nil
	}

	return nil, unparseable
}

// LiquidateMessage encode a liquidation msg
func LiquidateMessage(accountID string) string {
	data, _ := json.Marshal(map[string]liquidateMsg{
		"Liquidate": {AccountID: accountID},
	})

	return string(data)
}

func strconvQuote(s string) string {
	if len(s) > 64 {
		s = s[:64] + "..."
	}

	data, _ := json.Marshal(s)
	return string(data)
}

// PayTransfer transfer to the market carrying the msg of action, one of
// collateralize, repay, close or liquidate
func PayTransfer(market *Market, action, accountID string, amount decimal.Decimal) (*Transfer, error) {
	transfer := &Transfer{
		AssetID: market.BorrowAssetID,
		Amount:  amount,
	}

	switch action {
	case "collateralize":
		transfer.AssetID = market.CollateralAssetID
		transfer.Memo = MsgCollateralize
	case "repay":
		transfer.Memo = MsgRepay
	case "close":
		transfer.Memo = MsgClose
	case "liquidate":
		if govalidator.IsNull(accountID) {
			return nil, NewError(ErrUnparseableMessage, accountID, amount, "account required to liquidate")
		}
		transfer.Memo = LiquidateMessage(accountID)
	default:
		return nil, NewError(ErrUnparseableMessage, accountID, amount, "unknown action "+strconvQuote(action))
	}

	return transfer, nil
}
