package core

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001
	// ErrTraceApplied the trace id has been applied to the ledger before
	ErrTraceApplied ErrorCode = 100002

	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrInsufficientCollateral borrow would exceed the max borrowable value
	ErrInsufficientCollateral ErrorCode = 100104
	// ErrOverRepayment nothing to repay
	ErrOverRepayment ErrorCode = 100105
	// ErrOutstandingDebt close with debt
	ErrOutstandingDebt ErrorCode = 100106
	// ErrNotLiquidatable account is not in liquidation status
	ErrNotLiquidatable ErrorCode = 100107
	// ErrInvalidPrice invalid price
	ErrInvalidPrice ErrorCode = 100108
	// ErrExcessiveLiquidationAmount repay over debt or seize over collateral
	ErrExcessiveLiquidationAmount ErrorCode = 100109
	// ErrStalePrice price older than the freshness window
	ErrStalePrice ErrorCode = 100110
	// ErrBorrowOutOfRange borrow amount outside of the configured range
	ErrBorrowOutOfRange ErrorCode = 100111

	// ErrInvalidConfiguration invalid market configuration
	ErrInvalidConfiguration ErrorCode = 100200
	// ErrMarketNotInitialized market not initialized
	ErrMarketNotInitialized ErrorCode = 100201
	// ErrMarketInitialized market already initialized
	ErrMarketInitialized ErrorCode = 100202

	// ErrUnparseableMessage transfer msg can not be parsed
	ErrUnparseableMessage ErrorCode = 100300
	// ErrUnsupportedAsset transfer asset is not accepted for the msg
	ErrUnsupportedAsset ErrorCode = 100301
	// ErrAssetTransferFailed external transfer did not complete
	ErrAssetTransferFailed ErrorCode = 100302
)

var codeNames = map[ErrorCode]string{
	ErrUnknown:                    "Unknown",
	ErrOperationForbidden:         "OperationForbidden",
	ErrTraceApplied:               "TraceApplied",
	ErrInvalidAmount:              "InvalidAmount",
	ErrInsufficientCollateral:     "InsufficientCollateral",
	ErrOverRepayment:              "OverRepayment",
	ErrOutstandingDebt:            "OutstandingDebt",
	ErrNotLiquidatable:            "NotLiquidatable",
	ErrInvalidPrice:               "InvalidPrice",
	ErrExcessiveLiquidationAmount: "ExcessiveLiquidationAmount",
	ErrStalePrice:                 "StalePrice",
	ErrBorrowOutOfRange:           "BorrowOutOfRange",
	ErrInvalidConfiguration:       "InvalidConfiguration",
	ErrMarketNotInitialized:       "MarketNotInitialized",
	ErrMarketInitialized:          "MarketInitialized",
	ErrUnparseableMessage:         "UnparseableMessage",
	ErrUnsupportedAsset:           "UnsupportedAsset",
	ErrAssetTransferFailed:        "AssetTransferFailed",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// Name readable kind of the code
func (e ErrorCode) Name() string {
	if name, ok := codeNames[e]; ok {
		return name
	}

	return codeNames[ErrUnknown]
}

// Error structured rejection, identifies the kind and the account/amount involved
type Error struct {
	Code      ErrorCode
	AccountID string
	Amount    decimal.Decimal
	Reason    string
	Err       error
}

// NewError new structured error
func NewError(code ErrorCode, accountID string, amount decimal.Decimal, reason string) *Error {
	return &Error{
		Code:      code,
		AccountID: accountID,
		Amount:    amount,
		Reason:    reason,
	}
}

// WrapError new structured error caused by err
func WrapError(code ErrorCode, accountID string, amount decimal.Decimal, err error) *Error {
	e := NewError(code, accountID, amount, "")
	e.Err = err
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s(%d): account=%s amount=%s", e.Code.Name(), int(e.Code), e.AccountID, e.Amount)
	if e.Reason != "" {
		msg += " " + e.Reason
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap return the cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is match by code, errors.Is(err, core.ErrStalePrice)
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorCode:
		return e.Code == t
	case *Error:
		return e.Code == t.Code
	}

	return false
}

// IsRejection err rejects the request itself, trying again can not change the outcome
//
// Unknown errors (storage failures, version conflicts) are not rejections.
func IsRejection(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Code != ErrUnknown && e.Code != ErrAssetTransferFailed
}
