package codes

import (
	"errors"
	"strconv"

	"lending/core"

	"github.com/spf13/cast"
	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"
	// KindKey readable kind of the lending error
	KindKey = "kind"

	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

var twirpCodes = map[core.ErrorCode]twirp.ErrorCode{
	core.ErrOperationForbidden:         twirp.PermissionDenied,
	core.ErrTraceApplied:               twirp.AlreadyExists,
	core.ErrInvalidAmount:              twirp.InvalidArgument,
	core.ErrInsufficientCollateral:     twirp.FailedPrecondition,
	core.ErrOverRepayment:              twirp.FailedPrecondition,
	core.ErrOutstandingDebt:            twirp.FailedPrecondition,
	core.ErrNotLiquidatable:            twirp.FailedPrecondition,
	core.ErrInvalidPrice:               twirp.InvalidArgument,
	core.ErrExcessiveLiquidationAmount: twirp.InvalidArgument,
	core.ErrStalePrice:                 twirp.Unavailable,
	core.ErrBorrowOutOfRange:           twirp.OutOfRange,
	core.ErrInvalidConfiguration:       twirp.InvalidArgument,
	core.ErrMarketNotInitialized:       twirp.FailedPrecondition,
	core.ErrMarketInitialized:          twirp.AlreadyExists,
	core.ErrUnparseableMessage:         twirp.InvalidArgument,
	core.ErrUnsupportedAsset:           twirp.InvalidArgument,
	core.ErrAssetTransferFailed:        twirp.Unavailable,
}

// With with specified error
func With(err error, code int) twirp.Error {
	var twerr twirp.Error
	if !errors.As(err, &twerr) {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// From convert err into a twirp error, lending errors keep their code
func From(err error) twirp.Error {
	var twerr twirp.Error
	if errors.As(err, &twerr) {
		if twerr.Meta(CustomCodeKey) == "" {
			twerr = twerr.WithMeta(CustomCodeKey, strconv.Itoa(Get(twerr.Code())))
		}
		return twerr
	}

	var e *core.Error
	if !errors.As(err, &e) {
		return With(err, int(core.ErrUnknown))
	}

	code, ok := twirpCodes[e.Code]
	if !ok {
		code = twirp.Internal
	}

	twerr = twirp.NewError(code, e.Error())
	twerr = twerr.WithMeta(KindKey, e.Code.Name())
	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(int(e.Code)))
}

// Code custom code carried by twerr
func Code(twerr twirp.Error) int {
	if v := twerr.Meta(CustomCodeKey); v != "" {
		return cast.ToInt(v)
	}

	return Get(twerr.Code())
}

// Get get error code
func Get(code twirp.ErrorCode) int {
	switch code {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(code)
	}
}

// Status http status of twerr
func Status(twerr twirp.Error) int {
	return twirp.ServerHTTPStatusFromErrorCode(twerr.Code())
}
