package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/pkg/id"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// payRequestsHandler pay url of a transfer carrying one of the inbound msgs
func payRequestsHandler(markets core.MarketService, payer Payer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Action    string          `json:"action" valid:"in(collateralize|repay|close|liquidate),required"`
			Amount    decimal.Decimal `json:"amount"`
			AccountID string          `json:"account_id"`
			TraceID   string          `json:"trace_id" valid:"uuid"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		if !number.IsAmount(params.Amount) {
			render.Error(w, core.NewError(core.ErrInvalidAmount, params.AccountID, params.Amount, "amount must be a positive integer"))
			return
		}

		market, err := markets.Configuration(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		transfer, err := core.PayTransfer(market, params.Action, params.AccountID, params.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		transfer.TraceID = params.TraceID
		if transfer.TraceID == "" {
			transfer.TraceID = id.GenTraceID()
		}

		url, err := payer.PaySchemaURL(ctx, transfer)
		if err != nil {
			render.Error(w, core.WrapError(core.ErrAssetTransferFailed, params.AccountID, params.Amount, err))
			return
		}

		render.JSON(w, render.H{
			"url":      url,
			"transfer": transfer,
		})
	}
}
