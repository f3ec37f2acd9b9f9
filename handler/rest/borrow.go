package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/handler/request"

	"github.com/shopspring/decimal"
)

type amountParams struct {
	Amount  decimal.Decimal `json:"amount"`
	TraceID string          `json:"trace_id" valid:"uuid,required"`
}

func depositHandler(borrows core.BorrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params amountParams
		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		user, _ := request.UserFrom(r.Context())
		position, err := borrows.DepositCollateral(r.Context(), user.MixinID, params.Amount, params.TraceID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, position)
	}
}

func borrowHandler(borrows core.BorrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params amountParams
		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		user, _ := request.UserFrom(r.Context())
		position, err := borrows.Borrow(r.Context(), user.MixinID, params.Amount, params.TraceID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, position)
	}
}

func closeHandler(borrows core.BorrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			TraceID string `json:"trace_id" valid:"uuid,required"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		user, _ := request.UserFrom(r.Context())
		position, err := borrows.Close(r.Context(), user.MixinID, params.TraceID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, position)
	}
}
