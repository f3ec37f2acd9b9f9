package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/handler/request"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

// priceParams optional caller supplied prices, both or none
type priceParams struct {
	CollateralPrice decimal.Decimal `json:"collateral_price"`
	BorrowPrice     decimal.Decimal `json:"borrow_price"`
}

func (p priceParams) snapshot() *core.PriceSnapshot {
	if p.CollateralPrice.IsZero() && p.BorrowPrice.IsZero() {
		return nil
	}

	return &core.PriceSnapshot{
		CollateralPrice: p.CollateralPrice,
		BorrowPrice:     p.BorrowPrice,
	}
}

func listBorrowsHandler(accounts core.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		ids, err := accounts.ListBorrows(r.Context(), params.Offset, params.Limit)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"accounts": ids})
	}
}

func borrowStatusHandler(accounts core.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params priceParams
		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		accountID := chi.URLParam(r, "account")
		status, err := accounts.BorrowStatus(r.Context(), accountID, params.snapshot())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"account_id": accountID,
			"status":     status,
		})
	}
}

func loanHandler(accounts core.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params priceParams
		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		loan, err := accounts.Loan(r.Context(), chi.URLParam(r, "account"), params.snapshot())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, loan)
	}
}

func allLoansHandler(accounts core.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params priceParams
		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		loans, err := accounts.AllLoans(r.Context(), params.snapshot())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"loans": loans})
	}
}

func meHandler(accounts core.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := request.UserFrom(r.Context())

		loan, err := accounts.Loan(r.Context(), user.MixinID, nil)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"user": user,
			"loan": loan,
		})
	}
}
