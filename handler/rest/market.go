package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
)

func configurationHandler(markets core.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		market, err := markets.Configuration(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, market)
	}
}

func initMarketHandler(markets core.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			LowerCollateralAccounts []string `json:"lower_collateral_accounts"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		market, err := markets.Init(r.Context(), params.LowerCollateralAccounts)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, market)
	}
}

func pricesHandler(oracle core.PriceOracle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		price, err := oracle.Latest(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, price)
	}
}
