package rest

import (
	"context"
	"net/http"

	"lending/core"
	"lending/handler/auth"
	"lending/handler/render"

	"github.com/go-chi/chi"
)

// Payer build a pay url for a transfer to the market
type Payer interface {
	PaySchemaURL(ctx context.Context, transfer *core.Transfer) (string, error)
}

// Services backing the rest api
type Services struct {
	Markets  core.MarketService
	Oracle   core.PriceOracle
	Accounts core.AccountService
	Borrows  core.BorrowService
	Payer    Payer
	IsAdmin  func(userID string) bool
}

// Handle handle rest api request
func Handle(s Services) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w)
	})

	router.Get("/configuration", configurationHandler(s.Markets))
	router.Get("/prices", pricesHandler(s.Oracle))
	router.Get("/borrows", listBorrowsHandler(s.Accounts))
	router.Get("/borrows/{account}/status", borrowStatusHandler(s.Accounts))
	router.Get("/loans", allLoansHandler(s.Accounts))
	router.Get("/loans/{account}", loanHandler(s.Accounts))

	router.Group(func(r chi.Router) {
		r.Use(auth.LoginRequired)

		r.Get("/me", meHandler(s.Accounts))
		r.Post("/collaterals", depositHandler(s.Borrows))
		r.Post("/borrows", borrowHandler(s.Borrows))
		r.Post("/close", closeHandler(s.Borrows))
		r.Post("/pay-requests", payRequestsHandler(s.Markets, s.Payer))
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.AdminRequired(s.IsAdmin))

		r.Post("/market", initMarketHandler(s.Markets))
	})

	return router
}
