package hc

import (
	"net/http"
	"time"

	"lending/core"
	"lending/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Handle health check, reports whether the market is initialized
func Handle(ver string, markets core.MarketService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, markets))
	return r
}

func handle(version string, markets core.MarketService) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := markets.Configuration(r.Context())

		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":      uptime.String(),
			"version":     version,
			"initialized": err == nil,
		})
	}
}
