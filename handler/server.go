package handler

import (
	"net/http"

	"lending/core"
	"lending/handler/auth"
	"lending/handler/rest"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server server
type Server struct {
	session  core.Session
	services rest.Services
}

// New new server function
func New(session core.Session, services rest.Services) Server {
	return Server{
		session:  session,
		services: services,
	}
}

// HandleRestAPI handle restful apis, bearer tokens are resolved into users first
func (s Server) HandleRestAPI() http.Handler {
	return auth.HandleAuthentication(s.session)(rest.Handle(s.services))
}

// HandleMetrics prometheus metrics
func (s Server) HandleMetrics() http.Handler {
	return promhttp.Handler()
}
