package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/notifyhub/decision-notifier/internal/api/handler"
	apimw "github.com/notifyhub/decision-notifier/internal/api/middleware"
	"github.com/notifyhub/decision-notifier/internal/service"
)

// NewRouter wires the chi router for the local harness: both pipeline
// stages behind HTTP, plus health and Prometheus endpoints.
func NewRouter(
	relay *service.RelayService,
	dispatch *service.DispatchService,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestSize(6 << 20)) // Lambda's synchronous payload limit
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(logger))

	eh := handler.NewEventHandler(relay, dispatch, logger)
	hh := handler.NewHealthHandler()

	r.Get("/health", hh.Health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/relay", eh.Relay)
		r.Post("/dispatch", eh.Dispatch)
	})

	return r
}
