package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/handlers"
	appmw "github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/middleware"
)

const serviceName = "organizer-service"

func New(
	h *handlers.EventsHandler,
	auth *appmw.AuthMiddleware,
	z *handlers.HealthHandler,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(appmw.RequestID)
	r.Use(appmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appmw.Tracing(serviceName))
	r.Use(appmw.Metrics)
	r.Use(appmw.AccessLog)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", z.Healthz)
	r.Get("/readyz", z.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.Require)

		r.Get("/dashboard", h.Dashboard)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/create", h.CreateForm)

			r.Route("/{event_id}", func(r chi.Router) {
				r.Get("/", h.Show)
				r.Put("/", h.Update)
				r.Patch("/", h.Update)
				r.Delete("/", h.Delete)
				r.Get("/edit", h.Edit)
				r.Get("/registrations", h.Registrations)
			})
		})
	})

	return r
}
