package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"medguard-ai/internal/handlers"
	"medguard-ai/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Diagnoses service.DiagnosisService
	Publisher service.PublishService
	Records   service.RecordService
	Anchors   service.AnchorService
	Pipeline  *service.Pipeline
	Telemetry *service.TelemetryService

	// DB is pinged by the health check.
	DB handlers.Pinger
	// PinningConfigured reports whether real IPFS credentials are set.
	PinningConfigured bool
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(CORS)
	r.Use(LoggerMiddleware)
	r.Use(Identity)
	r.Use(RequestLogger)

	diagnose := handlers.NewDiagnoseHandler(deps.Diagnoses)
	publish := handlers.NewPublishHandler(deps.Publisher)
	records := handlers.NewRecordsHandler(deps.Records)
	anchor := handlers.NewAnchorHandler(deps.Anchors)
	pipeline := handlers.NewPipelineHandler(deps.Pipeline)
	telemetry := handlers.NewTelemetryHandler(deps.Telemetry)
	health := handlers.NewHealthHandler(deps.DB, deps.PinningConfigured)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", health)
		r.Method(http.MethodPost, "/diagnose", diagnose)
		r.Method(http.MethodPost, "/pipeline", pipeline)

		r.Post("/report", publish.Report)
		r.Post("/publish", publish.Publish)
		r.Get("/publish/{hash}", publish.Fetch)

		r.Route("/records", func(r chi.Router) {
			r.Post("/", records.Create)
			r.Get("/", records.List)
			r.Get("/{id}", records.Get)
			r.Get("/{id}/view", records.View)
			r.Patch("/{id}", records.Update)
			r.Delete("/{id}", records.Delete)
		})

		r.Post("/anchor", anchor.Anchor)
		r.Get("/wallet/status", anchor.WalletStatus)
		r.Get("/wallet/balance", anchor.Balance)

		r.Get("/iot-data", telemetry.LatestIoT)
		r.Post("/iot-data", telemetry.RecordIoT)

		r.Get("/profile", telemetry.Profile)
		r.Patch("/profile", telemetry.UpdateProfile)
	})

	return r
}
