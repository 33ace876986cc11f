package server

import (
	"log"

	"finderqr/internal/handlers"
	"finderqr/internal/metrics"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes() {
	// Initialize handlers
	formHandler := handlers.NewFormHandler(s.Cfg)
	exportHandler := handlers.NewExportHandler(s.Cfg, s.Renderer)
	probeHandler := handlers.NewProbeHandler(s.Storage, s.Renderer)

	// Probes
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)

	if s.Cfg.MetricsEnabled {
		metrics.Init()
		s.App.Get("/metrics", metrics.Handler())
		log.Println("Prometheus metrics enabled on /metrics")
	}

	// Form
	s.App.Get("/", formHandler.Index)
	s.App.Post("/form/:field", formHandler.Field)
	s.App.Post("/generate", formHandler.Generate)

	// Export
	s.App.Get("/qr.png", exportHandler.Image)
	s.App.Get("/print", exportHandler.Print)
	s.App.Post("/share", exportHandler.Share)
	s.App.Post("/share/result", exportHandler.ShareResult)
}
