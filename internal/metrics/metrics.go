package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeGenerated     = "generated"
	OutcomeMissingFields = "missing_fields"
	OutcomeError         = "error"
)

var (
	generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finderqr_generations_total",
			Help: "Total QR link generations by outcome",
		},
		[]string{"outcome"},
	)

	rejectedKeystrokes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finderqr_rejected_keystrokes_total",
			Help: "Total keystrokes ignored by field filtering",
		},
		[]string{"field"},
	)

	shares = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finderqr_shares_total",
			Help: "Total share attempts by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	prints = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "finderqr_prints_total",
			Help: "Total print sheets rendered",
		},
	)

	registry     = prometheus.NewRegistry()
	registryOnce sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	registryOnce.Do(func() {
		registry.MustRegister(
			generations,
			rejectedKeystrokes,
			shares,
			prints,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() fiber.Handler {
	Init()
	return adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

// RecordGeneration counts a generate action.
func RecordGeneration(outcome string) {
	generations.WithLabelValues(outcome).Inc()
}

// RecordRejectedKeystroke counts a keystroke ignored for field.
func RecordRejectedKeystroke(field string) {
	rejectedKeystrokes.WithLabelValues(field).Inc()
}

// RecordShare counts a share attempt.
func RecordShare(method, outcome string) {
	shares.WithLabelValues(method, outcome).Inc()
}

// RecordPrint counts a rendered print sheet.
func RecordPrint() {
	prints.Inc()
}
