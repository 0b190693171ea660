// Package metrics exposes prometheus instrumentation for the risk
// pipeline. The surrounding service layer decides how (or whether) to
// serve the registry; the engine only records.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics recorded by the engine.
type Registry struct {
	PipelineStageDuration *prometheus.HistogramVec
	PipelineRunsTotal     *prometheus.CounterVec

	ValidationViolationsTotal *prometheus.CounterVec
	QuarantinedRecordsTotal   *prometheus.CounterVec

	GraphNodes prometheus.Gauge
	GraphEdges prometheus.Gauge

	SimulationIterationsTotal prometheus.Counter
	SimulationDuration        prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a metrics registry backed by its own prometheus
// registry. One registry per engine instance; nothing is global.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.PipelineStageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "suppliershield_pipeline_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"stage"},
	)

	r.PipelineRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "suppliershield_pipeline_runs_total",
			Help: "Pipeline stage executions by outcome",
		},
		[]string{"stage", "status"},
	)

	r.ValidationViolationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "suppliershield_validation_violations_total",
			Help: "Structural violations found during network validation",
		},
		[]string{"kind"},
	)

	r.QuarantinedRecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "suppliershield_quarantined_records_total",
			Help: "Input records excluded at the ingestion boundary",
		},
		[]string{"table"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "suppliershield_graph_nodes",
			Help: "Suppliers in the dependency network",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "suppliershield_graph_edges",
			Help: "Dependency edges in the network",
		},
	)

	r.SimulationIterationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "suppliershield_simulation_iterations_total",
			Help: "Monte Carlo iterations executed",
		},
	)

	r.SimulationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suppliershield_simulation_duration_seconds",
			Help:    "Duration of full simulation runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	return r
}

// RecordStage records a completed pipeline stage.
func (r *Registry) RecordStage(stage string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.PipelineRunsTotal.WithLabelValues(stage, status).Inc()
	r.PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordViolation records a structural validation violation.
func (r *Registry) RecordViolation(kind string) {
	r.ValidationViolationsTotal.WithLabelValues(kind).Inc()
}

// RecordQuarantine records an excluded input record.
func (r *Registry) RecordQuarantine(table string) {
	r.QuarantinedRecordsTotal.WithLabelValues(table).Inc()
}

// SetGraphSize records the built graph dimensions.
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// RecordSimulation records a completed simulation run.
func (r *Registry) RecordSimulation(iterations int, duration time.Duration) {
	r.SimulationIterationsTotal.Add(float64(iterations))
	r.SimulationDuration.Observe(duration.Seconds())
}

// Gatherer exposes the underlying prometheus registry so the caller
// can mount it on whatever HTTP surface it owns.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }
