// Package engine wires the full risk pipeline behind one per-dataset
// object: build, validate, score, propagate, detect, simulate,
// recommend. Each stage result is computed once and cached; stages pull
// in their prerequisites so callers can jump straight to the operation
// they need.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/suppliershield/suppliershield/pkg/graph"
	"github.com/suppliershield/suppliershield/pkg/impact"
	"github.com/suppliershield/suppliershield/pkg/logging"
	"github.com/suppliershield/suppliershield/pkg/metrics"
	"github.com/suppliershield/suppliershield/pkg/model"
	"github.com/suppliershield/suppliershield/pkg/recommend"
	"github.com/suppliershield/suppliershield/pkg/risk"
	"github.com/suppliershield/suppliershield/pkg/simulation"
)

// Input bundles the four validated record tables an engine consumes.
// How the tables were obtained (files, API, generator) is the caller's
// concern.
type Input struct {
	Suppliers    []model.SupplierRecord
	Dependencies []model.DependencyRecord
	CountryRisk  []model.CountryRiskRecord
	Products     []model.ProductBOMRecord
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger sets the structured logger. Default is a nop logger.
func WithLogger(log logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics attaches a metrics registry. Default records nothing.
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithWeights overrides the default risk dimension weights.
func WithWeights(w risk.Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithWorkers bounds stage parallelism. Default uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// Engine owns one dataset's pipeline state. There is no ambient
// singleton: two engines over two datasets do not interact, and an
// engine is safe for concurrent reads once constructed.
type Engine struct {
	log     logging.Logger
	metrics *metrics.Registry
	weights risk.Weights
	workers int

	net      *graph.Network
	tracer   *impact.Tracer
	dataErrs []model.DataError

	mu         sync.Mutex
	violations []graph.Violation
	validated  bool
	scores     risk.ScoreSet
	propagated risk.PropagationSet
	spofs      []risk.SPOF
	spofsDone  bool
}

// New builds an engine from the input tables. Invalid weights are a
// fatal ConfigError; malformed records are quarantined, reported via
// DataErrors, and do not fail construction.
func New(input Input, opts ...Option) (*Engine, error) {
	e := &Engine{
		log:     logging.NewNopLogger(),
		weights: risk.DefaultWeights(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.weights.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	builder, countryErrs := graph.NewBuilder(input.CountryRisk)
	net, buildErrs := builder.Build(input.Suppliers, input.Dependencies)
	e.net = net

	tracer, bomErrs := impact.NewTracer(net, input.Products)
	e.tracer = tracer

	e.dataErrs = append(e.dataErrs, countryErrs...)
	e.dataErrs = append(e.dataErrs, buildErrs...)
	e.dataErrs = append(e.dataErrs, bomErrs...)

	if e.metrics != nil {
		for _, de := range e.dataErrs {
			e.metrics.RecordQuarantine(de.Table)
		}
		e.metrics.SetGraphSize(net.NodeCount(), net.EdgeCount())
		e.metrics.RecordStage("build", time.Since(start), nil)
	}
	e.log.Info("network built",
		logging.Int("suppliers", net.NodeCount()),
		logging.Int("dependencies", net.EdgeCount()),
		logging.Int("quarantined", len(e.dataErrs)),
		logging.Duration("took", time.Since(start)))

	return e, nil
}

// DataErrors lists every input record quarantined during construction.
func (e *Engine) DataErrors() []model.DataError {
	return append([]model.DataError(nil), e.dataErrs...)
}

// Network exposes the built dependency network.
func (e *Engine) Network() *graph.Network { return e.net }

// Validate runs the structural checks once and caches the result.
// Violations are returned, not errors: orphans are informational and
// even fatal violations only block the scoring stages.
func (e *Engine) Validate() []graph.Violation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateLocked()
}

func (e *Engine) validateLocked() []graph.Violation {
	if e.validated {
		return e.violations
	}
	start := time.Now()
	e.violations = graph.Validate(e.net)
	e.validated = true

	if e.metrics != nil {
		for _, v := range e.violations {
			e.metrics.RecordViolation(string(v.Kind))
		}
		e.metrics.RecordStage("validate", time.Since(start), nil)
	}
	for _, v := range e.violations {
		if v.Fatal() {
			e.log.Error("structural violation", logging.String("kind", string(v.Kind)), logging.String("detail", v.Message))
		} else {
			e.log.Warn("structural warning", logging.String("kind", string(v.Kind)), logging.String("detail", v.Message))
		}
	}
	return e.violations
}

// ScoreAll computes composite risk for every supplier. Fails with a
// StructuralError when validation found fatal violations.
func (e *Engine) ScoreAll() (risk.ScoreSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scoreLocked()
}

func (e *Engine) scoreLocked() (risk.ScoreSet, error) {
	if e.scores != nil {
		return e.scores, nil
	}
	violations := e.validateLocked()
	if graph.HasFatal(violations) {
		var fatal []graph.Violation
		for _, v := range violations {
			if v.Fatal() {
				fatal = append(fatal, v)
			}
		}
		return nil, &graph.StructuralError{Violations: fatal}
	}

	start := time.Now()
	scorer, err := risk.NewScorer(e.net, e.weights)
	if err != nil {
		return nil, err
	}
	e.scores = scorer.ScoreAll()

	if e.metrics != nil {
		e.metrics.RecordStage("score", time.Since(start), nil)
	}
	e.log.Info("composite scores computed",
		logging.Int("suppliers", len(e.scores)),
		logging.Duration("took", time.Since(start)))
	return e.scores, nil
}

// Propagate cascades risk tier 3 -> 2 -> 1, scoring first if needed.
func (e *Engine) Propagate() (risk.PropagationSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.propagateLocked()
}

func (e *Engine) propagateLocked() (risk.PropagationSet, error) {
	if e.propagated != nil {
		return e.propagated, nil
	}
	scores, err := e.scoreLocked()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	propagator, err := risk.NewPropagator(e.net, scores, e.workers)
	if err != nil {
		return nil, err
	}
	e.propagated = propagator.PropagateAll()

	if e.metrics != nil {
		e.metrics.RecordStage("propagate", time.Since(start), nil)
	}
	e.log.Info("risk propagated", logging.Duration("took", time.Since(start)))
	return e.propagated, nil
}

// DetectSPOFs finds single points of failure over propagated scores.
func (e *Engine) DetectSPOFs() ([]risk.SPOF, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detectLocked()
}

func (e *Engine) detectLocked() ([]risk.SPOF, error) {
	if e.spofsDone {
		return e.spofs, nil
	}
	propagated, err := e.propagateLocked()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	e.spofs = risk.NewSPOFDetector(e.net, propagated).Detect()
	e.spofsDone = true

	if e.metrics != nil {
		e.metrics.RecordStage("spof", time.Since(start), nil)
	}
	e.log.Info("spof detection complete",
		logging.Int("spofs", len(e.spofs)),
		logging.Duration("took", time.Since(start)))
	return e.spofs, nil
}

// BiggestIncreases returns the n suppliers whose scores rose the most
// through propagation.
func (e *Engine) BiggestIncreases(n int) ([]risk.RiskIncrease, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	propagated, err := e.propagateLocked()
	if err != nil {
		return nil, err
	}
	return risk.BiggestIncreases(e.scores, propagated, n), nil
}

// HiddenVulnerabilities returns suppliers that look safe standalone
// but inherit high risk from upstream.
func (e *Engine) HiddenVulnerabilities() ([]risk.RiskIncrease, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	propagated, err := e.propagateLocked()
	if err != nil {
		return nil, err
	}
	return risk.HiddenVulnerabilities(e.scores, propagated), nil
}

// Simulate runs one Monte Carlo disruption simulation.
func (e *Engine) Simulate(cfg simulation.Config) (*simulation.Result, error) {
	propagated, err := e.Propagate()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := simulation.NewSimulator(e.net, propagated, e.tracer).Run(cfg)
	if e.metrics != nil {
		e.metrics.RecordStage("simulate", time.Since(start), err)
		if err == nil {
			e.metrics.RecordSimulation(cfg.Iterations, time.Since(start))
		}
	}
	if err != nil {
		e.log.Error("simulation failed", logging.Err(err), logging.String("target", cfg.Target))
		return nil, err
	}
	e.log.Info("simulation complete",
		logging.String("run_id", result.RunID),
		logging.String("target", cfg.Target),
		logging.Int("iterations", cfg.Iterations),
		logging.Float64("mean_impact", result.Stats.Mean),
		logging.Duration("took", time.Since(start)))
	return result, nil
}

// CompareScenarios runs several simulation configs and tabulates them.
func (e *Engine) CompareScenarios(scenarios []simulation.NamedConfig) ([]simulation.ScenarioSummary, error) {
	propagated, err := e.Propagate()
	if err != nil {
		return nil, err
	}
	return simulation.NewSimulator(e.net, propagated, e.tracer).CompareScenarios(scenarios)
}

// RankCriticality returns the top n suppliers by criticality together
// with the Pareto concentration summary over the full ranking. n <= 0
// returns everything.
func (e *Engine) RankCriticality(n int) ([]simulation.CriticalityEntry, simulation.ParetoSummary, error) {
	propagated, err := e.Propagate()
	if err != nil {
		return nil, simulation.ParetoSummary{}, err
	}
	analyzer := simulation.NewAnalyzer(e.net, propagated, e.tracer)
	ranked := analyzer.Rank()
	pareto := simulation.Pareto(ranked)
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, pareto, nil
}

// TraceImpact maps a supplier failure set through the BOM to affected
// products and revenue.
func (e *Engine) TraceImpact(failed []string) (impact.TraceResult, error) {
	return e.tracer.Trace(failed)
}

// TraceProduct analyzes one product's full upstream supply chain.
func (e *Engine) TraceProduct(productID string) (impact.ProductDependencies, error) {
	propagated, err := e.Propagate()
	if err != nil {
		return impact.ProductDependencies{}, err
	}
	return e.tracer.TraceProduct(productID, propagated)
}

// Recommend generates the prioritized mitigation list. Passing
// severities keeps only those levels, preserving the priority order.
func (e *Engine) Recommend(severities ...recommend.Severity) ([]recommend.Recommendation, error) {
	spofs, err := e.DetectSPOFs()
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	propagated := e.propagated
	e.mu.Unlock()

	start := time.Now()
	recs := recommend.NewEngine(e.net, propagated, spofs).Generate()
	if len(severities) > 0 {
		keep := make(map[recommend.Severity]bool, len(severities))
		for _, s := range severities {
			keep[s] = true
		}
		filtered := make([]recommend.Recommendation, 0, len(recs))
		for _, r := range recs {
			if keep[r.Severity] {
				filtered = append(filtered, r)
			}
		}
		recs = filtered
	}
	if e.metrics != nil {
		e.metrics.RecordStage("recommend", time.Since(start), nil)
	}
	e.log.Info("recommendations generated", logging.Int("count", len(recs)))
	return recs, nil
}

// Profile assembles the full per-supplier risk view: dimension scores,
// composite, propagated score and category.
func (e *Engine) Profile(id string) (*model.SupplierNode, model.RiskProfile, error) {
	node, ok := e.net.Node(id)
	if !ok {
		return nil, model.RiskProfile{}, fmt.Errorf("%w: %q", model.ErrSupplierNotFound, id)
	}
	propagated, err := e.Propagate()
	if err != nil {
		return nil, model.RiskProfile{}, err
	}
	e.mu.Lock()
	dims := e.scores[id]
	e.mu.Unlock()

	profile := model.RiskProfile{
		Geopolitical:    dims.Geopolitical,
		NaturalDisaster: dims.NaturalDisaster,
		Financial:       dims.Financial,
		Logistics:       dims.Logistics,
		Concentration:   dims.Concentration,
		Composite:       dims.Composite,
		Propagated:      propagated[id],
		Category:        model.CategoryForScore(propagated[id]),
	}
	return node, profile, nil
}
