// Package simulation runs Monte Carlo disruption scenarios and
// criticality sensitivity analysis over a propagated risk network.
package simulation

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/suppliershield/suppliershield/pkg/graph"
	"github.com/suppliershield/suppliershield/pkg/impact"
	"github.com/suppliershield/suppliershield/pkg/model"
	"github.com/suppliershield/suppliershield/pkg/parallel"
	"github.com/suppliershield/suppliershield/pkg/risk"
	"github.com/suppliershield/suppliershield/pkg/validation"
)

// Failure model policy constants. These are deliberate caps, not
// tuning artifacts: probability never exceeds MaxFailureProbability
// however long the disruption, and the duration factor saturates at
// MaxDurationFactor.
const (
	MaxFailureProbability     = 0.95
	MaxDurationFactor         = 1.5
	DurationNormalizationDays = 30.0
)

// DefaultHistogramBins is the histogram resolution when the config
// leaves it unset.
const DefaultHistogramBins = 30

// ScenarioType selects which suppliers a disruption can touch.
type ScenarioType string

const (
	// ScenarioSingleNode: the target plus its downstream dependents.
	ScenarioSingleNode ScenarioType = "single_node"
	// ScenarioRegional: every supplier in the target's region.
	ScenarioRegional ScenarioType = "regional"
	// ScenarioCorrelated: suppliers sharing upstream sources with the
	// target, which tend to fail together.
	ScenarioCorrelated ScenarioType = "correlated"
)

// Config parameterizes one simulation run. Identical configs produce
// identical results: the RNG is seeded per run and per iteration, and
// no wall-clock or global state is read.
type Config struct {
	Target        string
	DurationDays  int
	Iterations    int
	Scenario      ScenarioType
	Seed          int64
	HistogramBins int
	Workers       int // <= 0 uses GOMAXPROCS
}

func (c Config) validate() error {
	return validation.NewConfigValidator("SimulationConfig").
		Required("Target", c.Target).
		Positive("DurationDays", c.DurationDays).
		RangeInt("DurationDays", c.DurationDays, 1, 365).
		Positive("Iterations", c.Iterations).
		MaxInt("Iterations", c.Iterations, 1_000_000).
		OneOf("Scenario", string(c.Scenario),
			[]string{string(ScenarioSingleNode), string(ScenarioRegional), string(ScenarioCorrelated)}).
		Positive("HistogramBins", c.HistogramBins).
		Validate()
}

// Result is one completed simulation run.
type Result struct {
	RunID  string
	Config Config

	CandidateSuppliers []string // suppliers the scenario could fail
	AffectedProducts   []string // products depending on any candidate

	Impacts   []float64 // revenue impact per iteration, EUR millions
	Stats     Stats
	Histogram Histogram
}

// Simulator runs seeded Monte Carlo disruption simulations. It holds
// only immutable inputs and is safe for concurrent runs.
type Simulator struct {
	net        *graph.Network
	propagated risk.PropagationSet
	tracer     *impact.Tracer
}

// NewSimulator creates a simulator over a propagated network.
func NewSimulator(net *graph.Network, propagated risk.PropagationSet, tracer *impact.Tracer) *Simulator {
	return &Simulator{net: net, propagated: propagated, tracer: tracer}
}

// FailureProbability is the per-node failure chance for one iteration:
// propagated risk scaled by a capped duration factor, capped overall.
func FailureProbability(propagatedRisk float64, durationDays int) float64 {
	base := propagatedRisk / 100.0
	durationFactor := float64(durationDays) / DurationNormalizationDays
	if durationFactor > MaxDurationFactor {
		durationFactor = MaxDurationFactor
	}
	p := base * durationFactor
	if p > MaxFailureProbability {
		p = MaxFailureProbability
	}
	return p
}

// Run executes the configured number of iterations. Iterations are
// independent and fan out across a worker pool; each one draws from
// its own RNG stream seeded Seed+iteration so the schedule cannot
// change the outcome.
func (s *Simulator) Run(cfg Config) (*Result, error) {
	if cfg.HistogramBins == 0 {
		cfg.HistogramBins = DefaultHistogramBins
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !s.net.HasNode(cfg.Target) {
		return nil, fmt.Errorf("%w: %q", model.ErrSupplierNotFound, cfg.Target)
	}

	candidates := s.candidates(cfg.Target, cfg.Scenario)

	// Pre-resolve each candidate's failure probability and forward
	// reach; iterations only draw and merge.
	probs := make([]float64, len(candidates))
	reach := make([][]string, len(candidates))
	for i, id := range candidates {
		probs[i] = FailureProbability(s.propagated[id], cfg.DurationDays)
		reach[i] = append([]string{id}, s.net.Descendants(id)...)
	}

	impacts := make([]float64, cfg.Iterations)
	pool := parallel.NewWorkerPool(cfg.Workers)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Iterations; i++ {
		i := i
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
			impacts[i] = s.iterate(rng, probs, reach)
		})
	}
	wg.Wait()
	pool.Close()

	result := &Result{
		RunID:              uuid.NewString(),
		Config:             cfg,
		CandidateSuppliers: candidates,
		AffectedProducts:   s.affectedProducts(candidates),
		Impacts:            impacts,
		Stats:              ComputeStats(impacts),
		Histogram:          NewHistogram(impacts, cfg.HistogramBins),
	}
	return result, nil
}

// iterate samples one disruption: each candidate fails independently
// with its precomputed probability; failures cascade forward and map
// through the BOM to a revenue impact.
func (s *Simulator) iterate(rng *rand.Rand, probs []float64, reach [][]string) float64 {
	affected := make(map[string]bool)
	any := false
	for i, p := range probs {
		if rng.Float64() < p {
			any = true
			for _, id := range reach[i] {
				affected[id] = true
			}
		}
	}
	if !any {
		return 0
	}
	return s.tracer.RevenueImpact(affected)
}

// candidates resolves the scenario to a sorted supplier list. Sorting
// fixes the draw order, which the seeded RNG depends on.
func (s *Simulator) candidates(target string, scenario ScenarioType) []string {
	set := map[string]bool{target: true}
	switch scenario {
	case ScenarioRegional:
		targetNode, _ := s.net.Node(target)
		for _, node := range s.net.Nodes() {
			if node.Region == targetNode.Region {
				set[node.ID] = true
			}
		}
	case ScenarioCorrelated:
		upstream := make(map[string]bool)
		for _, pred := range s.net.Predecessors(target) {
			upstream[pred] = true
		}
		for _, node := range s.net.Nodes() {
			for _, pred := range s.net.Predecessors(node.ID) {
				if upstream[pred] {
					set[node.ID] = true
					break
				}
			}
		}
	default: // single node: target plus downstream dependents
		for _, desc := range s.net.Descendants(target) {
			set[desc] = true
		}
	}

	candidates := make([]string, 0, len(set))
	for id := range set {
		candidates = append(candidates, id)
	}
	sort.Strings(candidates)
	return candidates
}

// affectedProducts lists the products depending on any candidate,
// sorted by product ID.
func (s *Simulator) affectedProducts(candidates []string) []string {
	inScope := make(map[string]bool, len(candidates))
	for _, id := range candidates {
		inScope[id] = true
	}
	var products []string
	for _, p := range s.tracer.Products() {
		for _, sid := range p.SupplierIDs {
			if inScope[sid] {
				products = append(products, p.ProductID)
				break
			}
		}
	}
	return products
}

// ScenarioSummary is one line of a scenario comparison table.
type ScenarioSummary struct {
	Name       string
	Config     Config
	Mean       float64
	P95        float64
	Max        float64
	Candidates int
}

// NamedConfig pairs a scenario label with its simulation config.
type NamedConfig struct {
	Name   string
	Config Config
}

// CompareScenarios runs several configs and tabulates their headline
// numbers side by side.
func (s *Simulator) CompareScenarios(scenarios []NamedConfig) ([]ScenarioSummary, error) {
	summaries := make([]ScenarioSummary, 0, len(scenarios))
	for _, sc := range scenarios {
		result, err := s.Run(sc.Config)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		summaries = append(summaries, ScenarioSummary{
			Name:       sc.Name,
			Config:     sc.Config,
			Mean:       result.Stats.Mean,
			P95:        result.Stats.P95,
			Max:        result.Stats.Max,
			Candidates: len(result.CandidateSuppliers),
		})
	}
	return summaries, nil
}
