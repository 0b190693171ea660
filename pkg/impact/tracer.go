// Package impact traces supplier failures through the bill of
// materials to the products and revenue they put at risk.
package impact

import (
	"fmt"
	"sort"

	"github.com/suppliershield/suppliershield/pkg/graph"
	"github.com/suppliershield/suppliershield/pkg/model"
)

// Severity bands a product's exposure by the fraction of its
// component suppliers affected.
type Severity string

const (
	SeverityLow      Severity = "LOW"      // < 25% of suppliers affected
	SeverityMedium   Severity = "MEDIUM"   // 25-49%
	SeverityHigh     Severity = "HIGH"     // 50-74%
	SeverityCritical Severity = "CRITICAL" // >= 75%
)

func severityForRatio(ratio float64) Severity {
	switch {
	case ratio >= 0.75:
		return SeverityCritical
	case ratio >= 0.5:
		return SeverityHigh
	case ratio >= 0.25:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// AffectedProduct is one product touched by a failure set.
type AffectedProduct struct {
	ProductID     string
	ProductName   string
	AnnualRevenue float64

	AffectedSuppliers []string
	TotalSuppliers    int
	AffectedRatio     float64
	Severity          Severity

	// RevenueAtRisk is the product's annual revenue scaled by the
	// affected-supplier fraction; a partially hit product loses a
	// proportional share, not everything.
	RevenueAtRisk float64
}

// TraceResult is the outcome of tracing a failure set through the BOM.
type TraceResult struct {
	FailedSuppliers    []string
	AffectedSuppliers  []string // failed set plus full downstream closure
	Products           []AffectedProduct
	TotalRevenueAtRisk float64
}

// Tracer maps supplier failures to product revenue impact. It is a
// pure function of (failed set, BOM, graph): no state is mutated by a
// trace, and the simulator and sensitivity analyzer share one
// instance safely.
type Tracer struct {
	net      *graph.Network
	products []model.ProductBOM

	// bySupplier maps a supplier to the indexes of products that list
	// it as a component source.
	bySupplier map[string][]int
}

// NewTracer builds a tracer from validated BOM records. Malformed
// records and references to unknown suppliers are quarantined as
// DataErrors; the remaining products are used.
func NewTracer(net *graph.Network, records []model.ProductBOMRecord) (*Tracer, []model.DataError) {
	t := &Tracer{
		net:        net,
		bySupplier: make(map[string][]int),
	}
	var dataErrs []model.DataError
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		if err := model.ValidateRecord(rec); err != nil {
			dataErrs = append(dataErrs, *model.NewDataError("product_bom", rec.ProductID, err))
			continue
		}
		if seen[rec.ProductID] {
			dataErrs = append(dataErrs, *model.NewDataError("product_bom", rec.ProductID, fmt.Errorf("duplicate product id")))
			continue
		}
		seen[rec.ProductID] = true

		suppliers := make([]string, 0, len(rec.SupplierIDs))
		for _, sid := range rec.SupplierIDs {
			if !net.HasNode(sid) {
				dataErrs = append(dataErrs, *model.NewDataError("product_bom", rec.ProductID,
					fmt.Errorf("%w: component supplier %q", model.ErrSupplierNotFound, sid)))
				continue
			}
			suppliers = append(suppliers, sid)
		}
		if len(suppliers) == 0 {
			continue
		}
		sort.Strings(suppliers)

		idx := len(t.products)
		t.products = append(t.products, model.ProductBOM{
			ProductID:     rec.ProductID,
			ProductName:   rec.ProductName,
			AnnualRevenue: rec.AnnualRevenue,
			SupplierIDs:   suppliers,
		})
		for _, sid := range suppliers {
			t.bySupplier[sid] = append(t.bySupplier[sid], idx)
		}
	}
	return t, dataErrs
}

// Products returns the accepted BOM entries ordered by product ID.
func (t *Tracer) Products() []model.ProductBOM {
	products := make([]model.ProductBOM, len(t.products))
	copy(products, t.products)
	sort.Slice(products, func(i, j int) bool { return products[i].ProductID < products[j].ProductID })
	return products
}

// Trace computes the products and revenue affected when the given
// suppliers fail. The failure cascades forward: every downstream
// descendant of a failed supplier counts as affected. Unknown supplier
// IDs are a QueryError.
func (t *Tracer) Trace(failed []string) (TraceResult, error) {
	for _, id := range failed {
		if !t.net.HasNode(id) {
			return TraceResult{}, fmt.Errorf("%w: %q", model.ErrSupplierNotFound, id)
		}
	}

	closure := t.net.ForwardClosure(failed)
	affected := make(map[string]bool, len(closure))
	for _, id := range closure {
		affected[id] = true
	}

	result := TraceResult{
		FailedSuppliers:   append([]string(nil), failed...),
		AffectedSuppliers: closure,
	}
	sort.Strings(result.FailedSuppliers)

	for _, product := range t.products {
		var hit []string
		for _, sid := range product.SupplierIDs {
			if affected[sid] {
				hit = append(hit, sid)
			}
		}
		if len(hit) == 0 {
			continue
		}
		ratio := float64(len(hit)) / float64(len(product.SupplierIDs))
		atRisk := product.AnnualRevenue * ratio
		result.Products = append(result.Products, AffectedProduct{
			ProductID:         product.ProductID,
			ProductName:       product.ProductName,
			AnnualRevenue:     product.AnnualRevenue,
			AffectedSuppliers: hit,
			TotalSuppliers:    len(product.SupplierIDs),
			AffectedRatio:     ratio,
			Severity:          severityForRatio(ratio),
			RevenueAtRisk:     atRisk,
		})
		result.TotalRevenueAtRisk += atRisk
	}

	sort.Slice(result.Products, func(i, j int) bool {
		if result.Products[i].RevenueAtRisk != result.Products[j].RevenueAtRisk {
			return result.Products[i].RevenueAtRisk > result.Products[j].RevenueAtRisk
		}
		return result.Products[i].ProductID < result.Products[j].ProductID
	})
	return result, nil
}

// RevenueImpact is the fast path used inside Monte Carlo iterations:
// same proportional model as Trace, but over a precomputed affected
// set and without building product detail slices.
func (t *Tracer) RevenueImpact(affected map[string]bool) float64 {
	counted := make(map[int]int)
	for id := range affected {
		for _, idx := range t.bySupplier[id] {
			counted[idx]++
		}
	}
	// Sum in product order so the float accumulation is identical
	// across runs regardless of map iteration order.
	total := 0.0
	for idx := range t.products {
		if hits := counted[idx]; hits > 0 {
			total += t.products[idx].AnnualRevenue * float64(hits) / float64(len(t.products[idx].SupplierIDs))
		}
	}
	return total
}
