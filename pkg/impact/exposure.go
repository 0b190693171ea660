package impact

import (
	"fmt"
	"sort"

	"github.com/suppliershield/suppliershield/pkg/model"
)

// Exposure is the revenue a single supplier's failure puts at stake.
// Direct exposure comes from products listing the supplier as a
// component source; indirect exposure comes from products that depend
// on its downstream descendants instead.
type Exposure struct {
	DirectRevenue   float64
	IndirectRevenue float64
	// TotalExposure = direct + IndirectDiscount * indirect. The
	// discount reflects attenuation through cascading failures.
	TotalExposure    float64
	AffectedProducts int
	DownstreamCount  int
}

// IndirectDiscount halves indirect exposure: a cascade reaching a
// product through intermediaries is less certain than a direct hit.
const IndirectDiscount = 0.5

// RevenueExposure computes the direct and indirect revenue exposure of
// one supplier.
func (t *Tracer) RevenueExposure(supplierID string) (Exposure, error) {
	if !t.net.HasNode(supplierID) {
		return Exposure{}, fmt.Errorf("%w: %q", model.ErrSupplierNotFound, supplierID)
	}

	direct := make(map[int]bool)
	for _, idx := range t.bySupplier[supplierID] {
		direct[idx] = true
	}

	descendants := t.net.Descendants(supplierID)
	indirect := make(map[int]bool)
	for _, desc := range descendants {
		for _, idx := range t.bySupplier[desc] {
			if !direct[idx] {
				indirect[idx] = true
			}
		}
	}

	exp := Exposure{
		AffectedProducts: len(direct),
		DownstreamCount:  len(descendants),
	}
	for idx := range t.products {
		switch {
		case direct[idx]:
			exp.DirectRevenue += t.products[idx].AnnualRevenue
		case indirect[idx]:
			exp.IndirectRevenue += t.products[idx].AnnualRevenue
		}
	}
	exp.TotalExposure = exp.DirectRevenue + IndirectDiscount*exp.IndirectRevenue
	return exp, nil
}

// ProductDependencies describes the full upstream supply chain behind
// one product.
type ProductDependencies struct {
	ProductID     string
	ProductName   string
	AnnualRevenue float64

	DirectSuppliers   []string
	UpstreamSuppliers []string
	TierBreakdown     map[int]int
	// CategoryBreakdown counts chain members by the risk category of
	// the supplied score map; nil scores yield an empty breakdown.
	CategoryBreakdown map[model.RiskCategory]int
}

// TraceProduct analyzes the supply chain of a single product: its
// direct component suppliers plus everything upstream of them.
// Propagated scores, when provided, drive the risk breakdown.
func (t *Tracer) TraceProduct(productID string, propagated map[string]float64) (ProductDependencies, error) {
	var product *model.ProductBOM
	for i := range t.products {
		if t.products[i].ProductID == productID {
			product = &t.products[i]
			break
		}
	}
	if product == nil {
		return ProductDependencies{}, fmt.Errorf("%w: %q", model.ErrProductNotFound, productID)
	}

	deps := ProductDependencies{
		ProductID:         product.ProductID,
		ProductName:       product.ProductName,
		AnnualRevenue:     product.AnnualRevenue,
		DirectSuppliers:   append([]string(nil), product.SupplierIDs...),
		TierBreakdown:     make(map[int]int),
		CategoryBreakdown: make(map[model.RiskCategory]int),
	}

	upstream := make(map[string]bool)
	for _, sid := range product.SupplierIDs {
		for _, anc := range t.net.Ancestors(sid) {
			upstream[anc] = true
		}
	}
	for _, sid := range product.SupplierIDs {
		delete(upstream, sid)
	}
	for id := range upstream {
		deps.UpstreamSuppliers = append(deps.UpstreamSuppliers, id)
	}
	sort.Strings(deps.UpstreamSuppliers)

	chain := append(append([]string(nil), deps.DirectSuppliers...), deps.UpstreamSuppliers...)
	for _, sid := range chain {
		node, ok := t.net.Node(sid)
		if !ok {
			continue
		}
		deps.TierBreakdown[node.Tier]++
		if propagated != nil {
			if score, ok := propagated[sid]; ok {
				deps.CategoryBreakdown[model.CategoryForScore(score)]++
			}
		}
	}
	return deps, nil
}
