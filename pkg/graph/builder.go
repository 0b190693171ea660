package graph

import (
	"errors"
	"fmt"

	"github.com/suppliershield/suppliershield/pkg/model"
)

// Builder constructs a Network from validated input tables. Malformed
// rows are quarantined as DataErrors and do not block the rest of the
// batch; suppliers from countries missing in the risk table fall back
// to model.DefaultCountryRisk.
type Builder struct {
	countryRisk map[string]model.CountryRiskProfile
}

// NewBuilder creates a graph builder with the given country risk table.
func NewBuilder(countries []model.CountryRiskRecord) (*Builder, []model.DataError) {
	b := &Builder{countryRisk: make(map[string]model.CountryRiskProfile, len(countries))}
	var dataErrs []model.DataError
	for _, rec := range countries {
		if err := model.ValidateRecord(rec); err != nil {
			dataErrs = append(dataErrs, *model.NewDataError("country_risk", rec.CountryCode, err))
			continue
		}
		b.countryRisk[rec.CountryCode] = model.CountryRiskProfile{
			PoliticalStability:   rec.PoliticalStability,
			NaturalDisasterFreq:  rec.NaturalDisasterFreq,
			LogisticsPerformance: rec.LogisticsPerformance,
			TradeRestrictionRisk: rec.TradeRestrictionRisk,
		}
	}
	return b, dataErrs
}

// Build assembles the network from supplier and dependency records.
// The returned DataError list reports every quarantined record; the
// network contains only the rows that passed.
func (b *Builder) Build(suppliers []model.SupplierRecord, deps []model.DependencyRecord) (*Network, []model.DataError) {
	net := newNetwork()
	var dataErrs []model.DataError

	for _, rec := range suppliers {
		if err := model.ValidateRecord(rec); err != nil {
			dataErrs = append(dataErrs, *model.NewDataError("suppliers", rec.ID, err))
			continue
		}
		if _, exists := net.nodes[rec.ID]; exists {
			dataErrs = append(dataErrs, *model.NewDataError("suppliers", rec.ID, errors.New("duplicate supplier id")))
			continue
		}
		risk, ok := b.countryRisk[rec.CountryCode]
		if !ok {
			risk = model.DefaultCountryRisk
		}
		net.nodes[rec.ID] = &model.SupplierNode{
			ID:              rec.ID,
			Name:            rec.Name,
			Tier:            rec.Tier,
			Component:       rec.Component,
			Country:         rec.Country,
			CountryCode:     rec.CountryCode,
			Region:          rec.Region,
			ContractValue:   rec.ContractValue,
			LeadTimeDays:    rec.LeadTimeDays,
			FinancialHealth: rec.FinancialHealth,
			PastDisruptions: rec.PastDisruptions,
			HasBackup:       rec.HasBackup,
			CountryRisk:     risk,
		}
	}

	seen := make(map[[2]string]bool, len(deps))
	for _, rec := range deps {
		edgeID := rec.SourceID + "->" + rec.TargetID
		if err := model.ValidateRecord(rec); err != nil {
			dataErrs = append(dataErrs, *model.NewDataError("dependencies", edgeID, err))
			continue
		}
		if !net.HasNode(rec.SourceID) {
			dataErrs = append(dataErrs, *model.NewDataError("dependencies", edgeID,
				fmt.Errorf("%w: source %q", model.ErrSupplierNotFound, rec.SourceID)))
			continue
		}
		if !net.HasNode(rec.TargetID) {
			dataErrs = append(dataErrs, *model.NewDataError("dependencies", edgeID,
				fmt.Errorf("%w: target %q", model.ErrSupplierNotFound, rec.TargetID)))
			continue
		}
		key := [2]string{rec.SourceID, rec.TargetID}
		if seen[key] {
			dataErrs = append(dataErrs, *model.NewDataError("dependencies", edgeID, errors.New("duplicate dependency")))
			continue
		}
		seen[key] = true

		edge := Edge{Source: rec.SourceID, Target: rec.TargetID, Weight: rec.Weight}
		net.edges = append(net.edges, edge)
		net.out[rec.SourceID] = append(net.out[rec.SourceID], edge)
		net.in[rec.TargetID] = append(net.in[rec.TargetID], edge)
	}

	net.freeze()
	return net, dataErrs
}
