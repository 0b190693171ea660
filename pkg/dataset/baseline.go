// Package dataset provides the built-in country risk baseline and a
// seeded synthetic network generator for demos and tests.
package dataset

import (
	"sort"

	"github.com/suppliershield/suppliershield/pkg/model"
)

// builtinCountryRisk is the bundled baseline. Indices are 0-100;
// political stability, disaster frequency and trade restriction risk
// read higher = riskier, logistics performance higher = better.
var builtinCountryRisk = []model.CountryRiskRecord{
	{Country: "China", CountryCode: "CN", PoliticalStability: 55, NaturalDisasterFreq: 60, LogisticsPerformance: 78, TradeRestrictionRisk: 70},
	{Country: "Congo (DRC)", CountryCode: "CD", PoliticalStability: 90, NaturalDisasterFreq: 45, LogisticsPerformance: 22, TradeRestrictionRisk: 65},
	{Country: "Germany", CountryCode: "DE", PoliticalStability: 20, NaturalDisasterFreq: 25, LogisticsPerformance: 92, TradeRestrictionRisk: 15},
	{Country: "India", CountryCode: "IN", PoliticalStability: 60, NaturalDisasterFreq: 65, LogisticsPerformance: 62, TradeRestrictionRisk: 55},
	{Country: "Japan", CountryCode: "JP", PoliticalStability: 15, NaturalDisasterFreq: 85, LogisticsPerformance: 90, TradeRestrictionRisk: 20},
	{Country: "Malaysia", CountryCode: "MY", PoliticalStability: 40, NaturalDisasterFreq: 50, LogisticsPerformance: 70, TradeRestrictionRisk: 35},
	{Country: "Netherlands", CountryCode: "NL", PoliticalStability: 15, NaturalDisasterFreq: 30, LogisticsPerformance: 94, TradeRestrictionRisk: 12},
	{Country: "Poland", CountryCode: "PL", PoliticalStability: 30, NaturalDisasterFreq: 20, LogisticsPerformance: 76, TradeRestrictionRisk: 22},
	{Country: "South Korea", CountryCode: "KR", PoliticalStability: 35, NaturalDisasterFreq: 55, LogisticsPerformance: 85, TradeRestrictionRisk: 30},
	{Country: "Switzerland", CountryCode: "CH", PoliticalStability: 10, NaturalDisasterFreq: 20, LogisticsPerformance: 90, TradeRestrictionRisk: 10},
	{Country: "Taiwan", CountryCode: "TW", PoliticalStability: 45, NaturalDisasterFreq: 75, LogisticsPerformance: 82, TradeRestrictionRisk: 50},
	{Country: "Thailand", CountryCode: "TH", PoliticalStability: 50, NaturalDisasterFreq: 60, LogisticsPerformance: 68, TradeRestrictionRisk: 40},
	{Country: "United States", CountryCode: "US", PoliticalStability: 30, NaturalDisasterFreq: 55, LogisticsPerformance: 88, TradeRestrictionRisk: 35},
	{Country: "Vietnam", CountryCode: "VN", PoliticalStability: 45, NaturalDisasterFreq: 65, LogisticsPerformance: 60, TradeRestrictionRisk: 45},
}

// regionByCode maps each baseline country to its geographic region.
var regionByCode = map[string]string{
	"CN": "Asia-Pacific",
	"MY": "Asia-Pacific",
	"TW": "Asia-Pacific",
	"VN": "Asia-Pacific",
	"TH": "Asia-Pacific",
	"JP": "Asia-Pacific",
	"KR": "Asia-Pacific",
	"IN": "Asia-Pacific",
	"DE": "Europe",
	"NL": "Europe",
	"PL": "Europe",
	"CH": "Europe",
	"US": "North America",
	"CD": "Africa",
}

// BuiltinCountryRisk returns a copy of the bundled baseline, ordered by
// country code.
func BuiltinCountryRisk() []model.CountryRiskRecord {
	out := make([]model.CountryRiskRecord, len(builtinCountryRisk))
	copy(out, builtinCountryRisk)
	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out
}

// RegionForCode resolves a country code to its region; unknown codes
// map to "Other".
func RegionForCode(code string) string {
	if region, ok := regionByCode[code]; ok {
		return region
	}
	return "Other"
}

// MergeCountryRisk applies user overrides on top of a baseline: an
// override row replaces the baseline row with the same country code,
// remaining baseline rows pass through. Result ordered by country code.
func MergeCountryRisk(baseline, overrides []model.CountryRiskRecord) []model.CountryRiskRecord {
	overridden := make(map[string]bool, len(overrides))
	for _, rec := range overrides {
		overridden[rec.CountryCode] = true
	}

	merged := make([]model.CountryRiskRecord, 0, len(baseline)+len(overrides))
	merged = append(merged, overrides...)
	for _, rec := range baseline {
		if !overridden[rec.CountryCode] {
			merged = append(merged, rec)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].CountryCode < merged[j].CountryCode })
	return merged
}
