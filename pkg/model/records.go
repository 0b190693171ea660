package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// SupplierRecord is a single validated row of the supplier input table.
type SupplierRecord struct {
	ID              string  `json:"id" validate:"required,max=64"`
	Name            string  `json:"name" validate:"required,max=200"`
	Tier            int     `json:"tier" validate:"required,min=1,max=3"`
	Component       string  `json:"component" validate:"required,max=200"`
	Country         string  `json:"country" validate:"max=100"`
	CountryCode     string  `json:"countryCode" validate:"required,len=2"`
	Region          string  `json:"region" validate:"required,max=100"`
	ContractValue   float64 `json:"contractValueEurM" validate:"gte=0"`
	LeadTimeDays    int     `json:"leadTimeDays" validate:"gte=0"`
	FinancialHealth int     `json:"financialHealth" validate:"gte=0,lte=100"`
	PastDisruptions int     `json:"pastDisruptions" validate:"gte=0"`
	HasBackup       bool    `json:"hasBackup"`
}

// DependencyRecord is a single row of the dependency input table.
// The edge is directed source -> target and must flow from a higher
// tier number to the next lower one (3->2 or 2->1).
type DependencyRecord struct {
	SourceID string  `json:"sourceId" validate:"required,max=64"`
	TargetID string  `json:"targetId" validate:"required,max=64"`
	Weight   float64 `json:"weight" validate:"gte=0,lte=1"`
}

// CountryRiskRecord is a single row of the country risk baseline table.
// All indices are 0-100. For political stability, disaster frequency and
// trade restriction risk higher means riskier; for logistics performance
// higher means better.
type CountryRiskRecord struct {
	Country              string `json:"country" yaml:"country" validate:"max=100"`
	CountryCode          string `json:"countryCode" yaml:"countryCode" validate:"required,len=2"`
	PoliticalStability   int    `json:"politicalStability" yaml:"politicalStability" validate:"gte=0,lte=100"`
	NaturalDisasterFreq  int    `json:"naturalDisasterFreq" yaml:"naturalDisasterFreq" validate:"gte=0,lte=100"`
	LogisticsPerformance int    `json:"logisticsPerformance" yaml:"logisticsPerformance" validate:"gte=0,lte=100"`
	TradeRestrictionRisk int    `json:"tradeRestrictionRisk" yaml:"tradeRestrictionRisk" validate:"gte=0,lte=100"`
}

// ProductBOMRecord is a single row of the product bill-of-materials table.
type ProductBOMRecord struct {
	ProductID     string   `json:"productId" validate:"required,max=64"`
	ProductName   string   `json:"productName" validate:"required,max=200"`
	AnnualRevenue float64  `json:"annualRevenueEurM" validate:"gte=0"`
	SupplierIDs   []string `json:"componentSupplierIds" validate:"required,min=1,dive,required"`
}

// ValidateRecord checks a record against its struct tags and returns a
// readable error listing every failed field.
func ValidateRecord(record any) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}
	if err := validate.Struct(record); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q constraint", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
