package services

import (
	"fleetops/models"

	"github.com/shopspring/decimal"
)

// CostInput is the pricing input for one trip or quote. Zero values mean the
// component is absent.
type CostInput struct {
	Miles      decimal.Decimal
	FixedCPM   decimal.Decimal
	WageCPM    decimal.Decimal
	AddOnsCPM  decimal.Decimal
	RollingCPM decimal.Decimal
	Revenue    decimal.Decimal
}

// CostResult is derived on demand and never persisted as a record of its own.
// MarginPct is invalid when there is no revenue to measure against.
type CostResult struct {
	TotalCPM  decimal.Decimal
	TotalCost decimal.Decimal
	Profit    decimal.Decimal
	MarginPct decimal.NullDecimal
}

// CalcCost prices a run. Money is rounded to cents half away from zero.
func CalcCost(in CostInput) CostResult {
	totalCPM := in.FixedCPM.Add(in.WageCPM).Add(in.AddOnsCPM).Add(in.RollingCPM)
	totalCost := in.Miles.Mul(totalCPM).Round(2)
	profit := in.Revenue.Sub(totalCost).Round(2)

	res := CostResult{
		TotalCPM:  totalCPM,
		TotalCost: totalCost,
		Profit:    profit,
	}
	if !in.Revenue.IsZero() {
		res.MarginPct = decimal.NewNullDecimal(profit.Div(in.Revenue))
	}
	return res
}

// CostInputFromRate fills the per-mile components from r. A nil rate prices the
// run at zero cost.
func CostInputFromRate(r *models.Rate, miles, revenue decimal.Decimal) CostInput {
	in := CostInput{Miles: miles, Revenue: revenue}
	if r != nil {
		in.FixedCPM = r.FixedCPM
		in.WageCPM = r.WageCPM
		in.AddOnsCPM = r.AddOnsCPM
		in.RollingCPM = r.RollingCPM
	}
	return in
}
