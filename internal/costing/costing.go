package costing

// PURE derivation logic (NO db / NO http).
// Every function is total: degenerate inputs produce a defined
// numeric result, never a panic, because these values feed
// dashboards directly.

// BatchEconomics holds the derived figures for one recipe batch.
type BatchEconomics struct {
	TotalCost       float64 `json:"total_cost"`
	RevenuePerBatch float64 `json:"revenue_per_batch"`
	ProfitPerBatch  float64 `json:"profit_per_batch"`
	MarginPercent   float64 `json:"margin_percent"`
	CostPerPortion  float64 `json:"cost_per_portion"`
}

// ForBatch derives batch economics from current inputs.
// Zero portions or zero revenue yield 0, not NaN.
// Margin may be negative when cost exceeds revenue.
func ForBatch(ingredientCost, laborCost, price float64, portions int) BatchEconomics {
	e := BatchEconomics{
		TotalCost:       ingredientCost + laborCost,
		RevenuePerBatch: price * float64(portions),
	}
	e.ProfitPerBatch = e.RevenuePerBatch - e.TotalCost

	if e.RevenuePerBatch > 0 {
		e.MarginPercent = e.ProfitPerBatch / e.RevenuePerBatch * 100
	}
	if portions > 0 {
		e.CostPerPortion = e.TotalCost / float64(portions)
	}
	return e
}

// DebtPaydown describes progress against a debt account.
type DebtPaydown struct {
	PaidOff     float64 `json:"paid_off"`
	PaidPercent float64 `json:"paid_percent"`
}

// ForDebt derives paydown progress. A negative PaidOff means the
// balance grew; callers render it as a regression, it is not clamped.
func ForDebt(currentBalance, originalBalance float64) DebtPaydown {
	p := DebtPaydown{PaidOff: originalBalance - currentBalance}
	if originalBalance > 0 {
		p.PaidPercent = p.PaidOff / originalBalance * 100
	}
	return p
}

// Band classifies a metric against an industry low/high range.
type Band string

const (
	BandBelow   Band = "below"
	BandInRange Band = "in-range"
	BandAbove   Band = "above"
)

// ClassifyBenchmark places value against an inclusive [low, high]
// band. A missing bound means there is no benchmark to fail, so the
// result is always in-range.
func ClassifyBenchmark(value float64, low, high *float64) Band {
	if low == nil || high == nil {
		return BandInRange
	}
	switch {
	case value < *low:
		return BandBelow
	case value > *high:
		return BandAbove
	default:
		return BandInRange
	}
}

// PositionOnScale maps value onto a min/max gauge as a percent
// clamped to [0, 100]. A zero or inverted range yields 0.
func PositionOnScale(value, min, max float64) float64 {
	if max <= min {
		return 0
	}
	pos := (value - min) / (max - min) * 100
	if pos < 0 {
		return 0
	}
	if pos > 100 {
		return 100
	}
	return pos
}
