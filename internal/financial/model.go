package financial

// Period is one reporting period's income-statement rollup.
type Period struct {
	Label         string  `json:"period_label"`
	Revenue       float64 `json:"revenue"`
	COGS          float64 `json:"cogs"`
	Payroll       float64 `json:"payroll"`
	Rent          float64 `json:"rent"`
	TotalExpenses float64 `json:"total_expenses"`
	NetIncome     float64 `json:"net_income"`
}

// Metrics are the derived percentages the dashboard renders.
type Metrics struct {
	PeriodLabel    string  `json:"period_label"`
	GrossProfit    float64 `json:"gross_profit"`
	GrossMarginPct float64 `json:"gross_margin_pct"`
	NetMarginPct   float64 `json:"net_margin_pct"`
	COGSPct        float64 `json:"cogs_pct"`
	LaborCostPct   float64 `json:"labor_cost_pct"`
	RentPct        float64 `json:"rent_pct"`
}

// DebtAccount is one loan or credit line being paid down.
type DebtAccount struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	OriginalBalance float64  `json:"original_balance"`
	CurrentBalance  float64  `json:"current_balance"`
	InterestRate    *float64 `json:"interest_rate,omitempty"`
	MonthlyPayment  *float64 `json:"monthly_payment,omitempty"`
}

// Benchmark is a stored metric with its industry band and the gauge
// bounds used to draw it.
type Benchmark struct {
	Metric       string   `json:"metric"`
	Value        float64  `json:"value"`
	ScaleMin     float64  `json:"scale_min"`
	ScaleMax     float64  `json:"scale_max"`
	IndustryLow  *float64 `json:"industry_low,omitempty"`
	IndustryHigh *float64 `json:"industry_high,omitempty"`
}
