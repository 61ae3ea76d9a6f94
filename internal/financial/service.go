package financial

import (
	"context"
	"math"

	"github.com/llakewood/lrc-finance/internal/costing"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// round1 matches the one-decimal presentation the dashboard uses.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// MetricsFor derives the dashboard percentages for one period.
// Every ratio is guarded: a period with zero revenue reports zeros,
// never NaN.
func MetricsFor(p Period) Metrics {
	m := Metrics{
		PeriodLabel: p.Label,
		GrossProfit: p.Revenue - p.COGS,
	}
	if p.Revenue > 0 {
		m.GrossMarginPct = round1(m.GrossProfit / p.Revenue * 100)
		m.NetMarginPct = round1(p.NetIncome / p.Revenue * 100)
		m.COGSPct = round1(p.COGS / p.Revenue * 100)
		m.LaborCostPct = round1(p.Payroll / p.Revenue * 100)
		m.RentPct = round1(p.Rent / p.Revenue * 100)
	}
	return m
}

// Summary returns per-period metrics, oldest first.
func (s *Service) Summary(ctx context.Context) ([]Metrics, error) {
	periods, err := s.repo.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, ErrNoPeriods
	}

	out := make([]Metrics, 0, len(periods))
	for _, p := range periods {
		out = append(out, MetricsFor(p))
	}
	return out, nil
}

// DebtProgress is one account with its derived paydown.
type DebtProgress struct {
	DebtAccount
	Paydown costing.DebtPaydown `json:"paydown"`
}

// DebtReport is all accounts plus portfolio totals.
type DebtReport struct {
	Debts  []DebtProgress      `json:"debts"`
	Totals costing.DebtPaydown `json:"totals"`
}

func (s *Service) Debts(ctx context.Context) (*DebtReport, error) {
	debts, err := s.repo.ListDebts(ctx)
	if err != nil {
		return nil, err
	}

	report := &DebtReport{Debts: make([]DebtProgress, 0, len(debts))}
	var totalCurrent, totalOriginal float64
	for _, d := range debts {
		report.Debts = append(report.Debts, DebtProgress{
			DebtAccount: d,
			Paydown:     costing.ForDebt(d.CurrentBalance, d.OriginalBalance),
		})
		totalCurrent += d.CurrentBalance
		totalOriginal += d.OriginalBalance
	}
	report.Totals = costing.ForDebt(totalCurrent, totalOriginal)
	return report, nil
}

// BenchmarkReport is a stored benchmark classified against its
// industry band and positioned on its gauge.
type BenchmarkReport struct {
	Benchmark
	Status   costing.Band `json:"status"`
	Position float64      `json:"position"`
}

func (s *Service) Benchmarks(ctx context.Context) ([]BenchmarkReport, error) {
	benchmarks, err := s.repo.ListBenchmarks(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]BenchmarkReport, 0, len(benchmarks))
	for _, b := range benchmarks {
		out = append(out, BenchmarkReport{
			Benchmark: b,
			Status:    costing.ClassifyBenchmark(b.Value, b.IndustryLow, b.IndustryHigh),
			Position:  costing.PositionOnScale(b.Value, b.ScaleMin, b.ScaleMax),
		})
	}
	return out, nil
}

func (s *Service) RecordDocument(ctx context.Context, doc *Document) error {
	return s.repo.SaveDocument(ctx, doc)
}
