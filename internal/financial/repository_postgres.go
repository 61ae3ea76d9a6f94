package financial

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListPeriods(ctx context.Context) ([]Period, error) {
	rows, err := r.db.Query(ctx, `
		SELECT label, revenue, cogs, payroll, rent, total_expenses, net_income
		FROM financial_periods
		ORDER BY period_end
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(
			&p.Label,
			&p.Revenue,
			&p.COGS,
			&p.Payroll,
			&p.Rent,
			&p.TotalExpenses,
			&p.NetIncome,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListDebts(ctx context.Context) ([]DebtAccount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, original_balance, current_balance,
		       interest_rate, monthly_payment
		FROM debts
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DebtAccount
	for rows.Next() {
		var d DebtAccount
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.OriginalBalance,
			&d.CurrentBalance,
			&d.InterestRate,
			&d.MonthlyPayment,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListBenchmarks(ctx context.Context) ([]Benchmark, error) {
	rows, err := r.db.Query(ctx, `
		SELECT metric, value, scale_min, scale_max, industry_low, industry_high
		FROM benchmarks
		ORDER BY metric
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Benchmark
	for rows.Next() {
		var b Benchmark
		if err := rows.Scan(
			&b.Metric,
			&b.Value,
			&b.ScaleMin,
			&b.ScaleMax,
			&b.IndustryLow,
			&b.IndustryHigh,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) SaveDocument(ctx context.Context, doc *Document) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO documents (id, filename, object_key, url, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		doc.ID,
		doc.Filename,
		doc.ObjectKey,
		doc.URL,
		doc.UploadedAt,
	)
	return err
}
