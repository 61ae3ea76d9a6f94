package financial

import (
	"context"
	"sync"
)

// MemoryRepository backs tests and local development.
type MemoryRepository struct {
	mu         sync.RWMutex
	periods    []Period
	debts      []DebtAccount
	benchmarks []Benchmark
	documents  []Document
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) SeedPeriods(periods ...Period) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods = append(m.periods, periods...)
}

func (m *MemoryRepository) SeedDebts(debts ...DebtAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debts = append(m.debts, debts...)
}

func (m *MemoryRepository) SeedBenchmarks(benchmarks ...Benchmark) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.benchmarks = append(m.benchmarks, benchmarks...)
}

func (m *MemoryRepository) ListPeriods(ctx context.Context) ([]Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Period, len(m.periods))
	copy(out, m.periods)
	return out, nil
}

func (m *MemoryRepository) ListDebts(ctx context.Context) ([]DebtAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]DebtAccount, len(m.debts))
	copy(out, m.debts)
	return out, nil
}

func (m *MemoryRepository) ListBenchmarks(ctx context.Context) ([]Benchmark, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Benchmark, len(m.benchmarks))
	copy(out, m.benchmarks)
	return out, nil
}

func (m *MemoryRepository) SaveDocument(ctx context.Context, doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = append(m.documents, *doc)
	return nil
}
