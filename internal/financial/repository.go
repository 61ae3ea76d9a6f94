package financial

import (
	"context"
	"errors"
	"time"
)

var ErrNoPeriods = errors.New("no financial periods recorded")

// Document records an archived source file behind imported figures.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	ObjectKey  string    `json:"object_key"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Repository defines all database operations for financial reporting
type Repository interface {

	// Periods in chronological order
	ListPeriods(ctx context.Context) ([]Period, error)

	ListDebts(ctx context.Context) ([]DebtAccount, error)

	ListBenchmarks(ctx context.Context) ([]Benchmark, error)

	SaveDocument(ctx context.Context, doc *Document) error
}
