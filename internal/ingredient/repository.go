package ingredient

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("ingredient not found")

// Repository defines all database operations for the master catalog
type Repository interface {

	// Catalog, optionally filtered by category ("" = all)
	List(ctx context.Context, category string) ([]Ingredient, error)

	GetByID(ctx context.Context, id string) (*Ingredient, error)

	Create(ctx context.Context, ing *Ingredient) error

	Update(ctx context.Context, ing *Ingredient) error

	Delete(ctx context.Context, id string) error

	// Distinct categories in use, sorted
	Categories(ctx context.Context) ([]string, error)
}
