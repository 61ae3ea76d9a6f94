package recipe

import "context"

// Repository defines all database operations for recipes
type Repository interface {

	// All recipes, stable order (by name)
	List(ctx context.Context) ([]Recipe, error)

	// Single recipe with its ingredient lines
	GetByID(ctx context.Context, id string) (*Recipe, error)

	// Upsert a recipe and its lines atomically
	Save(ctx context.Context, r *Recipe) error
}
