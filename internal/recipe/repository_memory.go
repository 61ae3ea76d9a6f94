package recipe

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository backs tests and local development.
type MemoryRepository struct {
	mu      sync.RWMutex
	recipes map[string]Recipe
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{recipes: make(map[string]Recipe)}
}

func (m *MemoryRepository) List(ctx context.Context) ([]Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Recipe, 0, len(m.recipes))
	for _, rec := range m.recipes {
		out = append(out, cloneRecipe(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneRecipe(rec)
	return &out, nil
}

func (m *MemoryRepository) Save(ctx context.Context, rec *Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recipes[rec.ID] = cloneRecipe(*rec)
	return nil
}

func cloneRecipe(rec Recipe) Recipe {
	out := rec
	out.Ingredients = make([]IngredientLine, len(rec.Ingredients))
	copy(out.Ingredients, rec.Ingredients)
	if rec.PrepTimeMinutes != nil {
		v := *rec.PrepTimeMinutes
		out.PrepTimeMinutes = &v
	}
	return out
}
