package ingredient

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository backs tests and local development.
type MemoryRepository struct {
	mu          sync.RWMutex
	ingredients map[string]Ingredient
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{ingredients: make(map[string]Ingredient)}
}

func (m *MemoryRepository) List(ctx context.Context, category string) ([]Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Ingredient, 0, len(m.ingredients))
	for _, ing := range m.ingredients {
		if category != "" && ing.Category != category {
			continue
		}
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*Ingredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ing, ok := m.ingredients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ing, nil
}

func (m *MemoryRepository) Create(ctx context.Context, ing *Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ingredients[ing.ID] = *ing
	return nil
}

func (m *MemoryRepository) Update(ctx context.Context, ing *Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ingredients[ing.ID]; !ok {
		return ErrNotFound
	}
	m.ingredients[ing.ID] = *ing
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.ingredients[id]; !ok {
		return ErrNotFound
	}
	delete(m.ingredients, id)
	return nil
}

func (m *MemoryRepository) Categories(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, ing := range m.ingredients {
		if ing.Category != "" {
			seen[ing.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
