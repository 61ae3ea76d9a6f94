package ingredient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrMissingName  = errors.New("ingredient name is required")
	ErrNegativeCost = errors.New("cost per unit must not be negative")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, category string) ([]Ingredient, error) {
	return s.repo.List(ctx, category)
}

func (s *Service) Get(ctx context.Context, id string) (*Ingredient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, ing Ingredient) (*Ingredient, error) {
	if ing.Name == "" {
		return nil, ErrMissingName
	}
	if ing.CostPerUnit < 0 {
		return nil, ErrNegativeCost
	}

	ing.ID = uuid.New().String()
	if err := s.repo.Create(ctx, &ing); err != nil {
		return nil, err
	}
	return &ing, nil
}

// UpdatePatch carries partial catalog edits; nil fields are untouched.
type UpdatePatch struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Unit        *string  `json:"unit"`
	CostPerUnit *float64 `json:"cost_per_unit"`
	Supplier    *string  `json:"supplier"`
	Notes       *string  `json:"notes"`
}

func (s *Service) Update(ctx context.Context, id string, patch UpdatePatch) (*Ingredient, error) {
	ing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, ErrMissingName
		}
		ing.Name = *patch.Name
	}
	if patch.Category != nil {
		ing.Category = *patch.Category
	}
	if patch.Unit != nil {
		ing.Unit = *patch.Unit
	}
	if patch.CostPerUnit != nil {
		if *patch.CostPerUnit < 0 {
			return nil, ErrNegativeCost
		}
		ing.CostPerUnit = *patch.CostPerUnit
	}
	if patch.Supplier != nil {
		ing.Supplier = patch.Supplier
	}
	if patch.Notes != nil {
		ing.Notes = patch.Notes
	}

	if err := s.repo.Update(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}
