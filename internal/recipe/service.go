package recipe

import (
	"context"
	"errors"
	"sort"

	"github.com/llakewood/lrc-finance/internal/costing"
	"github.com/llakewood/lrc-finance/internal/ingredient"
)

var (
	ErrNotFound          = errors.New("recipe not found")
	ErrLineOutOfRange    = errors.New("ingredient index out of range")
	ErrUnknownIngredient = errors.New("master ingredient not found")
	ErrInvalidPortions   = errors.New("portions must be positive")
	ErrNegativePrice     = errors.New("price must not be negative")
)

// A stored link below this confidence still shows up for operator
// review: the auto-matcher guessed, nobody confirmed.
const confirmedConfidence = 0.8

type Service struct {
	repo    Repository
	catalog ingredient.Repository
}

func NewService(repo Repository, catalog ingredient.Repository) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Costed pairs a recipe with its derived economics for list views.
// Economics are computed at read time, never persisted.
type Costed struct {
	Recipe
	Economics costing.BatchEconomics `json:"economics"`
}

// List returns all recipes with derived economics, sorted by key:
// profit (default), margin, cost, or name.
func (s *Service) List(ctx context.Context, sortKey string) ([]Costed, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Costed, 0, len(recipes))
	for _, rec := range recipes {
		out = append(out, Costed{Recipe: rec, Economics: rec.Economics()})
	}

	switch sortKey {
	case "margin":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Economics.MarginPercent > out[j].Economics.MarginPercent
		})
	case "cost":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Economics.TotalCost > out[j].Economics.TotalCost
		})
	case "name":
		// repository order is already by name
	default: // "profit"
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Economics.ProfitPerBatch > out[j].Economics.ProfitPerBatch
		})
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Costed, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Costed{Recipe: *rec, Economics: rec.Economics()}, nil
}

// UpdatePatch carries the editable recipe fields; nil = untouched.
type UpdatePatch struct {
	Portions        *int     `json:"portions"`
	Price           *float64 `json:"price"`
	PrepTimeMinutes *float64 `json:"prep_time"`
	LaborCost       *float64 `json:"labor_cost"`
}

func (s *Service) Update(ctx context.Context, id string, patch UpdatePatch) (*Costed, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Portions != nil {
		if *patch.Portions <= 0 {
			return nil, ErrInvalidPortions
		}
		rec.Portions = *patch.Portions
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, ErrNegativePrice
		}
		rec.Price = *patch.Price
	}
	if patch.PrepTimeMinutes != nil {
		rec.PrepTimeMinutes = patch.PrepTimeMinutes
	}
	if patch.LaborCost != nil {
		if *patch.LaborCost < 0 {
			return nil, ErrNegativePrice
		}
		rec.LaborCost = *patch.LaborCost
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return &Costed{Recipe: *rec, Economics: rec.Economics()}, nil
}

// Unlinked projects every recipe line that still needs operator
// review: no master link, or an auto-match below the confirmation
// threshold. Lines without a stored suggestion get one from the
// catalog matcher.
func (s *Service) Unlinked(ctx context.Context) ([]UnlinkedIngredient, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var out []UnlinkedIngredient
	for _, rec := range recipes {
		for i, line := range rec.Ingredients {
			if line.Linked() && line.Confidence >= confirmedConfidence {
				continue
			}

			item := UnlinkedIngredient{
				RecipeID:       rec.ID,
				RecipeName:     rec.Name,
				LineIndex:      i,
				IngredientName: line.Name,
				LinkedID:       line.IngredientID,
				Confidence:     line.Confidence,
				UnitCost:       line.UnitCost,
			}

			if item.LinkedID == "" {
				if m := ingredient.BestMatch(line.Name, line.UnitCost, catalog); m.IngredientID != "" {
					item.LinkedID = m.IngredientID
					item.Confidence = m.Confidence
				}
			}
			out = append(out, item)
		}
	}
	return out, nil
}

// Link points one recipe line at a master ingredient and reprices the
// line from the master's unit cost. Manual links are authoritative:
// confidence 1.0.
func (s *Service) Link(ctx context.Context, recipeID string, lineIndex int, masterIngredientID string) (*Costed, error) {
	rec, err := s.repo.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if lineIndex < 0 || lineIndex >= len(rec.Ingredients) {
		return nil, ErrLineOutOfRange
	}

	master, err := s.catalog.GetByID(ctx, masterIngredientID)
	if err != nil {
		if errors.Is(err, ingredient.ErrNotFound) {
			return nil, ErrUnknownIngredient
		}
		return nil, err
	}

	line := &rec.Ingredients[lineIndex]
	line.IngredientID = master.ID
	line.Confidence = 1.0
	line.MatchReason = "manual"

	if master.CostPerUnit > 0 {
		line.UnitCost = master.CostPerUnit
		if line.Quantity > 0 {
			line.Cost = line.Quantity * line.UnitCost
		}
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return &Costed{Recipe: *rec, Economics: rec.Economics()}, nil
}
