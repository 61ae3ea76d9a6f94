package recipe

import "github.com/llakewood/lrc-finance/internal/costing"

// IngredientLine is one ingredient row inside a recipe, identified by
// its position. It either links to a master ingredient or carries a
// best-effort cost estimate until the operator links it.
type IngredientLine struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	UnitCost     float64 `json:"unit_cost"`
	Cost         float64 `json:"cost"`
	IngredientID string  `json:"ingredient_id,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	MatchReason  string  `json:"match_reason,omitempty"`
}

// Linked reports whether the line points at a master ingredient.
func (l IngredientLine) Linked() bool {
	return l.IngredientID != ""
}

type Recipe struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Category        string           `json:"category,omitempty"`
	Portions        int              `json:"portions"`
	Price           float64          `json:"price"`
	PrepTimeMinutes *float64         `json:"prep_time,omitempty"`
	LaborCost       float64          `json:"labor_cost"`
	Ingredients     []IngredientLine `json:"ingredients"`
}

// IngredientCost is the sum of line costs, labor excluded.
func (r *Recipe) IngredientCost() float64 {
	var sum float64
	for _, line := range r.Ingredients {
		sum += line.Cost
	}
	return sum
}

// Economics derives the batch figures from current fields. Derived
// values are never stored, so they cannot go stale against the lines.
func (r *Recipe) Economics() costing.BatchEconomics {
	return costing.ForBatch(r.IngredientCost(), r.LaborCost, r.Price, r.Portions)
}

// UnlinkedIngredient is the server-side projection of one recipe line
// that still needs an operator-confirmed master-ingredient link. It is
// ephemeral: recomputed whenever linkage state changes.
type UnlinkedIngredient struct {
	RecipeID       string  `json:"recipe_id"`
	RecipeName     string  `json:"recipe_name"`
	LineIndex      int     `json:"ingredient_index"`
	IngredientName string  `json:"ingredient_name"`
	LinkedID       string  `json:"linked_id,omitempty"`
	Confidence     float64 `json:"confidence"`
	UnitCost       float64 `json:"unit_cost"`
}
