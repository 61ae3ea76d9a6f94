package ingredient

// Ingredient is a master catalog entry. Recipe lines reference it by
// id; they never own it.
type Ingredient struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	Unit        string  `json:"unit"`
	CostPerUnit float64 `json:"cost_per_unit"`
	Supplier    *string `json:"supplier,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}
