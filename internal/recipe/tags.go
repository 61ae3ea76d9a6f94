package recipe

// Cache tags for the derived recipe views. A successful link
// invalidates all three: linking changes the authoritative cost of a
// line and therefore every view showing that recipe's economics.
const (
	TagUnlinked = "recipes:unlinked"
	TagList     = "recipes:list"
)

func TagDetail(recipeID string) string {
	return "recipes:detail:" + recipeID
}
