package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/llakewood/lrc-finance/internal/recipe"
)

// A Session drives an operator through resolving unlinked recipe
// lines to master ingredients, one mutation at a time. State lives
// only for the lifetime of the session; closing it discards
// everything.

var (
	ErrUnknownItem   = errors.New("item is not part of this session")
	ErrNoTarget      = errors.New("no master ingredient selected and no suggestion")
	ErrInFlight      = errors.New("link already in flight for this item")
	ErrAlreadyLinked = errors.New("item already linked in this session")
)

// Key identifies one recipe line across the session.
type Key struct {
	RecipeID  string `json:"recipe_id"`
	LineIndex int    `json:"ingredient_index"`
}

// Status is the per-item state. Exactly one holds at a time, so
// illegal combinations (Submitting and Linked at once) cannot occur.
type Status int

const (
	StatusUnresolved Status = iota
	StatusSelecting
	StatusSubmitting
	StatusLinked
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSelecting:
		return "selecting"
	case StatusSubmitting:
		return "submitting"
	case StatusLinked:
		return "linked"
	case StatusFailed:
		return "failed"
	default:
		return "unresolved"
	}
}

// Linker submits one link mutation. Implemented by the recipe service.
type Linker interface {
	LinkIngredient(ctx context.Context, recipeID string, lineIndex int, masterIngredientID string) error
}

// Invalidator marks derived views stale. Implemented by cache.Store.
type Invalidator interface {
	Invalidate(tags ...string)
}

type Session struct {
	mu     sync.Mutex
	epoch  uint64 // bumped on Reset; completions from older epochs are dropped
	order  []Key
	items  map[Key]recipe.UnlinkedIngredient
	status map[Key]Status

	// operator choices not yet submitted
	selections map[Key]string

	// optimistically hidden, pending the next authoritative read
	linked map[Key]struct{}

	linker Linker
	caches Invalidator
}

func NewSession(items []recipe.UnlinkedIngredient, linker Linker, caches Invalidator) *Session {
	s := &Session{linker: linker, caches: caches}
	s.seed(items)
	return s
}

// seed replaces all per-item state. Callers hold s.mu or own s solely.
func (s *Session) seed(items []recipe.UnlinkedIngredient) {
	s.order = make([]Key, 0, len(items))
	s.items = make(map[Key]recipe.UnlinkedIngredient, len(items))
	s.status = make(map[Key]Status, len(items))
	s.selections = make(map[Key]string)
	s.linked = make(map[Key]struct{})

	for _, item := range items {
		k := Key{RecipeID: item.RecipeID, LineIndex: item.LineIndex}
		if _, dup := s.items[k]; dup {
			continue
		}
		s.order = append(s.order, k)
		s.items[k] = item
		s.status[k] = StatusUnresolved
	}
}

// Reset starts a fresh session over a new unlinked list. Selections
// and the optimistic linked set never survive a session boundary.
// In-flight mutations keep running server-side; their completions see
// a newer epoch and write nothing.
func (s *Session) Reset(items []recipe.UnlinkedIngredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.seed(items)
}

// Refresh applies a background refetch of the unlinked list without
// ending the session. The authoritative read wins: an item the server
// still reports reappears even if it was optimistically hidden, and
// items the server no longer reports vanish. Selections for surviving
// items are kept so the operator does not re-choose.
func (s *Session) Refresh(items []recipe.UnlinkedIngredient) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevStatus := s.status
	prevSelections := s.selections

	s.order = make([]Key, 0, len(items))
	s.items = make(map[Key]recipe.UnlinkedIngredient, len(items))
	s.status = make(map[Key]Status, len(items))
	s.selections = make(map[Key]string)
	s.linked = make(map[Key]struct{})

	for _, item := range items {
		k := Key{RecipeID: item.RecipeID, LineIndex: item.LineIndex}
		if _, dup := s.items[k]; dup {
			continue
		}
		s.order = append(s.order, k)
		s.items[k] = item

		switch prevStatus[k] {
		case StatusSubmitting:
			s.status[k] = StatusSubmitting
		case StatusSelecting, StatusFailed:
			s.status[k] = prevStatus[k]
			if sel, ok := prevSelections[k]; ok {
				s.selections[k] = sel
			}
		default:
			// a previously "linked" item reported again starts over
			s.status[k] = StatusUnresolved
		}
	}
}

// Select records the operator's dropdown choice for one item. An
// empty id clears the choice. Refused while a mutation is in flight,
// mirroring the disabled control.
func (s *Session) Select(key Key, ingredientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return ErrUnknownItem
	}
	switch s.status[key] {
	case StatusSubmitting:
		return ErrInFlight
	case StatusLinked:
		return ErrAlreadyLinked
	}

	if ingredientID == "" {
		delete(s.selections, key)
		s.status[key] = StatusUnresolved
		return nil
	}
	s.selections[key] = ingredientID
	s.status[key] = StatusSelecting
	return nil
}

// target resolves the id a submission would link to: the explicit
// selection, else the item's own suggestion.
func (s *Session) target(key Key) string {
	if id, ok := s.selections[key]; ok {
		return id
	}
	return s.items[key].LinkedID
}

// CanSubmit reports whether the submit control for key is enabled.
func (s *Session) CanSubmit(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return false
	}
	switch s.status[key] {
	case StatusSubmitting, StatusLinked:
		return false
	}
	return s.target(key) != ""
}

// Submit issues the link mutation for one item. It blocks until the
// mutation completes; different items may be submitted concurrently,
// but a second Submit for the same key while one is in flight is
// refused. On success the item is hidden optimistically and the
// derived recipe views are invalidated. On failure the item returns
// to its previous selection so the operator can retry.
func (s *Session) Submit(ctx context.Context, key Key) error {
	s.mu.Lock()
	if _, ok := s.items[key]; !ok {
		s.mu.Unlock()
		return ErrUnknownItem
	}
	switch s.status[key] {
	case StatusSubmitting:
		s.mu.Unlock()
		return ErrInFlight
	case StatusLinked:
		s.mu.Unlock()
		return ErrAlreadyLinked
	}
	masterID := s.target(key)
	if masterID == "" {
		s.mu.Unlock()
		return ErrNoTarget
	}
	s.status[key] = StatusSubmitting
	epoch := s.epoch
	s.mu.Unlock()

	err := s.linker.LinkIngredient(ctx, key.RecipeID, key.LineIndex, masterID)

	s.mu.Lock()
	if s.epoch != epoch {
		// session was reset or closed while in flight; the write
		// targets state nobody is looking at anymore
		s.mu.Unlock()
		return err
	}
	if _, ok := s.items[key]; !ok {
		// a refresh stopped reporting this line mid-flight; the
		// authoritative read already reflects the outcome, so a
		// status or linked entry here would orphan the counts.
		// The mutation itself still happened, so the derived views
		// must go stale.
		s.mu.Unlock()
		if err == nil {
			s.caches.Invalidate(
				recipe.TagUnlinked,
				recipe.TagDetail(key.RecipeID),
				recipe.TagList,
			)
		}
		return err
	}

	if err != nil {
		// selection survives so the operator can retry as-is
		s.status[key] = StatusFailed
		s.mu.Unlock()
		return err
	}

	s.status[key] = StatusLinked
	s.linked[key] = struct{}{}
	delete(s.selections, key)
	recipeID := key.RecipeID
	s.mu.Unlock()

	s.caches.Invalidate(
		recipe.TagUnlinked,
		recipe.TagDetail(recipeID),
		recipe.TagList,
	)
	return nil
}

// Status returns the per-item state, Unresolved for unknown keys.
func (s *Session) Status(key Key) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status[key]
}

// Selection returns the operator's unsaved choice for key, if any.
func (s *Session) Selection(key Key) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.selections[key]
	return id, ok
}

// Item is one pending entry in the grouped view.
type Item struct {
	recipe.UnlinkedIngredient
	Status    string `json:"status"`
	Selection string `json:"selection,omitempty"`
}

// Group is all pending items of one recipe. A recipe's heading
// disappears once every item in it is linked.
type Group struct {
	RecipeName string `json:"recipe_name"`
	Items      []Item `json:"items"`
}

// Groups returns the pending items grouped by recipe name, in the
// order the server reported them. Optimistically linked items are
// hidden without waiting for a refetch.
func (s *Session) Groups() []Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	var groups []Group
	index := make(map[string]int)

	for _, k := range s.order {
		if _, hidden := s.linked[k]; hidden {
			continue
		}
		item := s.items[k]

		gi, ok := index[item.RecipeName]
		if !ok {
			gi = len(groups)
			index[item.RecipeName] = gi
			groups = append(groups, Group{RecipeName: item.RecipeName})
		}
		groups[gi].Items = append(groups[gi].Items, Item{
			UnlinkedIngredient: item,
			Status:             s.status[k].String(),
			Selection:          s.selections[k],
		})
	}
	return groups
}

// Remaining counts items not yet linked this session. Zero means the
// workflow is done and the caller can offer to close.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order) - len(s.linked)
}
