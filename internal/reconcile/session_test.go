package reconcile

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/llakewood/lrc-finance/internal/recipe"
)

// --------------------------------------------------
// Mock collaborators
// --------------------------------------------------

type mockLinker struct {
	mu      sync.Mutex
	calls   []string
	failOn  map[string]error
	release chan struct{} // when set, LinkIngredient blocks until closed
}

func newMockLinker() *mockLinker {
	return &mockLinker{failOn: make(map[string]error)}
}

func linkCallID(recipeID string, lineIndex int) string {
	return recipeID + "#" + strconv.Itoa(lineIndex)
}

func (m *mockLinker) LinkIngredient(ctx context.Context, recipeID string, lineIndex int, masterID string) error {
	m.mu.Lock()
	release := m.release
	m.calls = append(m.calls, linkCallID(recipeID, lineIndex)+"->"+masterID)
	err := m.failOn[linkCallID(recipeID, lineIndex)]
	m.mu.Unlock()

	if release != nil {
		<-release
	}
	return err
}

func (m *mockLinker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockInvalidator struct {
	mu   sync.Mutex
	tags []string
}

func (m *mockInvalidator) Invalidate(tags ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags = append(m.tags, tags...)
}

func (m *mockInvalidator) seen(tag string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func twoItemsSameRecipe() []recipe.UnlinkedIngredient {
	return []recipe.UnlinkedIngredient{
		{
			RecipeID:       "rec-1",
			RecipeName:     "Morning Glory Muffins",
			LineIndex:      0,
			IngredientName: "flour (all purpose)",
			UnitCost:       0.04,
		},
		{
			RecipeID:       "rec-1",
			RecipeName:     "Morning Glory Muffins",
			LineIndex:      2,
			IngredientName: "carrots - shredded",
			LinkedID:       "ing-carrot",
			Confidence:     0.72,
			UnitCost:       0.30,
		},
	}
}

// --------------------------------------------------
// TESTS
// --------------------------------------------------

func TestSubmit_LinkOneLeavesSiblingVisible(t *testing.T) {
	linker := newMockLinker()
	caches := &mockInvalidator{}
	s := NewSession(twoItemsSameRecipe(), linker, caches)

	first := Key{RecipeID: "rec-1", LineIndex: 0}
	if err := s.Select(first, "ing-flour"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Submit(context.Background(), first); err != nil {
		t.Fatalf("submit: %v", err)
	}

	groups := s.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected recipe heading to remain, got %d groups", len(groups))
	}
	if groups[0].RecipeName != "Morning Glory Muffins" {
		t.Errorf("unexpected group name %q", groups[0].RecipeName)
	}
	if len(groups[0].Items) != 1 {
		t.Fatalf("expected only the sibling to remain, got %d items", len(groups[0].Items))
	}
	if groups[0].Items[0].LineIndex != 2 {
		t.Errorf("wrong item removed: remaining line index %d", groups[0].Items[0].LineIndex)
	}
	if s.Remaining() != 1 {
		t.Errorf("expected remaining 1, got %d", s.Remaining())
	}
	if s.Status(first) != StatusLinked {
		t.Errorf("expected linked status, got %s", s.Status(first))
	}
}

func TestSubmit_HeadingDisappearsWhenGroupDone(t *testing.T) {
	linker := newMockLinker()
	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})

	for _, k := range []Key{{"rec-1", 0}, {"rec-1", 2}} {
		_ = s.Select(k, "ing-x")
		if err := s.Submit(context.Background(), k); err != nil {
			t.Fatalf("submit %v: %v", k, err)
		}
	}

	if groups := s.Groups(); len(groups) != 0 {
		t.Errorf("expected no groups once all items linked, got %d", len(groups))
	}
	if s.Remaining() != 0 {
		t.Errorf("expected remaining 0, got %d", s.Remaining())
	}
}

func TestSubmit_FailurePreservesSelectionAndReenables(t *testing.T) {
	linker := newMockLinker()
	key := Key{RecipeID: "rec-1", LineIndex: 0}
	linker.failOn[linkCallID("rec-1", 0)] = errors.New("network down")

	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})
	if err := s.Select(key, "ing-flour"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := s.Submit(context.Background(), key); err == nil {
		t.Fatal("expected submit error")
	}

	if s.Status(key) != StatusFailed {
		t.Errorf("expected failed status, got %s", s.Status(key))
	}
	if sel, ok := s.Selection(key); !ok || sel != "ing-flour" {
		t.Errorf("selection lost after failure: %q (present=%v)", sel, ok)
	}
	if !s.CanSubmit(key) {
		t.Error("submit must be re-enabled after failure")
	}

	// retry succeeds without re-choosing
	delete(linker.failOn, linkCallID("rec-1", 0))
	if err := s.Submit(context.Background(), key); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s.Status(key) != StatusLinked {
		t.Errorf("expected linked after retry, got %s", s.Status(key))
	}
}

func TestSubmit_RefusesSecondSubmitOfSameItem(t *testing.T) {
	linker := newMockLinker()
	linker.release = make(chan struct{})

	key := Key{RecipeID: "rec-1", LineIndex: 0}
	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})
	_ = s.Select(key, "ing-flour")

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), key) }()

	// wait for the first submit to be in flight
	for s.Status(key) != StatusSubmitting {
		time.Sleep(time.Millisecond)
	}

	if err := s.Submit(context.Background(), key); !errors.Is(err, ErrInFlight) {
		t.Errorf("expected ErrInFlight, got %v", err)
	}
	if s.CanSubmit(key) {
		t.Error("submit control must be disabled while in flight")
	}

	// the sibling item is not blocked
	sibling := Key{RecipeID: "rec-1", LineIndex: 2}
	if !s.CanSubmit(sibling) {
		t.Error("sibling item must remain submittable")
	}

	close(linker.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if linker.callCount() != 1 {
		t.Errorf("expected exactly one mutation, got %d", linker.callCount())
	}
}

func TestSubmit_SuggestionUsedWhenNoExplicitSelection(t *testing.T) {
	linker := newMockLinker()
	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})

	// line 2 carries a suggestion, line 0 does not
	suggested := Key{RecipeID: "rec-1", LineIndex: 2}
	bare := Key{RecipeID: "rec-1", LineIndex: 0}

	if !s.CanSubmit(suggested) {
		t.Error("item with a suggestion must be submittable without a selection")
	}
	if s.CanSubmit(bare) {
		t.Error("item with neither selection nor suggestion must not be submittable")
	}
	if err := s.Submit(context.Background(), bare); !errors.Is(err, ErrNoTarget) {
		t.Errorf("expected ErrNoTarget, got %v", err)
	}

	if err := s.Submit(context.Background(), suggested); err != nil {
		t.Fatalf("submit with suggestion: %v", err)
	}
	linker.mu.Lock()
	last := linker.calls[len(linker.calls)-1]
	linker.mu.Unlock()
	if last != linkCallID("rec-1", 2)+"->ing-carrot" {
		t.Errorf("expected suggestion id submitted, got %q", last)
	}
}

func TestSubmit_SuccessInvalidatesDerivedViews(t *testing.T) {
	linker := newMockLinker()
	caches := &mockInvalidator{}
	s := NewSession(twoItemsSameRecipe(), linker, caches)

	key := Key{RecipeID: "rec-1", LineIndex: 0}
	_ = s.Select(key, "ing-flour")
	if err := s.Submit(context.Background(), key); err != nil {
		t.Fatalf("submit: %v", err)
	}

	for _, tag := range []string{
		recipe.TagUnlinked,
		recipe.TagDetail("rec-1"),
		recipe.TagList,
	} {
		if !caches.seen(tag) {
			t.Errorf("expected tag %q invalidated", tag)
		}
	}
}

func TestReset_ClearsAllSessionState(t *testing.T) {
	linker := newMockLinker()
	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})

	first := Key{RecipeID: "rec-1", LineIndex: 0}
	_ = s.Select(first, "ing-flour")
	if err := s.Submit(context.Background(), first); err != nil {
		t.Fatalf("submit: %v", err)
	}
	_ = s.Select(Key{RecipeID: "rec-1", LineIndex: 2}, "ing-other")

	// close and reopen with the same server-side list
	s.Reset(twoItemsSameRecipe())
	after := s.Groups()

	if len(after) != 1 || len(after[0].Items) != 2 {
		t.Fatalf("reopened session must show the full server list, got %+v", after)
	}
	for _, item := range after[0].Items {
		if item.Status != "unresolved" {
			t.Errorf("stale status leaked into new session: %s", item.Status)
		}
		if item.Selection != "" {
			t.Errorf("stale selection leaked into new session: %q", item.Selection)
		}
	}
	if s.Remaining() != 2 {
		t.Errorf("expected remaining 2 after reopen, got %d", s.Remaining())
	}

	// a second close/reopen cycle reproduces the same view
	s.Reset(twoItemsSameRecipe())
	again := s.Groups()
	if len(again) != len(after) || len(again[0].Items) != len(after[0].Items) {
		t.Error("reopening with the same list must reproduce the same grouped view")
	}
}

func TestSubmit_LateCompletionAfterResetIsNoop(t *testing.T) {
	linker := newMockLinker()
	linker.release = make(chan struct{})
	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})

	key := Key{RecipeID: "rec-1", LineIndex: 0}
	_ = s.Select(key, "ing-flour")

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), key) }()
	for s.Status(key) != StatusSubmitting {
		time.Sleep(time.Millisecond)
	}

	// session closes while the mutation is in flight
	s.Reset(nil)

	close(linker.release)
	<-done

	// the late completion must not resurrect any state
	if s.Remaining() != 0 {
		t.Errorf("expected empty session, remaining %d", s.Remaining())
	}
	if s.Status(key) != StatusUnresolved {
		t.Errorf("late completion wrote into the new session: %s", s.Status(key))
	}
	if _, ok := s.Selection(key); ok {
		t.Error("late completion restored a selection")
	}
}

func TestRefresh_AuthoritativeReadWins(t *testing.T) {
	linker := newMockLinker()
	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})

	key := Key{RecipeID: "rec-1", LineIndex: 0}
	_ = s.Select(key, "ing-flour")
	if err := s.Submit(context.Background(), key); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.Remaining() != 1 {
		t.Fatalf("expected optimistic removal, remaining %d", s.Remaining())
	}

	// another client raced us: the server still reports the item
	s.Refresh(twoItemsSameRecipe())

	groups := s.Groups()
	if len(groups) != 1 || len(groups[0].Items) != 2 {
		t.Fatalf("server-reported item must reappear, got %+v", groups)
	}
	if s.Status(key) != StatusUnresolved {
		t.Errorf("reappeared item must start over, got %s", s.Status(key))
	}

	// refresh reporting the item gone keeps it gone
	s.Refresh(twoItemsSameRecipe()[1:])
	if s.Remaining() != 1 {
		t.Errorf("expected remaining 1 after shrinking refresh, got %d", s.Remaining())
	}
}

func TestRefresh_DropsCompletionForRemovedInFlightItem(t *testing.T) {
	linker := newMockLinker()
	linker.release = make(chan struct{})
	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})

	key := Key{RecipeID: "rec-1", LineIndex: 0}
	_ = s.Select(key, "ing-flour")

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), key) }()
	for s.Status(key) != StatusSubmitting {
		time.Sleep(time.Millisecond)
	}

	// the server applied the link already and a refetch raced the
	// completion: the refreshed list no longer carries the key
	s.Refresh(twoItemsSameRecipe()[1:])

	close(linker.release)
	if err := <-done; err != nil {
		t.Fatalf("submit: %v", err)
	}

	// the sibling is still pending; the completion for the removed
	// key must not skew the count or the grouped view
	if s.Remaining() != 1 {
		t.Errorf("expected remaining 1, got %d", s.Remaining())
	}
	groups := s.Groups()
	if len(groups) != 1 || len(groups[0].Items) != 1 {
		t.Fatalf("expected one pending item, got %+v", groups)
	}
	if groups[0].Items[0].LineIndex != 2 {
		t.Errorf("wrong item visible: line %d", groups[0].Items[0].LineIndex)
	}
	if s.Status(key) != StatusUnresolved {
		t.Errorf("removed key must carry no status, got %s", s.Status(key))
	}
}

func TestRefresh_KeepsSelectionsForSurvivingItems(t *testing.T) {
	linker := newMockLinker()
	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})

	key := Key{RecipeID: "rec-1", LineIndex: 2}
	_ = s.Select(key, "ing-carrot-2")

	s.Refresh(twoItemsSameRecipe())

	if sel, ok := s.Selection(key); !ok || sel != "ing-carrot-2" {
		t.Errorf("selection for surviving item lost: %q (present=%v)", sel, ok)
	}
	if s.Status(key) != StatusSelecting {
		t.Errorf("expected selecting status to survive refresh, got %s", s.Status(key))
	}
}

func TestSelect_RefusedWhileInFlightOrLinked(t *testing.T) {
	linker := newMockLinker()
	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})

	key := Key{RecipeID: "rec-1", LineIndex: 0}
	_ = s.Select(key, "ing-flour")
	if err := s.Submit(context.Background(), key); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := s.Select(key, "ing-other"); !errors.Is(err, ErrAlreadyLinked) {
		t.Errorf("expected ErrAlreadyLinked, got %v", err)
	}
	if err := s.Select(Key{RecipeID: "ghost", LineIndex: 9}, "x"); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
}

func TestSelect_ClearingReturnsToUnresolved(t *testing.T) {
	linker := newMockLinker()
	s := NewSession(twoItemsSameRecipe(), linker, &mockInvalidator{})

	key := Key{RecipeID: "rec-1", LineIndex: 0}
	_ = s.Select(key, "ing-flour")
	if s.Status(key) != StatusSelecting {
		t.Fatalf("expected selecting, got %s", s.Status(key))
	}

	_ = s.Select(key, "")
	if s.Status(key) != StatusUnresolved {
		t.Errorf("expected unresolved after clearing, got %s", s.Status(key))
	}
	if s.CanSubmit(key) {
		t.Error("cleared item without suggestion must not be submittable")
	}
}
