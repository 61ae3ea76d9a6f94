package reconcile

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/llakewood/lrc-finance/internal/recipe"
)

// LinkerFunc adapts a plain function to the Linker contract.
type LinkerFunc func(ctx context.Context, recipeID string, lineIndex int, masterIngredientID string) error

func (f LinkerFunc) LinkIngredient(ctx context.Context, recipeID string, lineIndex int, masterIngredientID string) error {
	return f(ctx, recipeID, lineIndex, masterIngredientID)
}

// UnlinkedLister provides the server-side unlinked projection.
// Implemented by the recipe service.
type UnlinkedLister interface {
	Unlinked(ctx context.Context) ([]recipe.UnlinkedIngredient, error)
}

type Handler struct {
	session *Session
	lister  UnlinkedLister
}

func NewHandler(lister UnlinkedLister, linker Linker, caches Invalidator) *Handler {
	return &Handler{
		session: NewSession(nil, linker, caches),
		lister:  lister,
	}
}

// --------------------------------------------------
// Session lifecycle
// --------------------------------------------------

// Open starts a fresh session from the current unlinked list. Any
// state from a previous session is discarded first.
func (h *Handler) Open(c *gin.Context) {
	items, err := h.lister.Unlinked(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.session.Reset(items)
	h.view(c)
}

// Refresh re-reads the unlinked list mid-session. The authoritative
// read wins over optimistic removals.
func (h *Handler) Refresh(c *gin.Context) {
	items, err := h.lister.Unlinked(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.session.Refresh(items)
	h.view(c)
}

// Close discards all session state. In-flight mutations finish
// server-side; their completions are dropped.
func (h *Handler) Close(c *gin.Context) {
	h.session.Reset(nil)
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

// View returns the grouped pending items and remaining count.
func (h *Handler) View(c *gin.Context) {
	h.view(c)
}

func (h *Handler) view(c *gin.Context) {
	groups := h.session.Groups()
	c.JSON(http.StatusOK, gin.H{
		"groups":    groups,
		"remaining": h.session.Remaining(),
	})
}

// --------------------------------------------------
// Operator actions
// --------------------------------------------------

type selectRequest struct {
	Key
	IngredientID string `json:"ingredient_id"`
}

func (h *Handler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.session.Select(req.Key, req.IngredientID); err != nil {
		status := http.StatusConflict
		if errors.Is(err, ErrUnknownItem) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": h.session.Status(req.Key).String()})
}

func (h *Handler) Submit(c *gin.Context) {
	var req Key
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.session.Submit(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, ErrUnknownItem):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNoTarget), errors.Is(err, ErrInFlight), errors.Is(err, ErrAlreadyLinked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			// mutation failure: recoverable, the item keeps its
			// selection and can be resubmitted
			log.Printf("link failed for %s[%d]: %v", req.RecipeID, req.LineIndex, err)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":  err.Error(),
				"status": h.session.Status(req).String(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    h.session.Status(req).String(),
		"remaining": h.session.Remaining(),
	})
}
