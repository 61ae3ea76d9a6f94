package recipe

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/llakewood/lrc-finance/internal/cache"
)

type Handler struct {
	service *Service
	caches  *cache.Store
}

func NewHandler(service *Service, caches *cache.Store) *Handler {
	h := &Handler{service: service, caches: caches}

	// derived views behind invalidation tags; the link path marks
	// them stale instead of mutating cached shapes
	caches.Register(TagUnlinked, func(ctx context.Context) (any, error) {
		return service.Unlinked(ctx)
	})
	caches.Register(TagList, func(ctx context.Context) (any, error) {
		return service.List(ctx, "profit")
	})

	return h
}

// --------------------------------------------------
// Recipe reads
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	sortKey := c.DefaultQuery("sort", "profit")

	if sortKey == "profit" {
		// default sort is served from the tag cache
		v, err := h.caches.Get(c.Request.Context(), TagList)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recipes": v})
		return
	}

	recipes, err := h.service.List(c.Request.Context(), sortKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *Handler) Get(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) Unlinked(c *gin.Context) {
	v, err := h.caches.Get(c.Request.Context(), TagUnlinked)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlinked": v})
}

// --------------------------------------------------
// Recipe edits
// --------------------------------------------------
func (h *Handler) Update(c *gin.Context) {
	var patch UpdatePatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	rec, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		case errors.Is(err, ErrInvalidPortions), errors.Is(err, ErrNegativePrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	// edits change derived economics everywhere this recipe shows
	h.caches.Invalidate(TagList, TagDetail(rec.ID))

	c.JSON(http.StatusOK, rec)
}

// --------------------------------------------------
// Ingredient linking (direct mutation; the reconcile
// session drives this same path for the workflow)
// --------------------------------------------------
func (h *Handler) Link(c *gin.Context) {
	lineIndex, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient index"})
		return
	}

	var req struct {
		MasterIngredientID string `json:"master_ingredient_id"`
	}
	if err := c.BindJSON(&req); err != nil || req.MasterIngredientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "master_ingredient_id is required"})
		return
	}

	rec, err := h.service.Link(c.Request.Context(), c.Param("id"), lineIndex, req.MasterIngredientID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		case errors.Is(err, ErrLineOutOfRange), errors.Is(err, ErrUnknownIngredient):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("link failed for recipe %s line %d: %v", c.Param("id"), lineIndex, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.caches.Invalidate(TagUnlinked, TagDetail(rec.ID), TagList)

	c.JSON(http.StatusOK, rec)
}

// LinkIngredient adapts the service's link mutation to the
// reconciliation session's Linker contract.
func (h *Handler) LinkIngredient(ctx context.Context, recipeID string, lineIndex int, masterIngredientID string) error {
	_, err := h.service.Link(ctx, recipeID, lineIndex, masterIngredientID)
	return err
}
