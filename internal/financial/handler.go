package financial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Archive stores source documents. Implemented by storage.Client.
type Archive interface {
	Upload(ctx context.Context, key string, body io.Reader) (string, error)
}

type Handler struct {
	service *Service
	archive Archive
}

func NewHandler(service *Service, archive Archive) *Handler {
	return &Handler{service: service, archive: archive}
}

// --------------------------------------------------
// Reports
// --------------------------------------------------
func (h *Handler) Summary(c *gin.Context) {
	metrics, err := h.service.Summary(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNoPeriods) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no financial data imported yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": metrics})
}

func (h *Handler) Debts(c *gin.Context) {
	report, err := h.service.Debts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Benchmarks(c *gin.Context) {
	reports, err := h.service.Benchmarks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"benchmarks": reports})
}

// --------------------------------------------------
// Source document archive (OWNER only)
// --------------------------------------------------
func (h *Handler) UploadDocument(c *gin.Context) {
	file, header, err := c.Request.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".pdf", ".csv", ".xlsx", ".xls":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported document type"})
		return
	}

	doc := &Document{
		ID:         uuid.New().String(),
		Filename:   header.Filename,
		UploadedAt: time.Now().UTC(),
	}
	doc.ObjectKey = fmt.Sprintf("statements/%s%s", doc.ID, ext)

	url, err := h.archive.Upload(c.Request.Context(), doc.ObjectKey, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	doc.URL = url

	if err := h.service.RecordDocument(c.Request.Context(), doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, doc)
}
