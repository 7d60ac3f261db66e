package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gabohq/backend/internal/domain"
	"github.com/gabohq/backend/internal/usecase"
)

// AskRequest is the payload for one assistant turn
type AskRequest struct {
	Message string `json:"message"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	assistant *usecase.AssistantService
	search    *usecase.SearchService
	catalog   domain.CatalogRepository
}

// NewHandler creates a new HTTP handler
func NewHandler(assistant *usecase.AssistantService, search *usecase.SearchService, catalog domain.CatalogRepository) *Handler {
	return &Handler{
		assistant: assistant,
		search:    search,
		catalog:   catalog,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "gabo-backend",
		"version": "1.0.0",
	})
}

// Ask runs one assistant turn over the posted message
func (h *Handler) Ask(c *gin.Context) {
	if h.assistant == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Assistant not configured",
		})
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "message is required",
		})
		return
	}

	result := h.assistant.HandleTurn(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, gin.H{
		"answer":         result.Answer,
		"intent":         result.Intent,
		"source":         result.Source,
		"term":           result.Term,
		"matches":        result.Matches,
		"confidence":     result.Confidence,
		"responseTimeMs": result.ResponseTime.Milliseconds(),
	})
}

// SearchProducts runs the exact-then-fuzzy catalog search for the q parameter
func (h *Handler) SearchProducts(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Catalog search not configured",
		})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "q parameter is required",
		})
		return
	}

	activeOnly := true
	if raw := c.Query("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "active must be a boolean",
			})
			return
		}
		activeOnly = parsed
	}

	products, err := h.search.Search(c.Request.Context(), query, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Catalog search failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    query,
		"count":    len(products),
		"products": products,
	})
}

// LowStock lists products at or below their minimum stock level
func (h *Handler) LowStock(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Catalog not configured",
		})
		return
	}

	products, err := h.catalog.LowStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Low stock query failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}
