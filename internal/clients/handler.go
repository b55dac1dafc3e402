package clients

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for client records
type Handler struct {
	repo   Repository
	logger *zap.Logger
}

// NewHandler creates a new clients handler
func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers client routes on the admin group
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/clients", h.listClients)
	admin.GET("/clients/:email", h.getClient)
}

// listClients handles GET /api/v1/admin/clients
func (h *Handler) listClients(c *gin.Context) {
	result, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// getClient handles GET /api/v1/admin/clients/:email
func (h *Handler) getClient(c *gin.Context) {
	client, err := h.repo.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to get client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get client"})
		return
	}

	c.JSON(http.StatusOK, client)
}
