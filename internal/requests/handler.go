package requests

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/b0ase/portal-backend/internal/auth"
	"github.com/b0ase/portal-backend/pkg/storage"
)

// Handler handles HTTP requests for the intake/review lifecycle
type Handler struct {
	service *Service
	store   storage.ObjectStore
	logger  *zap.Logger
}

// NewHandler creates a new requests handler
func NewHandler(service *Service, store storage.ObjectStore, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		store:   store,
		logger:  logger,
	}
}

// RegisterPublicRoutes registers the unauthenticated intake endpoints
func (h *Handler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/requests", h.createRequest)
	router.POST("/requests/logo", h.uploadLogo)
}

// RegisterAdminRoutes registers the review endpoints on the admin group
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/client-requests", h.listRequests)
	admin.GET("/client-requests/:id", h.getRequest)
	admin.POST("/client-requests/:id/approve", h.approveRequest)
	admin.POST("/client-requests/:id/reject", h.rejectRequest)
	admin.POST("/client-requests/:id/resend-approval-email", h.resendApprovalEmail)
}

// createRequest handles POST /api/v1/requests
func (h *Handler) createRequest(c *gin.Context) {
	var input CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.service.CreateRequest(c.Request.Context(), &input)
	if err != nil {
		h.respondError(c, err, "Failed to create client request")
		return
	}

	c.JSON(http.StatusCreated, req)
}

// uploadLogo handles POST /api/v1/requests/logo
func (h *Handler) uploadLogo(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("logos/%s-%s",
		time.Now().UTC().Format("20060102T150405"),
		filepath.Base(fileHeader.Filename))

	url, err := h.store.Upload(c.Request.Context(), key, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("Logo upload failed", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// listRequests handles GET /api/v1/admin/client-requests
func (h *Handler) listRequests(c *gin.Context) {
	result, err := h.service.ListRequests(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to list client requests")
		return
	}

	c.JSON(http.StatusOK, result)
}

// getRequest handles GET /api/v1/admin/client-requests/:id
func (h *Handler) getRequest(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	req, err := h.service.GetRequest(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get client request")
		return
	}

	c.JSON(http.StatusOK, req)
}

// approveRequest handles POST /api/v1/admin/client-requests/:id/approve
func (h *Handler) approveRequest(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var input ApproveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.service.Approve(c.Request.Context(), id, auth.AdminEmail(c), &input)
	if err != nil {
		h.respondError(c, err, "Failed to approve client request")
		return
	}

	c.JSON(http.StatusOK, req)
}

// rejectRequest handles POST /api/v1/admin/client-requests/:id/reject
func (h *Handler) rejectRequest(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var input RejectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.service.Reject(c.Request.Context(), id, auth.AdminEmail(c), &input)
	if err != nil {
		h.respondError(c, err, "Failed to reject client request")
		return
	}

	c.JSON(http.StatusOK, req)
}

// resendApprovalEmail handles POST /api/v1/admin/client-requests/:id/resend-approval-email
func (h *Handler) resendApprovalEmail(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	message, err := h.service.ResendApprovalEmail(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to resend approval email")
		return
	}

	c.JSON(http.StatusOK, ResendResponse{Success: true, Message: message})
}

func (h *Handler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request ID"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotApproved), errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		// Internal error detail goes to the log, never to the client
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
