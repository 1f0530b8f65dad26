package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campustrace-backend-go/internal/core"
	"campustrace-backend-go/internal/middleware"
	"campustrace-backend-go/internal/models"
)

// maxReportBodyBytes caps report payloads, which may carry a data URI photo.
const maxReportBodyBytes = 12 << 20

// ItemHandler handles API endpoints related to lost and found items.
type ItemHandler struct {
	items core.ItemService
	saved core.SavedService
	log   *zap.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items core.ItemService, saved core.SavedService, log *zap.Logger) *ItemHandler {
	return &ItemHandler{items: items, saved: saved, log: log}
}

// callerPrincipal returns the authenticated caller or writes a 401.
func callerPrincipal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok || p.UID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return models.Principal{}, false
	}
	return p, true
}

// ListItems handles GET /items
func (h *ItemHandler) ListItems(c *gin.Context) {
	filter := models.FeedFilter{
		Category: c.Query("category"),
		Type:     c.Query("type"),
		Sort:     c.Query("sort"),
	}
	items, err := h.items.Feed(c.Request.Context(), filter)
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItem handles GET /items/:itemId
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.items.GetItem(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetMatches handles GET /items/:itemId/matches
func (h *ItemHandler) GetMatches(c *gin.Context) {
	matches, err := h.items.SuggestMatches(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matchedItems": matches})
}

// ReportItem handles POST /items
func (h *ItemHandler) ReportItem(c *gin.Context) {
	p, ok := callerPrincipal(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxReportBodyBytes)
	var req models.ReportItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	item, err := h.items.ReportItem(c.Request.Context(), p, req)
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ResolveItem handles PATCH /items/:itemId/resolve
func (h *ItemHandler) ResolveItem(c *gin.Context) {
	p, ok := callerPrincipal(c)
	if !ok {
		return
	}
	item, err := h.items.ResolveItem(c.Request.Context(), p.UID, c.Param("itemId"))
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListMyItems handles GET /me/items
func (h *ItemHandler) ListMyItems(c *gin.Context) {
	p, ok := callerPrincipal(c)
	if !ok {
		return
	}
	items, err := h.items.UserItems(c.Request.Context(), p.UID)
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListSaved handles GET /me/saved
func (h *ItemHandler) ListSaved(c *gin.Context) {
	p, ok := callerPrincipal(c)
	if !ok {
		return
	}
	items, err := h.saved.ListSaved(c.Request.Context(), p.UID)
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ToggleSave handles POST /items/:itemId/save
func (h *ItemHandler) ToggleSave(c *gin.Context) {
	p, ok := callerPrincipal(c)
	if !ok {
		return
	}
	itemID := c.Param("itemId")
	saved, err := h.saved.Toggle(c.Request.Context(), p.UID, itemID)
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, SavedStateResponse{ItemID: itemID, Saved: saved})
}

// GetSaveState handles GET /items/:itemId/save
func (h *ItemHandler) GetSaveState(c *gin.Context) {
	p, ok := callerPrincipal(c)
	if !ok {
		return
	}
	itemID := c.Param("itemId")
	saved, err := h.saved.IsSaved(c.Request.Context(), p.UID, itemID)
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, SavedStateResponse{ItemID: itemID, Saved: saved})
}
