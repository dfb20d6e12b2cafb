package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rvpark-listings/internal/model"
)

// Moderator approves or rejects submitted listings.
type Moderator interface {
	PendingListings(ctx context.Context) ([]model.ListingRecord, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
}

// AdminHandler serves the moderation routes. Callers mount it behind the JWT
// middleware.
type AdminHandler struct {
	Moderation Moderator
}

func NewAdminHandler(m Moderator) *AdminHandler {
	return &AdminHandler{Moderation: m}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/listings/pending", h.GetPending)
	rg.PUT("/listings/:id/approve", h.Approve)
	rg.PUT("/listings/:id/reject", h.Reject)
}

// GET /api/admin/listings/pending
func (h *AdminHandler) GetPending(c *gin.Context) {
	list, err := h.Moderation.PendingListings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []model.ListingRecord{}
	}
	c.JSON(http.StatusOK, list)
}

// PUT /api/admin/listings/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	if err := h.Moderation.Approve(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "approved"})
}

// PUT /api/admin/listings/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	if err := h.Moderation.Reject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rejected"})
}
