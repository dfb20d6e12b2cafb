package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	apperrors "rvpark-listings/internal/errors"
	"rvpark-listings/internal/model"
	"rvpark-listings/internal/validator"
)

// ListingCatalog is the soft-failure read boundary the public routes serve from.
type ListingCatalog interface {
	FetchApprovedListings(ctx context.Context, f model.ListingFilters) []model.ListingRecord
	FetchFeaturedApprovedListings(ctx context.Context) []model.ListingRecord
	FetchApprovedListingByID(ctx context.Context, id string) *model.ListingRecord
	CountApprovedListings(ctx context.Context) int
}

// ListingHandler serves the public listing routes.
type ListingHandler struct {
	Catalog   ListingCatalog
	Validator *validator.Validator
}

func NewListingHandler(catalog ListingCatalog, v *validator.Validator) *ListingHandler {
	return &ListingHandler{Catalog: catalog, Validator: v}
}

// RegisterRoutes registers the public routes on the /api group.
func (h *ListingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/listings", h.GetApprovedListings)
	rg.GET("/listings/featured", h.GetFeaturedListings)
	rg.GET("/listings/count", h.CountListings)
	rg.GET("/listings/:id", h.GetListingByID)
	rg.GET("/home", h.GetHome)
}

// GET /api/listings?priceMin=...&priceMax=...&state=...&search=...
func (h *ListingHandler) GetApprovedListings(c *gin.Context) {
	filters, err := h.parseFilters(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Catalog.FetchApprovedListings(c.Request.Context(), filters))
}

// GET /api/listings/featured
func (h *ListingHandler) GetFeaturedListings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.FetchFeaturedApprovedListings(c.Request.Context()))
}

// GET /api/listings/count
func (h *ListingHandler) CountListings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": h.Catalog.CountApprovedListings(c.Request.Context())})
}

// GET /api/listings/:id
func (h *ListingHandler) GetListingByID(c *gin.Context) {
	id := c.Param("id")
	listing := h.Catalog.FetchApprovedListingByID(c.Request.Context(), id)
	if listing == nil {
		respondError(c, apperrors.NewListingNotFoundError(id))
		return
	}
	c.JSON(http.StatusOK, listing)
}

// HomeSummary is the payload of GET /api/home.
type HomeSummary struct {
	Featured      []model.ListingRecord `json:"featured"`
	TotalListings int                   `json:"totalListings"`
}

// GET /api/home
func (h *ListingHandler) GetHome(c *gin.Context) {
	var summary HomeSummary
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		summary.Featured = h.Catalog.FetchFeaturedApprovedListings(ctx)
		return nil
	})
	g.Go(func() error {
		summary.TotalListings = h.Catalog.CountApprovedListings(ctx)
		return nil
	})
	_ = g.Wait() // catalog reads never fail

	c.JSON(http.StatusOK, summary)
}

func (h *ListingHandler) parseFilters(c *gin.Context) (model.ListingFilters, error) {
	var f model.ListingFilters
	for key := range c.Request.URL.Query() {
		if _, ok := model.FilterKeys[key]; !ok {
			return f, apperrors.NewInvalidFilterError("unknown filter " + key)
		}
	}
	if err := c.ShouldBindQuery(&f); err != nil {
		return f, apperrors.NewInvalidFilterError(err.Error())
	}
	if err := h.Validator.ValidateStruct(f); err != nil {
		return f, apperrors.NewInvalidFilterError(err.Error())
	}
	return f, nil
}
