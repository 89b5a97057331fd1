package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediabrief/internal/catalog"
)

// CatalogLookup is the read side of the publisher catalog.
type CatalogLookup interface {
	Version() string
	Publishers(channel, state string) []catalog.Publisher
	Placements(channel, state, publisher string) []catalog.Placement
}

// CatalogHandler serves publisher and placement lookups for the declaration form.
type CatalogHandler struct {
	catalog CatalogLookup
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c CatalogLookup) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// Publishers handles GET /api/v1/catalog/publishers
// @Summary List publishers
// @Description List the publishers selling a channel in a state
// @Tags catalog
// @Produce json
// @Param channel query string true "Channel code"
// @Param state query string true "State code"
// @Success 200 {object} Response{data=[]catalog.Publisher} "Publishers"
// @Failure 400 {object} ErrorResponseBody "Missing query parameter"
// @Router /catalog/publishers [get]
func (h *CatalogHandler) Publishers(c *gin.Context) {
	channel, state := c.Query("channel"), c.Query("state")
	if channel == "" || state == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "channel and state are required")
		return
	}
	list := h.catalog.Publishers(channel, state)
	c.Header("X-Catalog-Version", h.catalog.Version())
	RespondList(c, list, len(list))
}

// Placements handles GET /api/v1/catalog/placements
// @Summary List placements
// @Description List a publisher's placements for a channel in a state
// @Tags catalog
// @Produce json
// @Param channel query string true "Channel code"
// @Param state query string true "State code"
// @Param publisher query string true "Publisher code"
// @Success 200 {object} Response{data=[]catalog.Placement} "Placements"
// @Failure 400 {object} ErrorResponseBody "Missing query parameter"
// @Router /catalog/placements [get]
func (h *CatalogHandler) Placements(c *gin.Context) {
	channel, state, publisher := c.Query("channel"), c.Query("state"), c.Query("publisher")
	if channel == "" || state == "" || publisher == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "channel, state and publisher are required")
		return
	}
	list := h.catalog.Placements(channel, state, publisher)
	c.Header("X-Catalog-Version", h.catalog.Version())
	RespondList(c, list, len(list))
}
