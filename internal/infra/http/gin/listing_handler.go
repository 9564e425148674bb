package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/policies"
	"stayfinder/internal/domain/listings"
)

// ListingHandler proxies the browse surface to the remote listing source.
type ListingHandler struct {
	Listings policies.ListingPort
}

func (h ListingHandler) Catalog(c *gin.Context) {
	query := listings.CatalogQuery{
		Location: c.Query("location"),
		CheckIn:  c.Query("checkIn"),
		CheckOut: c.Query("checkOut"),
		Guests:   queryInt(c, "guests"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	}
	page, err := h.Listings.Search(c.Request.Context(), query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapCatalog(page, query))
}

func (h ListingHandler) Get(c *gin.Context) {
	listing, err := h.Listings.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapListing(*listing))
}

func queryInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

var _ ListingHTTP = ListingHandler{}
