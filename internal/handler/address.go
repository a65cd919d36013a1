package handler

import (
	"context"
	"net/http"
	"strconv"

	"address-api/internal/models"

	"github.com/gin-gonic/gin"
)

// AddressHandler handles the /addresses endpoints
type AddressHandler struct {
	service AddressService
}

// Service interface for dependency injection
type AddressService interface {
	ListAll(ctx context.Context) ([]models.Address, error)
	Get(ctx context.Context, id int64) (*models.Address, error)
	Create(ctx context.Context, name string, lat, lon float64) (*models.Address, error)
	Update(ctx context.Context, id int64, name string, lat, lon float64) (*models.Address, error)
	Delete(ctx context.Context, id int64) error
	FilterByDistance(ctx context.Context, lat, lon, maxKm float64) ([]models.Address, error)
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(svc AddressService) *AddressHandler {
	return &AddressHandler{service: svc}
}

// Create handles POST /addresses/ requests
//
//	@Summary	Create an address
//	@Tags		addresses
//	@Accept		json
//	@Produce	json
//	@Param		address	body		models.AddressRequest	true	"Address to create"
//	@Success	200		{object}	models.Address
//	@Failure	400		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/addresses/ [post]
func (h *AddressHandler) Create(c *gin.Context) {
	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	addr, err := h.service.Create(c.Request.Context(), *req.Name, *req.Latitude, *req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, addr)
}

// Get handles GET /addresses/{id} requests
//
//	@Summary	Get an address
//	@Tags		addresses
//	@Produce	json
//	@Param		id	path		int	true	"Address ID"
//	@Success	200	{object}	models.Address
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Router		/addresses/{id} [get]
func (h *AddressHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	addr, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, addr)
}

// Update handles PUT /addresses/{id} requests
//
//	@Summary	Update an address
//	@Tags		addresses
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Address ID"
//	@Param		address	body		models.AddressRequest	true	"New address values"
//	@Success	200		{object}	models.Address
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/addresses/{id} [put]
func (h *AddressHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	addr, err := h.service.Update(c.Request.Context(), id, *req.Name, *req.Latitude, *req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, addr)
}

// Delete handles DELETE /addresses/{id} requests
//
//	@Summary	Delete an address
//	@Tags		addresses
//	@Produce	json
//	@Param		id	path		int	true	"Address ID"
//	@Success	200	{object}	MessageResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Router		/addresses/{id} [delete]
func (h *AddressHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Address deleted successfully"})
}

// List handles GET /addresses/ requests
//
//	@Summary	List all addresses
//	@Tags		addresses
//	@Produce	json
//	@Success	200	{array}	models.Address
//	@Router		/addresses/ [get]
func (h *AddressHandler) List(c *gin.Context) {
	addresses, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}

// WithinDistance handles GET /addresses/distance/ requests
//
//	@Summary	List addresses within a distance of a location
//	@Tags		addresses
//	@Produce	json
//	@Param		latitude	query	number	true	"Latitude of the user"
//	@Param		longitude	query	number	true	"Longitude of the user"
//	@Param		distance	query	number	true	"Distance in kilometers"
//	@Success	200			{array}	models.Address
//	@Failure	422			{object}	ErrorResponse
//	@Router		/addresses/distance/ [get]
func (h *AddressHandler) WithinDistance(c *gin.Context) {
	var query models.DistanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidationError(c, err)
		return
	}

	addresses, err := h.service.FilterByDistance(c.Request.Context(), *query.Latitude, *query.Longitude, *query.Distance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: "id: value is not a valid integer"})
		return 0, false
	}
	return id, true
}
