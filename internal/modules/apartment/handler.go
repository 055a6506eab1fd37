package apartment

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"apartments/internal/pkg/response"
	"apartments/internal/pkg/validator"
	"apartments/internal/resource"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	apartments := rg.Group("/apartments")
	{
		apartments.GET("", h.List)
		apartments.GET("/available", h.Available)
		apartments.GET("/featured", h.Featured)
		apartments.GET("/:id", h.Get)
		apartments.POST("", h.Create)
		apartments.PUT("/:id", h.Update)
		apartments.PATCH("/:id", h.Update)
		apartments.DELETE("/:id", h.Delete)
	}
}

// List godoc
// @Summary List apartments
// @Description Filterable, paginated apartment listing
// @Tags Apartments
// @Produce json
// @Param status query string false "available, rented or maintenance"
// @Param bedrooms query int false "Exact bedroom count"
// @Param bathrooms query int false "Exact bathroom count"
// @Param min_price query number false "Lowest monthly rent, inclusive"
// @Param max_price query number false "Highest monthly rent, inclusive"
// @Param min_sqft query number false "Smallest area"
// @Param max_sqft query number false "Largest area"
// @Param q query string false "Text matched against title and description"
// @Param sort_by query string false "price_asc, price_desc, bedrooms, square_feet, newest, oldest"
// @Param page query int false "Page, default 1"
// @Param per_page query int false "Items per page, default 15, max 50"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /apartments [get]
func (h *Handler) List(c *gin.Context) {
	filters, err := ParseSearchFilters(c.Request.URL.Query())
	if err != nil {
		handleError(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Apartments retrieved successfully", resource.ApartmentCollection{
		Data: resource.NewApartments(res.Apartments),
		Meta: resource.ListMeta{
			Total:          res.Summary.Total,
			AvailableCount: res.Summary.Available,
			RentedCount:    res.Summary.Rented,
			Page:           res.Page,
			PerPage:        res.PerPage,
			LastPage:       LastPage(res.Summary.Total, res.PerPage),
		},
	})
}

// Available godoc
// @Summary List available apartments, cheapest first
// @Tags Apartments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /apartments/available [get]
func (h *Handler) Available(c *gin.Context) {
	list, err := h.service.Available(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Available apartments retrieved successfully",
		resource.NewApartments(list), gin.H{"total": len(list)})
}

// Featured godoc
// @Summary Most expensive available apartments
// @Tags Apartments
// @Produce json
// @Param limit query int false "Default 3, max 20"
// @Success 200 {object} response.Envelope
// @Router /apartments/featured [get]
func (h *Handler) Featured(c *gin.Context) {
	limit := DefaultFeaturedLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	list, err := h.service.Featured(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Featured apartments retrieved successfully", resource.NewApartments(list))
}

// Get godoc
// @Summary Get apartment by ID
// @Tags Apartments
// @Produce json
// @Param id path int true "Apartment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /apartments/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Apartment retrieved successfully", resource.NewApartment(a))
}

// Create godoc
// @Summary Create apartment
// @Tags Apartments
// @Accept json
// @Produce json
// @Param request body CreateApartmentRequest true "Apartment"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /apartments [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FromBindError(err))
		return
	}

	a, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Apartment created successfully", resource.NewApartment(a))
}

// Update godoc
// @Summary Update apartment
// @Description Partial update. amenity_ids and features replace the stored lists when present.
// @Tags Apartments
// @Accept json
// @Produce json
// @Param id path int true "Apartment ID"
// @Param request body UpdateApartmentRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404,422 {object} response.Envelope
// @Router /apartments/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FromBindError(err))
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Apartment updated successfully", resource.NewApartment(a))
}

// Delete godoc
// @Summary Delete apartment
// @Tags Apartments
// @Produce json
// @Param id path int true "Apartment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /apartments/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Apartment deleted successfully", nil)
}

// parseID accepts digits only; anything else is an unknown apartment.
func parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 || strings.HasPrefix(raw, "+") {
		response.NotFound(c, MsgNotFound)
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	var verrs validator.Errors
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, MsgNotFound)
	case errors.As(err, &verrs):
		response.ValidationError(c, verrs)
	default:
		response.ServerError(c, err)
	}
}
