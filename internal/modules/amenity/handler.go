package amenity

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
	amenities := rg.Group("/amenities")
	{
		amenities.GET("", h.List)
		amenities.GET("/popular", h.Popular)
		amenities.GET("/categories", h.Categories)
		amenities.GET("/:id", h.Get)
		amenities.POST("", h.Create)
		amenities.PUT("/:id", h.Update)
		amenities.PATCH("/:id", h.Update)
		amenities.DELETE("/:id", h.Delete)
	}
}

// List godoc
// @Summary List amenities
// @Tags Amenities
// @Produce json
// @Param grouped query bool false "Group by category"
// @Success 200 {object} response.Envelope
// @Router /amenities [get]
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("grouped") == "true" {
		groups, err := h.service.Grouped(ctx)
		if err != nil {
			handleError(c, err)
			return
		}
		out := make([]resource.AmenityGroup, 0, len(groups))
		for _, g := range groups {
			out = append(out, resource.AmenityGroup{
				Category:  g.Category,
				Label:     resource.CategoryLabel(g.Category),
				Amenities: resource.NewAmenities(g.Amenities),
			})
		}
		response.SuccessWithMeta(c, http.StatusOK, "Amenities retrieved successfully (grouped by category)",
			out, gin.H{"grouped": true, "categories": len(out)})
		return
	}

	list, err := h.service.All(ctx)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Amenities retrieved successfully",
		resource.NewAmenities(list), gin.H{"total": len(list), "grouped": false})
}

// Popular godoc
// @Summary Most used amenities
// @Tags Amenities
// @Produce json
// @Param limit query int false "Default 10, max 50"
// @Success 200 {object} response.Envelope
// @Router /amenities/popular [get]
func (h *Handler) Popular(c *gin.Context) {
	limit := DefaultPopularLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	rows, err := h.service.Popular(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	out := make([]resource.Amenity, 0, len(rows))
	for i := range rows {
		out = append(out, resource.NewAmenityWithCount(&rows[i].Amenity, rows[i].ApartmentsCount))
	}
	response.Success(c, http.StatusOK, "Popular amenities retrieved successfully", out)
}

// Categories godoc
// @Summary Amenity counts per category
// @Tags Amenities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /amenities/categories [get]
func (h *Handler) Categories(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	data := gin.H{"total": counts.Total}
	for k, v := range counts.ByCategory {
		data[k] = v
	}
	response.Success(c, http.StatusOK, "Amenity categories retrieved successfully", data)
}

// Get godoc
// @Summary Get amenity by ID
// @Tags Amenities
// @Produce json
// @Param id path int true "Amenity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /amenities/{id} [get]
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
	response.Success(c, http.StatusOK, "Amenity retrieved successfully",
		resource.NewAmenityWithCount(&a.Amenity, a.ApartmentsCount))
}

// Create godoc
// @Summary Create amenity
// @Tags Amenities
// @Accept json
// @Produce json
// @Param request body CreateAmenityRequest true "Amenity"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /amenities [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FromBindError(err))
		return
	}

	a, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Amenity created successfully", resource.NewAmenity(a))
}

// Update godoc
// @Summary Update amenity
// @Tags Amenities
// @Accept json
// @Produce json
// @Param id path int true "Amenity ID"
// @Param request body UpdateAmenityRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404,422 {object} response.Envelope
// @Router /amenities/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.FromBindError(err))
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Amenity updated successfully", resource.NewAmenity(a))
}

// Delete godoc
// @Summary Delete amenity
// @Tags Amenities
// @Produce json
// @Param id path int true "Amenity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /amenities/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Amenity deleted successfully", nil)
}

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
