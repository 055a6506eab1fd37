package image

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
	rg.GET("/apartments/:id/images", h.List)
	rg.POST("/apartments/:id/images", h.Upload)

	images := rg.Group("/images")
	{
		images.DELETE("/:id", h.Delete)
		images.PATCH("/:id/primary", h.SetPrimary)
	}
}

// List godoc
// @Summary List images of an apartment
// @Tags Images
// @Produce json
// @Param id path int true "Apartment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /apartments/{id}/images [get]
func (h *Handler) List(c *gin.Context) {
	apartmentID, ok := parseID(c, MsgApartmentNotFound)
	if !ok {
		return
	}

	images, err := h.service.ListByApartment(c.Request.Context(), apartmentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Images retrieved successfully", resource.NewImages(images))
}

// Upload godoc
// @Summary Upload an apartment image
// @Description jpeg, png or webp up to 2MB. The first image of an apartment is always primary.
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Apartment ID"
// @Param image formData file true "Image file"
// @Param is_primary formData bool false "Make this the primary image"
// @Success 201 {object} response.Envelope
// @Failure 404,422,500 {object} response.Envelope
// @Router /apartments/{id}/images [post]
func (h *Handler) Upload(c *gin.Context) {
	apartmentID, ok := parseID(c, MsgApartmentNotFound)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		response.ValidationError(c, validator.Single("image", MsgImageRequired))
		return
	}

	img, err := h.service.Upload(c.Request.Context(), apartmentID, UploadInput{
		Header:    header,
		IsPrimary: ParseBool(c.PostForm("is_primary")),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Image uploaded successfully", resource.NewImage(img))
}

// Delete godoc
// @Summary Delete an image
// @Description Promotes the remaining image with the lowest order when the primary is deleted.
// @Tags Images
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /images/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, MsgImageNotFound)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Image deleted successfully", nil)
}

// SetPrimary godoc
// @Summary Make an image the primary one
// @Tags Images
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /images/{id}/primary [patch]
func (h *Handler) SetPrimary(c *gin.Context) {
	id, ok := parseID(c, MsgImageNotFound)
	if !ok {
		return
	}

	img, err := h.service.SetPrimary(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Primary image updated successfully", resource.NewImage(img))
}

func parseID(c *gin.Context, notFound string) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 || strings.HasPrefix(raw, "+") {
		response.NotFound(c, notFound)
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	var (
		verrs validator.Errors
		ext   *ExternalError
	)
	switch {
	case errors.Is(err, ErrApartmentNotFound):
		response.NotFound(c, MsgApartmentNotFound)
	case errors.Is(err, ErrImageNotFound):
		response.NotFound(c, MsgImageNotFound)
	case errors.As(err, &verrs):
		response.ValidationError(c, verrs)
	case errors.As(err, &ext):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, MsgUploadFailed+": "+ext.Err.Error())
	default:
		response.ServerError(c, err)
	}
}
