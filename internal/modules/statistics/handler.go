package statistics

import (
	"net/http"

	"apartments/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/statistics", h.Get)
}

// Get godoc
// @Summary Dashboard statistics
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics [get]
func (h *Handler) Get(c *gin.Context) {
	stats, err := h.service.Compute(c.Request.Context())
	if err != nil {
		response.ServerError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Statistics retrieved successfully", stats)
}
