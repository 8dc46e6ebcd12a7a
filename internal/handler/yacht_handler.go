package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Seascape-Charters/service-booking/internal/application"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/platform/response"
)

// YachtHandler serves the public catalog.
type YachtHandler struct {
	service *application.YachtService
}

// NewYachtHandler creates a new YachtHandler.
func NewYachtHandler(service *application.YachtService) *YachtHandler {
	return &YachtHandler{service: service}
}

// RegisterRoutes registers the catalog routes. They need no authentication.
func (h *YachtHandler) RegisterRoutes(r *gin.RouterGroup) {
	yachts := r.Group("/api/v1/yachts")
	{
		yachts.GET("", h.Search)
		yachts.GET("/:id", h.GetYacht)
		yachts.GET("/:id/availability", h.Availability)
	}
}

// Search handles GET /api/v1/yachts.
func (h *YachtHandler) Search(c *gin.Context) {
	criteria, ok := parseCriteria(c)
	if !ok {
		return
	}

	result, err := h.service.Search(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetYacht handles GET /api/v1/yachts/:id.
func (h *YachtHandler) GetYacht(c *gin.Context) {
	id, ok := pathID(c, "yacht")
	if !ok {
		return
	}

	result, err := h.service.GetYacht(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Availability handles GET /api/v1/yachts/:id/availability?date=YYYY-MM-DD.
func (h *YachtHandler) Availability(c *gin.Context) {
	id, ok := pathID(c, "yacht")
	if !ok {
		return
	}

	result, err := h.service.Availability(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func parseCriteria(c *gin.Context) (yacht.Criteria, bool) {
	criteria := yacht.Criteria{
		Location: yacht.Location(c.Query("location")),
		Type:     yacht.ActivityType(c.Query("type")),
	}
	if criteria.Location == "all" {
		criteria.Location = ""
	}
	if criteria.Type == "all" {
		criteria.Type = ""
	}

	if v := c.Query("min_capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.BadRequest(c, "invalid min_capacity")
			return criteria, false
		}
		criteria.MinCapacity = n
	}
	if v := c.Query("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			response.BadRequest(c, "invalid max_price")
			return criteria, false
		}
		criteria.MaxPrice = n
	}
	return criteria, true
}
