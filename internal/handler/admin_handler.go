package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Seascape-Charters/service-booking/internal/application"
	"github.com/Seascape-Charters/service-booking/internal/domain/booking"
	"github.com/Seascape-Charters/service-booking/internal/domain/yacht"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/middleware"
	"github.com/Seascape-Charters/service-booking/internal/platform/response"
)

// AdminHandler handles the operator console: booking overrides, the fleet
// list and dashboard stats.
type AdminHandler struct {
	bookings *application.BookingService
	yachts   *application.YachtService
	stats    *application.StatsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	bookings *application.BookingService,
	yachts *application.YachtService,
	stats *application.StatsService,
) *AdminHandler {
	return &AdminHandler{bookings: bookings, yachts: yachts, stats: stats}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	adminOnly := middleware.RequireRole(auth.RoleAdmin)
	operator := middleware.RequireRole(auth.RoleAdmin, auth.RoleOwner)

	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager))
	{
		admin.GET("/bookings", adminOnly, h.ListBookings)
		admin.GET("/bookings/:id/history", adminOnly, h.StatusHistory)
		admin.POST("/bookings/:id/status", adminOnly, h.UpdateStatus)
		admin.POST("/bookings/:id/qr", adminOnly, h.RegenerateQRCode)
		admin.GET("/yachts", operator, h.ListYachts)
		admin.GET("/stats", operator, h.Stats)
	}
}

// ListBookings handles GET /api/v1/admin/bookings?q=&status=&location=.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	filter := booking.Filter{
		Search:   c.Query("q"),
		Status:   c.Query("status"),
		Location: c.Query("location"),
	}
	result, err := h.bookings.ListBookings(c.Request.Context(), sess, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// StatusHistory handles GET /api/v1/admin/bookings/:id/history.
func (h *AdminHandler) StatusHistory(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "booking")
	if !ok {
		return
	}

	result, err := h.bookings.StatusHistory(c.Request.Context(), sess, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateStatus handles POST /api/v1/admin/bookings/:id/status.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "booking")
	if !ok {
		return
	}

	var req application.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.bookings.UpdateStatus(c.Request.Context(), sess, bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RegenerateQRCode handles POST /api/v1/admin/bookings/:id/qr.
func (h *AdminHandler) RegenerateQRCode(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "booking")
	if !ok {
		return
	}

	result, err := h.bookings.RegenerateQRCode(c.Request.Context(), sess, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListYachts handles GET /api/v1/admin/yachts?q=&location=&type=.
func (h *AdminHandler) ListYachts(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	filter := yacht.Filter{
		Search:   c.Query("q"),
		Location: c.Query("location"),
		Type:     c.Query("type"),
	}
	result, err := h.yachts.ListForOperator(c.Request.Context(), sess, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Stats handles GET /api/v1/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	result, err := h.stats.Dashboard(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
