package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Seascape-Charters/service-booking/internal/application"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/middleware"
	"github.com/Seascape-Charters/service-booking/internal/platform/response"
)

// ScanRequest carries a captured QR payload.
type ScanRequest struct {
	QRCode string `json:"qr_code" binding:"required"`
}

// CheckInHandler handles the staff check-in desk.
type CheckInHandler struct {
	service *application.CheckInService
	limiter gin.HandlerFunc
}

// NewCheckInHandler creates a new CheckInHandler. limiter guards the scan and
// board routes; nil disables it.
func NewCheckInHandler(service *application.CheckInService, limiter gin.HandlerFunc) *CheckInHandler {
	if limiter == nil {
		limiter = func(c *gin.Context) { c.Next() }
	}
	return &CheckInHandler{service: service, limiter: limiter}
}

// RegisterRoutes registers the check-in routes.
func (h *CheckInHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	checkin := r.Group("/api/v1/checkin")
	checkin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleStaff, auth.RoleAdmin))
	{
		checkin.POST("/scan", h.limiter, h.Scan)
		checkin.POST("/board", h.limiter, h.Board)
		checkin.POST("/bookings/:id/used", h.MarkUsed)
	}
}

// Scan handles POST /api/v1/checkin/scan. A rejected token is still a 200
// with the verdict; only malformed input or ledger failures are errors.
func (h *CheckInHandler) Scan(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "QR code is required")
		return
	}

	result, err := h.service.Scan(c.Request.Context(), sess, req.QRCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Board handles POST /api/v1/checkin/board: scan and mark used in one step.
func (h *CheckInHandler) Board(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "QR code is required")
		return
	}

	result, err := h.service.Board(c.Request.Context(), sess, req.QRCode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// MarkUsed handles POST /api/v1/checkin/bookings/:id/used.
func (h *CheckInHandler) MarkUsed(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "booking")
	if !ok {
		return
	}

	result, err := h.service.MarkUsed(c.Request.Context(), sess, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
