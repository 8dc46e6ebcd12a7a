package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/middleware"
	"github.com/Seascape-Charters/service-booking/internal/platform/response"
)

// session returns the caller's session or writes 401.
func session(c *gin.Context) (auth.Session, bool) {
	s, ok := middleware.GetSession(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return auth.Session{}, false
	}
	return s, true
}

// pathID parses the :id route parameter or writes 400.
func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}
