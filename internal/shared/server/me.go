package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/shared/server/middleware"
	"neeklo-backend/internal/shared/server/respond"
)

// registerVisitorRoutes attaches the /visitor endpoint.
func registerVisitorRoutes(rg *gin.RouterGroup) {
	rg.GET("/visitor", visitorHandler)
}

// visitorHandler echoes the anonymous visitor ID so the site can persist it.
func visitorHandler(c *gin.Context) {
	visitorID := middleware.VisitorIDFromContext(c)
	if visitorID == "" {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "visitor id missing", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"visitorId": visitorID,
		"requestId": middleware.RequestIDFromContext(c),
	})
}
