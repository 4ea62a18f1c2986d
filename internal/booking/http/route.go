package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the customer booking routes behind authMiddleware and
// the public slot lookup. The operator status route is only mounted when
// operatorMiddleware is non-nil.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, operatorMiddleware gin.HandlerFunc) {
	g.GET("/partners/:id/slots", h.Slots)

	group := g.Group("/bookings")

	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.POST("/:id/cancel", h.Cancel)
		group.POST("/:id/reschedule", h.Reschedule)
	}

	if operatorMiddleware != nil {
		g.PUT("/operator/bookings/:id/status", operatorMiddleware, h.UpdateStatus)
	}
}
