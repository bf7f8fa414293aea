package calendar

import (
	"launidad/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSlotRoutes configures the public slot catalogue and the
// admin-only slot generation endpoint.
func SetupSlotRoutes(rg *gin.RouterGroup, controller *Controller) {
	slots := rg.Group("/slots")
	{
		slots.GET("", controller.ListUpcoming)    // GET /api/v1/slots
		slots.GET("/:id", controller.GetSlot)     // GET /api/v1/slots/:id
	}

	console := rg.Group("/console")
	console.Use(middleware.JWTAuth(), middleware.RequireRoles("ADMIN"))
	{
		console.POST("/slots", controller.CreateSlots) // POST /api/v1/console/slots
	}
}
