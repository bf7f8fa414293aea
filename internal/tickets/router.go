package tickets

import (
	"launidad/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupConsoleRoutes configures the operator console ticket routes.
func SetupConsoleRoutes(rg *gin.RouterGroup, controller *Controller) {
	console := rg.Group("/console")
	console.Use(middleware.JWTAuth(), middleware.RequireRoles("OPERATOR", "ADMIN"))
	{
		console.POST("/tickets", controller.IssueManual)      // POST /api/v1/console/tickets
		console.GET("/tickets", controller.SearchTickets)     // GET  /api/v1/console/tickets?dni=...
		console.GET("/slots", controller.ListSlotOccupancy)   // GET  /api/v1/console/slots
	}
}
