package gate

import (
	"launidad/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupGateRoutes configures the gate console routes. All of them require
// an authenticated operator.
func SetupGateRoutes(rg *gin.RouterGroup, controller *Controller) {
	routes := rg.Group("/gate")
	routes.Use(middleware.JWTAuth(), middleware.RequireRoles("OPERATOR", "ADMIN"))
	{
		routes.POST("/validate", controller.Validate) // POST /api/v1/gate/validate
		routes.GET("/recent", controller.Recent)      // GET  /api/v1/gate/recent
		routes.GET("/summary", controller.Summary)    // GET  /api/v1/gate/summary
	}
}
