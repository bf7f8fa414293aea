package checkout

import "github.com/gin-gonic/gin"

// SetupCheckoutRoutes configures the public purchase endpoint.
func SetupCheckoutRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.POST("/checkout", controller.Purchase) // POST /api/v1/checkout
}
