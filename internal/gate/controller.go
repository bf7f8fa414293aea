package gate

import (
	"net/http"

	"launidad/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Validate handles POST /api/v1/gate/validate
//
// Denials return 200 with outcome "denied": a rejected ticket is a normal
// result the console renders, not a request failure.
func (c *Controller) Validate(ctx *gin.Context) {
	var req ValidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := c.service.Validate(ctx.Request.Context(), req.Code)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Validation failed", nil)
		return
	}

	message := "Access granted"
	if result.Outcome == OutcomeDenied {
		message = "Access denied"
	}
	response.Success(ctx, http.StatusOK, message, result)
}

// Recent handles GET /api/v1/gate/recent
func (c *Controller) Recent(ctx *gin.Context) {
	response.Success(ctx, http.StatusOK, "Recent admissions retrieved", c.service.Recent())
}

// Summary handles GET /api/v1/gate/summary
func (c *Controller) Summary(ctx *gin.Context) {
	summary, err := c.service.Summary(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to build summary", nil)
		return
	}
	response.Success(ctx, http.StatusOK, "Gate summary retrieved", summary)
}
