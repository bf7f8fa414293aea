package auth

import (
	"net/http"

	"launidad/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			response.Error(ctx, http.StatusUnauthorized, "Invalid email or password", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to login", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Login successful", resp)
}

func (c *Controller) GetMe(ctx *gin.Context) {
	operatorID, exists := ctx.Get("operator_id")
	if !exists {
		response.Error(ctx, http.StatusUnauthorized, "Operator not authenticated", nil)
		return
	}

	email, _ := ctx.Get("operator_email")
	role, _ := ctx.Get("user_role")

	operatorData := map[string]interface{}{
		"id":    operatorID,
		"email": email,
		"role":  role,
	}

	response.Success(ctx, http.StatusOK, "Operator data retrieved successfully", operatorData)
}
