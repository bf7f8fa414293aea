package checkout

import (
	"errors"
	"net/http"

	"launidad/internal/calendar"
	"launidad/internal/shared/utils/response"
	"launidad/internal/tickets"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Purchase handles POST /api/v1/checkout
func (c *Controller) Purchase(ctx *gin.Context) {
	var req PurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	confirmation, err := c.service.Purchase(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrIncompleteCustomer):
			response.Error(ctx, http.StatusBadRequest, "All customer fields are required", nil)
		case errors.Is(err, ErrInvalidCard):
			response.Error(ctx, http.StatusBadRequest, "Card details are incomplete or invalid", nil)
		case errors.Is(err, tickets.ErrInvalidQuantity):
			response.Error(ctx, http.StatusBadRequest, "Quantity must be at least 1", nil)
		case errors.Is(err, calendar.ErrSlotNotFound):
			response.Error(ctx, http.StatusNotFound, "Slot not found", nil)
		case errors.Is(err, calendar.ErrCapacityExceeded):
			response.Error(ctx, http.StatusConflict, "Not enough capacity left for this slot", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to complete purchase", nil)
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Purchase confirmed", confirmation)
}
