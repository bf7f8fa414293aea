package calendar

import (
	"errors"
	"net/http"
	"time"

	"launidad/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListUpcoming handles GET /api/v1/slots
func (c *Controller) ListUpcoming(ctx *gin.Context) {
	reference := time.Now()
	if raw := ctx.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD", err.Error())
			return
		}
		reference = parsed
	}

	slots, err := c.service.ListUpcoming(ctx.Request.Context(), reference)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list slots", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Upcoming slots retrieved", slots)
}

// GetSlot handles GET /api/v1/slots/:id
func (c *Controller) GetSlot(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid slot ID", nil)
		return
	}

	slot, err := c.service.GetSlot(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			response.Error(ctx, http.StatusNotFound, "Slot not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get slot", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Slot retrieved", slot.ToResponse())
}

// CreateSlots handles POST /api/v1/console/slots
func (c *Controller) CreateSlots(ctx *gin.Context) {
	var req CreateSlotsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	slots, err := c.service.CreateSlots(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			response.Error(ctx, http.StatusBadRequest, "Days, slots per day and capacity must be positive", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to create slots", nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Slots created", slots)
}
