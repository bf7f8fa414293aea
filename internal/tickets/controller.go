package tickets

import (
	"context"
	"errors"
	"net/http"
	"time"

	"launidad/internal/calendar"
	"launidad/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SlotLister is the calendar view the console listing needs.
type SlotLister interface {
	ListUpcoming(ctx context.Context, reference time.Time) ([]calendar.SlotResponse, error)
}

type Controller struct {
	service Service
	lister  SlotLister
}

func NewController(service Service, lister SlotLister) *Controller {
	return &Controller{service: service, lister: lister}
}

// IssueManual handles POST /api/v1/console/tickets
func (c *Controller) IssueManual(ctx *gin.Context) {
	var req IssueManualRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid slot ID", nil)
		return
	}

	ticket, err := c.service.IssueManual(ctx.Request.Context(), slotID, req.HolderName, req.HolderDNI, Category(req.Category))
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrSlotNotFound):
			response.Error(ctx, http.StatusNotFound, "Slot not found", nil)
		case errors.Is(err, calendar.ErrCapacityExceeded):
			response.Error(ctx, http.StatusConflict, "Slot is sold out", nil)
		case errors.Is(err, ErrMissingHolder), errors.Is(err, ErrInvalidCategory):
			response.Error(ctx, http.StatusBadRequest, "Holder name, DNI and a valid category are required", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to issue ticket", nil)
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Ticket issued", ticket)
}

// SearchTickets handles GET /api/v1/console/tickets?dni=...
func (c *Controller) SearchTickets(ctx *gin.Context) {
	dni := ctx.Query("dni")
	if dni == "" {
		response.Error(ctx, http.StatusBadRequest, "Query parameter 'dni' is required", nil)
		return
	}

	found, err := c.service.SearchByDNI(ctx.Request.Context(), dni)
	if err != nil {
		if errors.Is(err, ErrMissingHolder) {
			response.Error(ctx, http.StatusBadRequest, "Query parameter 'dni' is required", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to search tickets", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Tickets retrieved", found)
}

// SlotOccupancy pairs a slot with its ticket breakdown for the console.
type SlotOccupancy struct {
	Slot    calendar.SlotResponse `json:"slot"`
	Tickets SlotTally             `json:"tickets"`
}

// ListSlotOccupancy handles GET /api/v1/console/slots
func (c *Controller) ListSlotOccupancy(ctx *gin.Context) {
	upcoming, err := c.lister.ListUpcoming(ctx.Request.Context(), time.Now())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list slots", nil)
		return
	}

	rows := make([]SlotOccupancy, 0, len(upcoming))
	for _, slot := range upcoming {
		id, err := uuid.Parse(slot.ID)
		if err != nil {
			continue
		}
		tally, err := c.service.CountForSlot(ctx.Request.Context(), id)
		if err != nil {
			response.Error(ctx, http.StatusInternalServerError, "Failed to count tickets", nil)
			return
		}
		rows = append(rows, SlotOccupancy{Slot: slot, Tickets: tally})
	}

	response.Success(ctx, http.StatusOK, "Slot occupancy retrieved", rows)
}
