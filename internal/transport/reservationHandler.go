package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ds124wfegd/tennis-courts/internal/entity"
	"github.com/ds124wfegd/tennis-courts/internal/service"
)

type ReservationHandler struct {
	reservationService service.ReservationService
	currencyScale      int32
}

// NewReservationHandler serves reservations with amounts shown to currencyScale decimals.
func NewReservationHandler(reservationService service.ReservationService, currencyScale int32) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		currencyScale:      currencyScale,
	}
}

func parseID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", entity.ErrInvalidInput, param)
	}
	return id, nil
}

func (h *ReservationHandler) BookReservation(c *gin.Context) {
	var req service.BookReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	reservation, err := h.reservationService.BookReservation(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%d", c.FullPath(), reservation.ID))
	c.JSON(http.StatusCreated, newReservationResponse(reservation, h.currencyScale))
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	reservation, err := h.reservationService.GetReservation(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newReservationResponse(reservation, h.currencyScale))
}

func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	reservation, err := h.reservationService.CancelReservation(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newReservationResponse(reservation, h.currencyScale))
}

func (h *ReservationHandler) RescheduleReservation(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		abortWithError(c, err)
		return
	}
	scheduleID, err := parseID(c, "schedule_id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	reservation, err := h.reservationService.RescheduleReservation(c.Request.Context(), id, scheduleID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newReservationResponse(reservation, h.currencyScale))
}

// SweepNoShows runs the no-show sweep on demand
func (h *ReservationHandler) SweepNoShows(c *gin.Context) {
	reservations, err := h.reservationService.SweepNoShows(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newReservationResponses(reservations, h.currencyScale))
}

func (h *ReservationHandler) GetPastReservations(c *gin.Context) {
	reservations, err := h.reservationService.GetPastReservations(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newReservationResponses(reservations, h.currencyScale))
}
