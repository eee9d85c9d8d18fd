package booking

import (
	"gymclass/internal/api"
	"gymclass/internal/apperror"
	"gymclass/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Book godoc
// @Summary      Book a class
// @Description  Trainee-only. Reserves a seat in the class schedule.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateBookingRequest true "Schedule to book"
// @Success      201 {object} api.Response{data=Details}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/bookings/book [post]
func (h *Handler) Book(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	var req CreateBookingRequest
	if !api.BindJSON(c, &req) {
		return
	}

	booking, err := h.service.Create(c.Request.Context(), userID, req.ScheduleID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, "Class booked successfully", booking)
}

// MyBookings godoc
// @Summary      List my bookings
// @Description  Active and cancelled bookings of the current trainee, newest first.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.Response{data=[]Details}
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/bookings/my-bookings [get]
func (h *Handler) MyBookings(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	bookings, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Bookings retrieved successfully", bookings)
}

// Cancel godoc
// @Summary      Cancel booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Booking ID"
// @Success      200 {object} api.Response{data=Details}
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/bookings/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	bookingID, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), userID, bookingID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Booking cancelled successfully", booking)
}

// ListAll godoc
// @Summary      List all bookings
// @Description  Admin-only.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.Response{data=[]Details}
// @Failure      403 {object} api.ErrorResponse
// @Router       /api/bookings [get]
func (h *Handler) ListAll(c *gin.Context) {
	bookings, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Bookings retrieved successfully", bookings)
}
