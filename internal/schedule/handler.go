package schedule

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

// @Summary      Create class schedule
// @Description  Admin-only. At most 5 schedules per day, each exactly 2 hours, no trainer overlap.
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateScheduleRequest true "Schedule payload"
// @Success      201 {object} api.Response{data=Details}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/schedules/create [post]
func (h *Handler) Create(c *gin.Context) {
	adminID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	var req CreateScheduleRequest
	if !api.BindJSON(c, &req) {
		return
	}

	schedule, err := h.service.Create(c.Request.Context(), adminID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, "Class schedule created successfully", schedule)
}

// @Summary      List class schedules
// @Tags         schedules
// @Produce      json
// @Security     BearerAuth
// @Param        date      query string false "Calendar day (YYYY-MM-DD)"
// @Param        trainerId query int    false "Trainer ID"
// @Success      200 {object} api.Response{data=[]Details}
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/schedules [get]
func (h *Handler) List(c *gin.Context) {
	var q ListSchedulesQuery
	if !api.BindQuery(c, &q) {
		return
	}

	filter, err := ParseFilter(q)
	if err != nil {
		api.Fail(c, err)
		return
	}

	schedules, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Schedules retrieved successfully", schedules)
}

// @Summary      Get class schedule
// @Description  Returns the schedule with its active bookings.
// @Tags         schedules
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Schedule ID"
// @Success      200 {object} api.Response{data=Details}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/schedules/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	schedule, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Schedule retrieved successfully", schedule)
}

// @Summary      Delete class schedule
// @Description  Admin-only. Fails while the schedule has active bookings.
// @Tags         schedules
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Schedule ID"
// @Success      200 {object} api.Response
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/schedules/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := api.ParamID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Schedule deleted successfully", nil)
}
