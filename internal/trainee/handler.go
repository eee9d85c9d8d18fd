package trainee

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
	return &Handler{service: service}
}

// @Summary      Get trainee profile
// @Tags         trainees
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.Response{data=Profile}
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/trainees/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Profile retrieved successfully", profile)
}

// @Summary      Update trainee profile
// @Tags         trainees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Fields to change"
// @Success      200 {object} api.Response{data=Profile}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/trainees/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	var req UpdateProfileRequest
	if !api.BindJSON(c, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Profile updated successfully", profile)
}
