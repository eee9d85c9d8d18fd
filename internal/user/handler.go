package user

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

// Register godoc
// @Summary      Register trainee
// @Description  Creates a TRAINEE account and returns access & refresh tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration data"
// @Success      201      {object}  api.Response{data=AuthResponse}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, "Registration successful", resp)
}

// Login godoc
// @Summary      Login
// @Description  Authenticates a user by email and password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  api.Response{data=AuthResponse}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Login successful", resp)
}

// Refresh godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token"
// @Success      200      {object}  api.Response{data=AuthResponse}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Token refreshed successfully", resp)
}

// CreateUser godoc
// @Summary      Create trainer or trainee
// @Description  Admin-only. Creates the user together with its role profile.
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateUserRequest  true  "New user"
// @Success      201      {object}  api.Response{data=User}
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /api/users/create [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !api.BindJSON(c, &req) {
		return
	}

	u, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.Created(c, "User created successfully", u)
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Response{data=[]User}
// @Failure      403  {object}  api.ErrorResponse
// @Router       /api/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "Users retrieved successfully", users)
}

// GetMe godoc
// @Summary      Current user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Response{data=User}
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Fail(c, apperror.Unauthorized("User not authenticated"))
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, "User retrieved successfully", u)
}
