package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gymclass/internal/api"
	"gymclass/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AuthResponse), args.Error(1)
}

func (m *MockService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AuthResponse), args.Error(1)
}

func (m *MockService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AuthResponse), args.Error(1)
}

func (m *MockService) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) List(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockService) GetByID(ctx context.Context, userID int) (*User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) EnsureAdmin(ctx context.Context, email, password, name string) (*User, bool, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*User), args.Bool(1), args.Error(2)
}

func setupRouter(svc Service, userID int) *gin.Engine {
	api.RegisterValidators()
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/users/create", h.CreateUser)
	r.GET("/users/me", func(c *gin.Context) {
		if userID > 0 {
			c.Set("user_id", userID)
		}
		h.GetMe(c)
	})
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Register(t *testing.T) {
	svc := new(MockService)
	svc.On("Register", mock.Anything, mock.MatchedBy(func(r RegisterRequest) bool {
		return r.Email == "jane@example.com"
	})).Return(&AuthResponse{User: &User{ID: 1, Role: auth.RoleTrainee}, Token: "tok"}, nil)

	w := doJSON(setupRouter(svc, 0), http.MethodPost, "/auth/register",
		`{"email":"jane@example.com","password":"secret123","name":"Jane"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var body api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	svc.AssertExpectations(t)
}

func TestHandler_RegisterValidation(t *testing.T) {
	svc := new(MockService)

	w := doJSON(setupRouter(svc, 0), http.MethodPost, "/auth/register",
		`{"email":"not-an-email","password":"123","name":"J"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestHandler_RegisterConflict(t *testing.T) {
	svc := new(MockService)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, ErrEmailExists)

	w := doJSON(setupRouter(svc, 0), http.MethodPost, "/auth/register",
		`{"email":"jane@example.com","password":"secret123","name":"Jane"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_LoginInvalid(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, ErrInvalidCredentials)

	w := doJSON(setupRouter(svc, 0), http.MethodPost, "/auth/login",
		`{"email":"jane@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password.")
}

func TestHandler_CreateUserRejectsAdminRole(t *testing.T) {
	svc := new(MockService)

	w := doJSON(setupRouter(svc, 0), http.MethodPost, "/users/create",
		`{"email":"x@gym.com","password":"secret123","name":"Xavier","role":"ADMIN"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestHandler_GetMe(t *testing.T) {
	svc := new(MockService)
	svc.On("GetByID", mock.Anything, 4).Return(&User{ID: 4, Name: "Jane"}, nil)

	w := doJSON(setupRouter(svc, 4), http.MethodGet, "/users/me", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane")

	w = doJSON(setupRouter(svc, 0), http.MethodGet, "/users/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
