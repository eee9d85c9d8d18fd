package user

import (
	"context"
	"errors"

	"gymclass/internal/apperror"
	"gymclass/internal/auth"
	"gymclass/internal/logger"
)

var (
	ErrEmailExists        = apperror.Conflict("User with this email already exists.")
	ErrInvalidCredentials = apperror.Unauthorized("Invalid email or password.")
	ErrInvalidRefresh     = apperror.Unauthorized("Invalid or expired refresh token.")
	ErrUserNotFound       = apperror.NotFound("User")
	ErrInvalidRole        = apperror.Validation("Role must be TRAINER or TRAINEE.")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	// EnsureAdmin creates the admin account unless the email is already taken.
	EnsureAdmin(ctx context.Context, email, password, name string) (*User, bool, error)
}

type service struct {
	repo   Repository
	tokens *auth.Tokens
}

func NewService(repo Repository, tokens *auth.Tokens) Service {
	return &service{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates a TRAINEE account with an empty trainee profile.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	u, err := s.create(ctx, NewUser{
		Email: req.Email,
		Name:  req.Name,
		Role:  auth.RoleTrainee,
		Phone: req.Phone,
	}, req.Password)
	if err != nil {
		return nil, err
	}

	logger.Info("trainee registered", "user_id", u.ID)
	return s.issue(u)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	access, claims, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: u, Token: access}, nil
}

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if !req.Role.Assignable() {
		return nil, ErrInvalidRole
	}

	u, err := s.create(ctx, NewUser{
		Email:          req.Email,
		Name:           req.Name,
		Role:           req.Role,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Bio:            req.Bio,
		Age:            req.Age,
	}, req.Password)
	if err != nil {
		return nil, err
	}

	logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) EnsureAdmin(ctx context.Context, email, password, name string) (*User, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	u, err := s.create(ctx, NewUser{Email: email, Name: name, Role: auth.RoleAdmin}, password)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (s *service) create(ctx context.Context, nu NewUser, password string) (*User, error) {
	exists, err := s.repo.EmailExists(ctx, nu.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	nu.PasswordHash, err = auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, nu)
}

func (s *service) issue(u *User) (*AuthResponse, error) {
	pair, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: u, Token: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}
