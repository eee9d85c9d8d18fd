package trainee

import (
	"context"

	"gymclass/internal/apperror"
	"gymclass/internal/logger"
)

var ErrProfileNotFound = apperror.NotFound("Trainee profile")

type Service interface {
	GetProfile(ctx context.Context, userID int) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*Profile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, userID int) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*Profile, error) {
	if err := s.repo.Update(ctx, userID, req); err != nil {
		return nil, err
	}
	logger.Debug("trainee profile updated", "user_id", userID)
	return s.repo.GetByUserID(ctx, userID)
}
