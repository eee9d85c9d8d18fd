package trainer

import (
	"context"

	"gymclass/internal/apperror"
	"gymclass/internal/logger"
	"gymclass/internal/schedule"
)

var ErrProfileNotFound = apperror.NotFound("Trainer profile")

// ScheduleLister is the part of the schedule service trainers read from.
type ScheduleLister interface {
	ListByTrainer(ctx context.Context, trainerID int) ([]schedule.Details, error)
}

type Service interface {
	GetProfile(ctx context.Context, userID int) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*Profile, error)
	// MySchedules returns the trainer's classes with their active bookings.
	MySchedules(ctx context.Context, userID int) ([]schedule.Details, error)
}

type service struct {
	repo      Repository
	schedules ScheduleLister
}

func NewService(repo Repository, schedules ScheduleLister) Service {
	return &service{
		repo:      repo,
		schedules: schedules,
	}
}

func (s *service) GetProfile(ctx context.Context, userID int) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*Profile, error) {
	if err := s.repo.Update(ctx, userID, req); err != nil {
		return nil, err
	}
	logger.Info("trainer profile updated", "user_id", userID)
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) MySchedules(ctx context.Context, userID int) ([]schedule.Details, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.schedules.ListByTrainer(ctx, p.ID)
}
