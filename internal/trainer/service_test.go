package trainer

import (
	"context"
	"testing"

	"gymclass/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID int) (*Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, userID int, req UpdateProfileRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

type MockScheduleLister struct {
	mock.Mock
}

func (m *MockScheduleLister) ListByTrainer(ctx context.Context, trainerID int) ([]schedule.Details, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedule.Details), args.Error(1)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Updates and returns fresh profile", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)
		req := UpdateProfileRequest{Experience: intPtr(7), Bio: strPtr("Certified coach")}

		repo.On("Update", ctx, 3, req).Return(nil)
		repo.On("GetByUserID", ctx, 3).Return(&Profile{ID: 1, UserID: 3, Experience: intPtr(7)}, nil)

		p, err := svc.UpdateProfile(ctx, 3, req)
		require.NoError(t, err)
		assert.Equal(t, 7, *p.Experience)
		repo.AssertExpectations(t)
	})

	t.Run("Missing profile", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil)

		repo.On("Update", ctx, 3, mock.Anything).Return(ErrProfileNotFound)

		_, err := svc.UpdateProfile(ctx, 3, UpdateProfileRequest{})
		assert.ErrorIs(t, err, ErrProfileNotFound)
		repo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	})
}

func TestService_MySchedules(t *testing.T) {
	ctx := context.Background()

	t.Run("Resolves trainer id from user id", func(t *testing.T) {
		repo := new(MockRepository)
		schedules := new(MockScheduleLister)
		svc := NewService(repo, schedules)

		repo.On("GetByUserID", ctx, 3).Return(&Profile{ID: 11, UserID: 3}, nil)
		schedules.On("ListByTrainer", ctx, 11).Return([]schedule.Details{
			{Schedule: schedule.Schedule{ID: 1}, Bookings: []schedule.BookingSummary{{ID: 4}}},
		}, nil)

		list, err := svc.MySchedules(ctx, 3)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Len(t, list[0].Bookings, 1)
		schedules.AssertExpectations(t)
	})

	t.Run("No trainer profile", func(t *testing.T) {
		repo := new(MockRepository)
		schedules := new(MockScheduleLister)
		svc := NewService(repo, schedules)

		repo.On("GetByUserID", ctx, 3).Return(nil, ErrProfileNotFound)

		_, err := svc.MySchedules(ctx, 3)
		assert.ErrorIs(t, err, ErrProfileNotFound)
		schedules.AssertNotCalled(t, "ListByTrainer", mock.Anything, mock.Anything)
	})
}
