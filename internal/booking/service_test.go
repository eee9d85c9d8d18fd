package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymclass/internal/events"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) WithinTx(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *MockRepository) LockTrainee(ctx context.Context, traineeID int) error {
	return m.Called(ctx, traineeID).Error(0)
}

func (m *MockRepository) HasActiveBooking(ctx context.Context, traineeID, scheduleID int) (bool, error) {
	args := m.Called(ctx, traineeID, scheduleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ActiveSlotsOnDay(ctx context.Context, traineeID int, day time.Time) ([]Slot, error) {
	args := m.Called(ctx, traineeID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Slot), args.Error(1)
}

func (m *MockRepository) ReserveSeat(ctx context.Context, scheduleID int) (bool, error) {
	args := m.Called(ctx, scheduleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ReleaseSeat(ctx context.Context, scheduleID int) (bool, error) {
	args := m.Called(ctx, scheduleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ScheduleExists(ctx context.Context, scheduleID int) (bool, error) {
	args := m.Called(ctx, scheduleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Insert(ctx context.Context, traineeID, scheduleID int) (*Booking, error) {
	args := m.Called(ctx, traineeID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) MarkCancelled(ctx context.Context, bookingID int) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) TraineeIDByUser(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) GetSlot(ctx context.Context, scheduleID int) (*Slot, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Slot), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetDetails(ctx context.Context, id int) (*Details, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Details), args.Error(1)
}

func (m *MockRepository) ListByTrainee(ctx context.Context, traineeID int) ([]Details, error) {
	args := m.Called(ctx, traineeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Details), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]Details, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Details), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, to, name, className string, when time.Time) error {
	return m.Called(ctx, to, name, className, when).Error(0)
}

func (m *MockNotifier) SendCancellation(ctx context.Context, to, name, className string, when time.Time) error {
	return m.Called(ctx, to, name, className, when).Error(0)
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var classDay = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func yogaSlot() *Slot {
	return &Slot{ID: 7, ClassName: "Yoga", Date: classDay, StartTime: "09:00", EndTime: "11:00"}
}

func yogaDetails(id int) *Details {
	return &Details{
		Booking:  Booking{ID: id, TraineeID: 2, ScheduleID: 7, Status: StatusActive},
		Trainee:  TraineeSummary{ID: 2, Name: "Jane", Email: "jane@example.com"},
		Schedule: ScheduleSummary{ID: 7, ClassName: "Yoga", Date: classDay, StartTime: "09:00", EndTime: "11:00"},
	}
}

// expectUpToReserve wires the lookups and checks that precede the seat reservation.
func expectUpToReserve(ctx context.Context, repo *MockRepository) {
	repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
	repo.On("GetSlot", ctx, 7).Return(yogaSlot(), nil)
	repo.On("LockTrainee", ctx, 2).Return(nil)
	repo.On("HasActiveBooking", ctx, 2, 7).Return(false, nil)
	repo.On("ActiveSlotsOnDay", ctx, 2, classDay).Return([]Slot{}, nil)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Successfully book class", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		pub := &recordingPublisher{}
		svc := NewService(repo, notifier, pub)

		expectUpToReserve(ctx, repo)
		repo.On("ReserveSeat", ctx, 7).Return(true, nil)
		repo.On("Insert", ctx, 2, 7).Return(&Booking{ID: 30, TraineeID: 2, ScheduleID: 7, Status: StatusActive}, nil)
		repo.On("GetDetails", ctx, 30).Return(yogaDetails(30), nil)
		notifier.On("SendBookingConfirmation", ctx, "jane@example.com", "Jane", "Yoga",
			time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)).Return(nil)

		d, err := svc.Create(ctx, 5, 7)
		require.NoError(t, err)
		assert.Equal(t, 30, d.ID)
		assert.True(t, d.Active())

		require.Len(t, pub.events, 1)
		assert.Equal(t, events.BookingCreated, pub.events[0].Type)
		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("Email failure does not fail the booking", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		svc := NewService(repo, notifier, nil)

		expectUpToReserve(ctx, repo)
		repo.On("ReserveSeat", ctx, 7).Return(true, nil)
		repo.On("Insert", ctx, 2, 7).Return(&Booking{ID: 30}, nil)
		repo.On("GetDetails", ctx, 30).Return(yogaDetails(30), nil)
		notifier.On("SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("redis down"))

		d, err := svc.Create(ctx, 5, 7)
		require.NoError(t, err)
		assert.Equal(t, 30, d.ID)
	})

	t.Run("User without trainee profile", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		repo.On("TraineeIDByUser", ctx, 5).Return(0, ErrTraineeNotFound)

		_, err := svc.Create(ctx, 5, 7)
		assert.ErrorIs(t, err, ErrTraineeNotFound)
		repo.AssertNotCalled(t, "GetSlot", mock.Anything, mock.Anything)
	})

	t.Run("Unknown schedule", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
		repo.On("GetSlot", ctx, 7).Return(nil, ErrScheduleNotFound)

		_, err := svc.Create(ctx, 5, 7)
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})

	t.Run("Duplicate booking", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
		repo.On("GetSlot", ctx, 7).Return(yogaSlot(), nil)
		repo.On("LockTrainee", ctx, 2).Return(nil)
		repo.On("HasActiveBooking", ctx, 2, 7).Return(true, nil)

		_, err := svc.Create(ctx, 5, 7)
		assert.ErrorIs(t, err, ErrDuplicateBooking)
		repo.AssertNotCalled(t, "ReserveSeat", mock.Anything, mock.Anything)
	})

	t.Run("Overlapping booking on the same day", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
		repo.On("GetSlot", ctx, 7).Return(yogaSlot(), nil)
		repo.On("LockTrainee", ctx, 2).Return(nil)
		repo.On("HasActiveBooking", ctx, 2, 7).Return(false, nil)
		repo.On("ActiveSlotsOnDay", ctx, 2, classDay).Return([]Slot{
			{ID: 3, StartTime: "10:00", EndTime: "12:00"},
		}, nil)

		_, err := svc.Create(ctx, 5, 7)
		assert.ErrorIs(t, err, ErrTimeConflict)
		repo.AssertNotCalled(t, "ReserveSeat", mock.Anything, mock.Anything)
	})

	t.Run("Back to back classes do not conflict", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
		repo.On("GetSlot", ctx, 7).Return(yogaSlot(), nil)
		repo.On("LockTrainee", ctx, 2).Return(nil)
		repo.On("HasActiveBooking", ctx, 2, 7).Return(false, nil)
		repo.On("ActiveSlotsOnDay", ctx, 2, classDay).Return([]Slot{
			{ID: 3, StartTime: "07:00", EndTime: "09:00"},
			{ID: 4, StartTime: "11:00", EndTime: "13:00"},
		}, nil)
		repo.On("ReserveSeat", ctx, 7).Return(true, nil)
		repo.On("Insert", ctx, 2, 7).Return(&Booking{ID: 31}, nil)
		repo.On("GetDetails", ctx, 31).Return(yogaDetails(31), nil)

		_, err := svc.Create(ctx, 5, 7)
		assert.NoError(t, err)
	})

	t.Run("Full schedule", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		expectUpToReserve(ctx, repo)
		repo.On("ReserveSeat", ctx, 7).Return(false, nil)
		repo.On("ScheduleExists", ctx, 7).Return(true, nil)

		_, err := svc.Create(ctx, 5, 7)
		assert.ErrorIs(t, err, ErrScheduleFull)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Schedule deleted before the seat was reserved", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		expectUpToReserve(ctx, repo)
		repo.On("ReserveSeat", ctx, 7).Return(false, nil)
		repo.On("ScheduleExists", ctx, 7).Return(false, nil)

		_, err := svc.Create(ctx, 5, 7)
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})

	t.Run("Unique violation on insert maps to duplicate", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		expectUpToReserve(ctx, repo)
		repo.On("ReserveSeat", ctx, 7).Return(true, nil)
		repo.On("Insert", ctx, 2, 7).Return(nil, &pq.Error{Code: "23505"})

		_, err := svc.Create(ctx, 5, 7)
		assert.ErrorIs(t, err, ErrDuplicateBooking)
	})

	t.Run("Foreign key violation on insert maps to not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		expectUpToReserve(ctx, repo)
		repo.On("ReserveSeat", ctx, 7).Return(true, nil)
		repo.On("Insert", ctx, 2, 7).Return(nil, &pq.Error{Code: "23503"})

		_, err := svc.Create(ctx, 5, 7)
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Successfully cancel booking", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		pub := &recordingPublisher{}
		svc := NewService(repo, notifier, pub)

		cancelled := yogaDetails(30)
		cancelled.Status = StatusCancelled

		repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
		repo.On("GetByID", ctx, 30).Return(&Booking{ID: 30, TraineeID: 2, ScheduleID: 7, Status: StatusActive}, nil)
		repo.On("MarkCancelled", ctx, 30).Return(true, nil)
		repo.On("ReleaseSeat", ctx, 7).Return(true, nil)
		repo.On("GetDetails", ctx, 30).Return(cancelled, nil)
		notifier.On("SendCancellation", ctx, "jane@example.com", "Jane", "Yoga", mock.Anything).Return(nil)

		d, err := svc.Cancel(ctx, 5, 30)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, d.Status)

		require.Len(t, pub.events, 1)
		assert.Equal(t, events.BookingCancelled, pub.events[0].Type)
		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("Another trainee's booking", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
		repo.On("GetByID", ctx, 30).Return(&Booking{ID: 30, TraineeID: 9, ScheduleID: 7, Status: StatusActive}, nil)

		_, err := svc.Cancel(ctx, 5, 30)
		assert.ErrorIs(t, err, ErrNotOwner)
		repo.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything)
	})

	t.Run("Already cancelled releases nothing", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
		repo.On("GetByID", ctx, 30).Return(&Booking{ID: 30, TraineeID: 2, ScheduleID: 7, Status: StatusCancelled}, nil)
		repo.On("MarkCancelled", ctx, 30).Return(false, nil)

		_, err := svc.Cancel(ctx, 5, 30)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		repo.AssertNotCalled(t, "ReleaseSeat", mock.Anything, mock.Anything)
	})

	t.Run("Unknown booking", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, nil, nil)

		repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
		repo.On("GetByID", ctx, 30).Return(nil, ErrBookingNotFound)

		_, err := svc.Cancel(ctx, 5, 30)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_ListMine(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, nil, nil)

	repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
	repo.On("ListByTrainee", ctx, 2).Return([]Details{*yogaDetails(2), *yogaDetails(1)}, nil)

	list, err := svc.ListMine(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	repo.On("TraineeIDByUser", ctx, 6).Return(0, ErrTraineeNotFound)
	_, err = svc.ListMine(ctx, 6)
	assert.ErrorIs(t, err, ErrTraineeNotFound)
}

func TestStartsAt(t *testing.T) {
	got := startsAt(ScheduleSummary{Date: classDay, StartTime: "18:30"})
	assert.Equal(t, time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC), got)
}

func TestService_DetailsReadFailsAfterCommit(t *testing.T) {
	ctx := context.Background()
	readErr := errors.New("connection reset")

	t.Run("Booking still succeeds", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		pub := &recordingPublisher{}
		svc := NewService(repo, notifier, pub)

		expectUpToReserve(ctx, repo)
		repo.On("ReserveSeat", ctx, 7).Return(true, nil)
		repo.On("Insert", ctx, 2, 7).Return(&Booking{ID: 30, TraineeID: 2, ScheduleID: 7, Status: StatusActive}, nil)
		repo.On("GetDetails", ctx, 30).Return(nil, readErr)

		d, err := svc.Create(ctx, 5, 7)
		require.NoError(t, err)
		assert.Equal(t, 30, d.ID)
		assert.Equal(t, 2, d.Trainee.ID)
		assert.Equal(t, 7, d.Schedule.ID)
		assert.True(t, d.Active())

		require.Len(t, pub.events, 1)
		notifier.AssertNotCalled(t, "SendBookingConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("Cancellation still succeeds", func(t *testing.T) {
		repo := new(MockRepository)
		notifier := new(MockNotifier)
		svc := NewService(repo, notifier, nil)

		repo.On("TraineeIDByUser", ctx, 5).Return(2, nil)
		repo.On("GetByID", ctx, 30).Return(&Booking{ID: 30, TraineeID: 2, ScheduleID: 7, Status: StatusActive}, nil)
		repo.On("MarkCancelled", ctx, 30).Return(true, nil)
		repo.On("ReleaseSeat", ctx, 7).Return(true, nil)
		repo.On("GetDetails", ctx, 30).Return(nil, readErr)

		d, err := svc.Cancel(ctx, 5, 30)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, d.Status)
		require.NotNil(t, d.CancelledAt)

		notifier.AssertNotCalled(t, "SendCancellation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})
}
