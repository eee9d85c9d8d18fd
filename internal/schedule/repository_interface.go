package schedule

import (
	"context"
	"time"
)

// Store holds the operations that run inside the create transaction.
type Store interface {
	LockDay(ctx context.Context, day time.Time) error
	CountOnDay(ctx context.Context, day time.Time) (int, error)
	TrainerExists(ctx context.Context, trainerID int) (bool, error)
	ListTrainerDay(ctx context.Context, trainerID int, day time.Time) ([]Schedule, error)
	Insert(ctx context.Context, s Schedule) (*Schedule, error)
}

type Repository interface {
	Store
	WithinTx(ctx context.Context, fn func(Store) error) error
	GetDetails(ctx context.Context, id int) (*Details, error)
	List(ctx context.Context, f Filter) ([]Details, error)
	ActiveBookings(ctx context.Context, scheduleIDs []int) ([]BookingSummary, error)
	Exists(ctx context.Context, id int) (bool, error)
	// DeleteIfIdle removes the schedule only while it has no active bookings.
	DeleteIfIdle(ctx context.Context, id int) (bool, error)
}
