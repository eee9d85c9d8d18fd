package booking

import (
	"context"
	"time"
)

// Store holds the operations that run inside a booking transaction.
type Store interface {
	// LockTrainee takes a row lock on the trainee until the transaction ends.
	LockTrainee(ctx context.Context, traineeID int) error
	HasActiveBooking(ctx context.Context, traineeID, scheduleID int) (bool, error)
	ActiveSlotsOnDay(ctx context.Context, traineeID int, day time.Time) ([]Slot, error)
	// ReserveSeat increments the schedule's counter if a seat is free.
	ReserveSeat(ctx context.Context, scheduleID int) (bool, error)
	// ReleaseSeat decrements the schedule's counter if it is positive.
	ReleaseSeat(ctx context.Context, scheduleID int) (bool, error)
	ScheduleExists(ctx context.Context, scheduleID int) (bool, error)
	Insert(ctx context.Context, traineeID, scheduleID int) (*Booking, error)
	// MarkCancelled flips an active booking to cancelled.
	MarkCancelled(ctx context.Context, bookingID int) (bool, error)
}

type Repository interface {
	Store
	WithinTx(ctx context.Context, fn func(Store) error) error
	TraineeIDByUser(ctx context.Context, userID int) (int, error)
	GetSlot(ctx context.Context, scheduleID int) (*Slot, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	GetDetails(ctx context.Context, id int) (*Details, error)
	ListByTrainee(ctx context.Context, traineeID int) ([]Details, error)
	ListAll(ctx context.Context) ([]Details, error)
}
