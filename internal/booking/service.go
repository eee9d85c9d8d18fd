package booking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gymclass/internal/apperror"
	"gymclass/internal/events"
	"gymclass/internal/logger"
	"gymclass/internal/metrics"
	"gymclass/internal/timerange"
)

var (
	ErrTraineeNotFound  = apperror.NotFound("Trainee profile")
	ErrScheduleNotFound = apperror.NotFound("Schedule")
	ErrBookingNotFound  = apperror.NotFound("Booking")
	ErrDuplicateBooking = apperror.BadRequest(apperror.KindDuplicateBooking, "You have already booked this class.")
	ErrTimeConflict     = apperror.BadRequest(apperror.KindTimeConflict, "You already have a booking that overlaps with this class.")
	ErrScheduleFull     = apperror.BadRequest(apperror.KindScheduleFull, "Class schedule is full. Maximum 10 trainees allowed per schedule.")
	ErrNotOwner         = apperror.Forbidden("You can only cancel your own bookings.")
	ErrAlreadyCancelled = apperror.BadRequest(apperror.KindAlreadyCancelled, "Booking is already cancelled.")
)

// Notifier delivers booking emails. Failures never fail the booking.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name, className string, when time.Time) error
	SendCancellation(ctx context.Context, to, name, className string, when time.Time) error
}

type Service interface {
	Create(ctx context.Context, userID, scheduleID int) (*Details, error)
	ListMine(ctx context.Context, userID int) ([]Details, error)
	Cancel(ctx context.Context, userID, bookingID int) (*Details, error)
	ListAll(ctx context.Context) ([]Details, error)
}

type service struct {
	repo      Repository
	notifier  Notifier
	publisher events.Publisher
}

func NewService(repo Repository, notifier Notifier, publisher events.Publisher) Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
	}
}

// Create books a seat for the trainee. Duplicate and overlap checks, the
// seat reservation and the insert share one transaction that holds the
// trainee's row lock; a failed insert rolls the reservation back with it.
func (s *service) Create(ctx context.Context, userID, scheduleID int) (*Details, error) {
	created, err := s.create(ctx, userID, scheduleID)
	if err != nil {
		metrics.RecordBooking(outcome(err))
		return nil, err
	}
	metrics.RecordBooking("created")

	d := s.committedDetails(ctx, created)

	logger.Info("booking created",
		"booking_id", d.ID,
		"trainee_id", d.TraineeID,
		"schedule_id", d.ScheduleID,
	)
	events.Emit(ctx, s.publisher, events.New(events.BookingCreated, scheduleKey(d.ScheduleID), d))
	if d.Trainee.Email != "" {
		if err := s.notifier.SendBookingConfirmation(ctx, d.Trainee.Email, d.Trainee.Name, d.Schedule.ClassName, startsAt(d.Schedule)); err != nil {
			logger.WithError(err).Warn("booking confirmation not queued", "booking_id", d.ID)
		}
	}

	return d, nil
}

func (s *service) create(ctx context.Context, userID, scheduleID int) (*Booking, error) {
	traineeID, err := s.repo.TraineeIDByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	slot, err := s.repo.GetSlot(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	var created *Booking
	err = s.repo.WithinTx(ctx, func(st Store) error {
		if err := st.LockTrainee(ctx, traineeID); err != nil {
			return err
		}

		dup, err := st.HasActiveBooking(ctx, traineeID, scheduleID)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateBooking
		}

		sameDay, err := st.ActiveSlotsOnDay(ctx, traineeID, slot.Date)
		if err != nil {
			return err
		}
		for _, other := range sameDay {
			if timerange.Overlaps(slot.StartTime, slot.EndTime, other.StartTime, other.EndTime) {
				return ErrTimeConflict
			}
		}

		reserved, err := st.ReserveSeat(ctx, scheduleID)
		if err != nil {
			return err
		}
		if !reserved {
			exists, err := st.ScheduleExists(ctx, scheduleID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrScheduleNotFound
			}
			return ErrScheduleFull
		}

		created, err = st.Insert(ctx, traineeID, scheduleID)
		switch {
		case apperror.IsUniqueViolation(err):
			return ErrDuplicateBooking
		case apperror.IsForeignKeyViolation(err):
			return ErrScheduleNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) ListMine(ctx context.Context, userID int) ([]Details, error) {
	traineeID, err := s.repo.TraineeIDByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByTrainee(ctx, traineeID)
}

// Cancel soft-cancels the trainee's own booking and gives the seat back.
// The status flip is conditional, so the seat is released once per booking.
func (s *service) Cancel(ctx context.Context, userID, bookingID int) (*Details, error) {
	traineeID, err := s.repo.TraineeIDByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.TraineeID != traineeID {
		return nil, ErrNotOwner
	}

	err = s.repo.WithinTx(ctx, func(st Store) error {
		cancelled, err := st.MarkCancelled(ctx, bookingID)
		if err != nil {
			return err
		}
		if !cancelled {
			return ErrAlreadyCancelled
		}

		released, err := st.ReleaseSeat(ctx, b.ScheduleID)
		if err != nil {
			return err
		}
		if !released {
			logger.Warn("seat counter already at zero", "schedule_id", b.ScheduleID, "booking_id", bookingID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordBookingCancellation()

	now := time.Now()
	b.Status = StatusCancelled
	b.CancelledAt = &now
	d := s.committedDetails(ctx, b)

	logger.Info("booking cancelled", "booking_id", bookingID, "schedule_id", b.ScheduleID)
	events.Emit(ctx, s.publisher, events.New(events.BookingCancelled, scheduleKey(b.ScheduleID), d))
	if d.Trainee.Email != "" {
		if err := s.notifier.SendCancellation(ctx, d.Trainee.Email, d.Trainee.Name, d.Schedule.ClassName, startsAt(d.Schedule)); err != nil {
			logger.WithError(err).Warn("cancellation email not queued", "booking_id", bookingID)
		}
	}

	return d, nil
}

// committedDetails reads the joined view of a booking whose transaction has
// already committed. A failed read must not turn the committed write into an
// error, so it falls back to the booking row alone.
func (s *service) committedDetails(ctx context.Context, b *Booking) *Details {
	d, err := s.repo.GetDetails(ctx, b.ID)
	if err == nil {
		return d
	}
	logger.WithError(err).Error("booking details unavailable after commit", "booking_id", b.ID)
	return &Details{
		Booking:  *b,
		Trainee:  TraineeSummary{ID: b.TraineeID},
		Schedule: ScheduleSummary{ID: b.ScheduleID},
	}
}

func (s *service) ListAll(ctx context.Context) ([]Details, error) {
	return s.repo.ListAll(ctx)
}

func startsAt(sc ScheduleSummary) time.Time {
	minutes, err := timerange.ParseClock(sc.StartTime)
	if err != nil {
		return sc.Date
	}
	return timerange.StartOfDay(sc.Date).Add(time.Duration(minutes) * time.Minute)
}

func scheduleKey(id int) string {
	return "schedule-" + strconv.Itoa(id)
}

func outcome(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return string(appErr.Kind)
	}
	return "error"
}

type nopNotifier struct{}

func (nopNotifier) SendBookingConfirmation(context.Context, string, string, string, time.Time) error {
	return nil
}

func (nopNotifier) SendCancellation(context.Context, string, string, string, time.Time) error {
	return nil
}
