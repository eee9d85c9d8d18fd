package schedule

import (
	"context"
	"errors"
	"strconv"

	"gymclass/internal/apperror"
	"gymclass/internal/events"
	"gymclass/internal/logger"
	"gymclass/internal/metrics"
	"gymclass/internal/timerange"
)

var (
	ErrScheduleNotFound  = apperror.NotFound("Schedule")
	ErrTrainerNotFound   = apperror.NotFound("Trainer")
	ErrQuotaExceeded     = apperror.BadRequest(apperror.KindQuotaExceeded, "Schedule limit reached. Maximum 5 schedules allowed per day.")
	ErrInvalidDuration   = apperror.BadRequest(apperror.KindInvalidDuration, "Invalid class duration. Each class must be exactly 2 hours.")
	ErrTrainerConflict   = apperror.BadRequest(apperror.KindTrainerConflict, "Trainer already has a class scheduled during this time slot.")
	ErrHasActiveBookings = apperror.BadRequest(apperror.KindHasActiveBookings, "Cannot delete schedule with active bookings. Please cancel all bookings first.")
	ErrInvalidTime       = apperror.Validation("Start and end time must be in HH:mm format (e.g., 10:00).")
	ErrInvalidDate       = apperror.Validation("Date must be in ISO format (YYYY-MM-DD).")
)

type Service interface {
	Create(ctx context.Context, adminID int, req CreateScheduleRequest) (*Details, error)
	List(ctx context.Context, f Filter) ([]Details, error)
	Get(ctx context.Context, id int) (*Details, error)
	Delete(ctx context.Context, id int) error
	// ListByTrainer returns the trainer's schedules with their active bookings attached.
	ListByTrainer(ctx context.Context, trainerID int) ([]Details, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		repo:      repo,
		publisher: publisher,
	}
}

// Create applies the scheduling rules in order: daily quota, trainer
// existence, fixed duration, trainer overlap. The checks and the insert run
// in one transaction holding a lock on the calendar day.
func (s *service) Create(ctx context.Context, adminID int, req CreateScheduleRequest) (*Details, error) {
	day, err := timerange.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !timerange.ValidClock(req.StartTime) || !timerange.ValidClock(req.EndTime) {
		return nil, ErrInvalidTime
	}

	var created *Schedule
	err = s.repo.WithinTx(ctx, func(st Store) error {
		if err := st.LockDay(ctx, day); err != nil {
			return err
		}

		count, err := st.CountOnDay(ctx, day)
		if err != nil {
			return err
		}
		if count >= MaxSchedulesPerDay {
			return ErrQuotaExceeded
		}

		exists, err := st.TrainerExists(ctx, req.TrainerID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrTrainerNotFound
		}

		duration, err := timerange.Minutes(req.StartTime, req.EndTime)
		if err != nil {
			return ErrInvalidTime
		}
		if duration != ClassDurationMinutes {
			return ErrInvalidDuration
		}

		sameDay, err := st.ListTrainerDay(ctx, req.TrainerID, day)
		if err != nil {
			return err
		}
		for _, other := range sameDay {
			if timerange.Overlaps(req.StartTime, req.EndTime, other.StartTime, other.EndTime) {
				return ErrTrainerConflict
			}
		}

		created, err = st.Insert(ctx, Schedule{
			ClassName:   req.ClassName,
			Date:        day,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			TrainerID:   req.TrainerID,
			AdminID:     adminID,
			MaxTrainees: MaxTrainees,
		})
		return err
	})
	if err != nil {
		metrics.RecordSchedule("create", outcome(err))
		return nil, err
	}

	metrics.RecordSchedule("create", "created")
	logger.Info("schedule created",
		"schedule_id", created.ID,
		"trainer_id", created.TrainerID,
		"date", req.Date,
		"start", created.StartTime,
	)
	events.Emit(ctx, s.publisher, events.New(events.ScheduleCreated, scheduleKey(created.ID), created))

	d, err := s.repo.GetDetails(ctx, created.ID)
	if err != nil {
		// the schedule is committed; answer with what the insert returned
		logger.WithError(err).Error("schedule details unavailable after commit", "schedule_id", created.ID)
		d = &Details{Schedule: *created}
		d.countSeats()
	}
	return d, nil
}

func (s *service) List(ctx context.Context, f Filter) ([]Details, error) {
	if f.Date != nil {
		day := timerange.StartOfDay(*f.Date)
		f.Date = &day
	}
	return s.repo.List(ctx, f)
}

func (s *service) Get(ctx context.Context, id int) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.ActiveBookings(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	d.Bookings = bookings

	return d, nil
}

// Delete removes a schedule only when it has no active bookings. The check
// and the delete are one conditional statement, so a booking that commits
// first always wins.
func (s *service) Delete(ctx context.Context, id int) error {
	deleted, err := s.repo.DeleteIfIdle(ctx, id)
	if err != nil {
		return err
	}

	if !deleted {
		exists, err := s.repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrScheduleNotFound
		}
		metrics.RecordSchedule("delete", "has_active_bookings")
		return ErrHasActiveBookings
	}

	metrics.RecordSchedule("delete", "deleted")
	logger.Info("schedule deleted", "schedule_id", id)
	events.Emit(ctx, s.publisher, events.New(events.ScheduleDeleted, scheduleKey(id), map[string]int{"scheduleId": id}))
	return nil
}

func (s *service) ListByTrainer(ctx context.Context, trainerID int) ([]Details, error) {
	list, err := s.repo.List(ctx, Filter{TrainerID: &trainerID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]int, len(list))
	byID := make(map[int]*Details, len(list))
	for i := range list {
		ids[i] = list[i].ID
		byID[list[i].ID] = &list[i]
	}

	bookings, err := s.repo.ActiveBookings(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		if d, ok := byID[b.ScheduleID]; ok {
			d.Bookings = append(d.Bookings, b)
		}
	}

	return list, nil
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

// ParseFilter converts query parameters into a Filter.
func ParseFilter(q ListSchedulesQuery) (Filter, error) {
	var f Filter
	if q.Date != "" {
		d, err := timerange.ParseDate(q.Date)
		if err != nil {
			return Filter{}, ErrInvalidDate
		}
		f.Date = &d
	}
	if q.TrainerID > 0 {
		id := q.TrainerID
		f.TrainerID = &id
	}
	return f, nil
}
