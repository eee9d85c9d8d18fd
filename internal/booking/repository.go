package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymclass/internal/db"
	"gymclass/internal/timerange"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, trainee_id, schedule_id, status, booked_at, cancelled_at`

const detailsSelect = `
	SELECT b.id, b.trainee_id, b.schedule_id, b.status, b.booked_at, b.cancelled_at,
	       tr.id AS "trainee.id", tu.name AS "trainee.name", tu.email AS "trainee.email",
	       s.id AS "schedule.id", s.class_name AS "schedule.class_name", s.date AS "schedule.date",
	       s.start_time AS "schedule.start_time", s.end_time AS "schedule.end_time",
	       su.name AS "schedule.trainer_name"
	FROM bookings b
	JOIN trainees tr ON tr.id = b.trainee_id
	JOIN users tu ON tu.id = tr.user_id
	JOIN class_schedules s ON s.id = b.schedule_id
	JOIN trainers t ON t.id = s.trainer_id
	JOIN users su ON su.id = t.user_id`

type store struct {
	ext sqlx.ExtContext
}

type repository struct {
	*store
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{store: &store{ext: db}, db: db}
}

func (r *repository) WithinTx(ctx context.Context, fn func(Store) error) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&store{ext: tx})
	})
}

func (s *store) LockTrainee(ctx context.Context, traineeID int) error {
	var id int
	err := sqlx.GetContext(ctx, s.ext, &id, `SELECT id FROM trainees WHERE id = $1 FOR UPDATE`, traineeID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTraineeNotFound
	}
	return err
}

func (s *store) HasActiveBooking(ctx context.Context, traineeID, scheduleID int) (bool, error) {
	return db.Exists(ctx, s.ext, `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE trainee_id = $1 AND schedule_id = $2 AND status = 'active'
		)`, traineeID, scheduleID)
}

func (s *store) ActiveSlotsOnDay(ctx context.Context, traineeID int, day time.Time) ([]Slot, error) {
	out := []Slot{}
	err := sqlx.SelectContext(ctx, s.ext, &out, `
		SELECT s.id, s.class_name, s.date, s.start_time, s.end_time
		FROM bookings b
		JOIN class_schedules s ON s.id = b.schedule_id
		WHERE b.trainee_id = $1 AND b.status = 'active' AND s.date = $2::date
		ORDER BY s.start_time`,
		traineeID, day.Format(timerange.DateLayout),
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *store) ReserveSeat(ctx context.Context, scheduleID int) (bool, error) {
	return s.execOne(ctx, `
		UPDATE class_schedules
		SET active_bookings_count = active_bookings_count + 1
		WHERE id = $1 AND active_bookings_count < max_trainees`, scheduleID)
}

func (s *store) ReleaseSeat(ctx context.Context, scheduleID int) (bool, error) {
	return s.execOne(ctx, `
		UPDATE class_schedules
		SET active_bookings_count = active_bookings_count - 1
		WHERE id = $1 AND active_bookings_count > 0`, scheduleID)
}

func (s *store) ScheduleExists(ctx context.Context, scheduleID int) (bool, error) {
	return db.Exists(ctx, s.ext, `SELECT EXISTS(SELECT 1 FROM class_schedules WHERE id = $1)`, scheduleID)
}

func (s *store) Insert(ctx context.Context, traineeID, scheduleID int) (*Booking, error) {
	var b Booking
	err := sqlx.GetContext(ctx, s.ext, &b, `
		INSERT INTO bookings (trainee_id, schedule_id, status)
		VALUES ($1, $2, 'active')
		RETURNING `+bookingColumns,
		traineeID, scheduleID,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *store) MarkCancelled(ctx context.Context, bookingID int) (bool, error) {
	return s.execOne(ctx, `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = NOW()
		WHERE id = $1 AND status = 'active'`, bookingID)
}

func (s *store) execOne(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := s.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *repository) TraineeIDByUser(ctx context.Context, userID int) (int, error) {
	var id int
	err := r.db.GetContext(ctx, &id, `SELECT id FROM trainees WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTraineeNotFound
	}
	return id, err
}

func (r *repository) GetSlot(ctx context.Context, scheduleID int) (*Slot, error) {
	var sl Slot
	err := r.db.GetContext(ctx, &sl,
		`SELECT id, class_name, date, start_time, end_time FROM class_schedules WHERE id = $1`, scheduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sl, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetDetails(ctx context.Context, id int) (*Details, error) {
	var d Details
	err := r.db.GetContext(ctx, &d, detailsSelect+` WHERE b.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) ListByTrainee(ctx context.Context, traineeID int) ([]Details, error) {
	out := []Details{}
	err := r.db.SelectContext(ctx, &out, detailsSelect+`
		WHERE b.trainee_id = $1
		ORDER BY b.booked_at DESC`, traineeID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Details, error) {
	out := []Details{}
	err := r.db.SelectContext(ctx, &out, detailsSelect+` ORDER BY b.booked_at DESC`)
	if err != nil {
		return nil, err
	}
	return out, nil
}
