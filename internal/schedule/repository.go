package schedule

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"gymclass/internal/db"
	"gymclass/internal/timerange"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// advisoryNamespace scopes the per-day lock taken while creating schedules.
const advisoryNamespace = 4711

const scheduleColumns = `id, class_name, date, start_time, end_time, trainer_id, admin_id,
	max_trainees, active_bookings_count, created_at`

const detailsSelect = `
	SELECT s.id, s.class_name, s.date, s.start_time, s.end_time, s.trainer_id, s.admin_id,
	       s.max_trainees, s.active_bookings_count, s.created_at,
	       u.name AS trainer_name, u.email AS trainer_email,
	       (SELECT COUNT(*) FROM bookings b WHERE b.schedule_id = s.id AND b.status = 'active') AS current_bookings
	FROM class_schedules s
	JOIN trainers t ON t.id = s.trainer_id
	JOIN users u ON u.id = t.user_id`

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

func dayKey(day time.Time) int64 {
	return timerange.StartOfDay(day).Unix() / 86400
}

func (s *store) LockDay(ctx context.Context, day time.Time) error {
	_, err := s.ext.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, advisoryNamespace, dayKey(day))
	return err
}

func (s *store) CountOnDay(ctx context.Context, day time.Time) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, s.ext, &n,
		`SELECT COUNT(*) FROM class_schedules WHERE date = $1::date`,
		day.Format(timerange.DateLayout),
	)
	return n, err
}

func (s *store) TrainerExists(ctx context.Context, trainerID int) (bool, error) {
	return db.Exists(ctx, s.ext, `SELECT EXISTS(SELECT 1 FROM trainers WHERE id = $1)`, trainerID)
}

func (s *store) ListTrainerDay(ctx context.Context, trainerID int, day time.Time) ([]Schedule, error) {
	var out []Schedule
	err := sqlx.SelectContext(ctx, s.ext, &out,
		`SELECT `+scheduleColumns+` FROM class_schedules
		 WHERE trainer_id = $1 AND date = $2::date
		 ORDER BY start_time`,
		trainerID, day.Format(timerange.DateLayout),
	)
	return out, err
}

func (s *store) Insert(ctx context.Context, sc Schedule) (*Schedule, error) {
	var created Schedule
	err := sqlx.GetContext(ctx, s.ext, &created, `
		INSERT INTO class_schedules (class_name, date, start_time, end_time, trainer_id, admin_id, max_trainees)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7)
		RETURNING `+scheduleColumns,
		sc.ClassName, sc.Date.Format(timerange.DateLayout), sc.StartTime, sc.EndTime,
		sc.TrainerID, sc.AdminID, sc.MaxTrainees,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetDetails(ctx context.Context, id int) (*Details, error) {
	var d Details
	err := r.db.GetContext(ctx, &d, detailsSelect+` WHERE s.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	d.countSeats()
	return &d, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]Details, error) {
	var (
		conds []string
		args  []interface{}
	)

	if f.Date != nil {
		args = append(args, f.Date.Format(timerange.DateLayout))
		conds = append(conds, "s.date = $"+strconv.Itoa(len(args))+"::date")
	}
	if f.TrainerID != nil {
		args = append(args, *f.TrainerID)
		conds = append(conds, "s.trainer_id = $"+strconv.Itoa(len(args)))
	}

	query := detailsSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY s.date ASC, s.start_time ASC"

	out := []Details{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].countSeats()
	}
	return out, nil
}

func (r *repository) ActiveBookings(ctx context.Context, scheduleIDs []int) ([]BookingSummary, error) {
	out := []BookingSummary{}
	if len(scheduleIDs) == 0 {
		return out, nil
	}

	err := r.db.SelectContext(ctx, &out, `
		SELECT b.id, b.schedule_id, b.trainee_id, u.name AS trainee_name, u.email AS trainee_email, b.booked_at
		FROM bookings b
		JOIN trainees tr ON tr.id = b.trainee_id
		JOIN users u ON u.id = tr.user_id
		WHERE b.schedule_id = ANY($1) AND b.status = 'active'
		ORDER BY b.booked_at ASC`,
		pq.Array(scheduleIDs),
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM class_schedules WHERE id = $1)`, id)
}

func (r *repository) DeleteIfIdle(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM class_schedules WHERE id = $1 AND active_bookings_count = 0`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
