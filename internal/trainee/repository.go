package trainee

import (
	"context"
	"database/sql"
	"errors"

	"gymclass/internal/db"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID int) (*Profile, error)
	Update(ctx context.Context, userID int, req UpdateProfileRequest) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID int) (*Profile, error) {
	var p Profile
	err := r.db.GetContext(ctx, &p, `
		SELECT tr.id, tr.user_id, u.name, u.email, u.phone, tr.age, tr.created_at
		FROM trainees tr
		JOIN users u ON u.id = tr.user_id
		WHERE tr.user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, userID int, req UpdateProfileRequest) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE trainees SET age = COALESCE($2, age), updated_at = NOW()
			WHERE user_id = $1`,
			userID, req.Age,
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrProfileNotFound
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET name = COALESCE($2, name), phone = COALESCE($3, phone), updated_at = NOW()
			WHERE id = $1`,
			userID, req.Name, req.Phone,
		)
		return err
	})
}
