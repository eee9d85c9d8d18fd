package trainer

import (
	"context"
	"database/sql"
	"errors"

	"gymclass/internal/db"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID int) (*Profile, error) {
	var p Profile
	err := r.db.GetContext(ctx, &p, `
		SELECT t.id, t.user_id, u.name, u.email, u.phone, t.specialization, t.experience, t.bio, t.created_at
		FROM trainers t
		JOIN users u ON u.id = t.user_id
		WHERE t.user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update writes the user and trainer halves of the profile in one
// transaction. Absent fields keep their stored value.
func (r *repository) Update(ctx context.Context, userID int, req UpdateProfileRequest) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE trainers
			SET specialization = COALESCE($2, specialization),
			    experience = COALESCE($3, experience),
			    bio = COALESCE($4, bio),
			    updated_at = NOW()
			WHERE user_id = $1`,
			userID, req.Specialization, req.Experience, req.Bio,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrProfileNotFound
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET name = COALESCE($2, name),
			    phone = COALESCE($3, phone),
			    updated_at = NOW()
			WHERE id = $1`,
			userID, req.Name, req.Phone,
		)
		return err
	})
}
