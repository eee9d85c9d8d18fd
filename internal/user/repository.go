package user

import (
	"context"
	"database/sql"
	"errors"

	"gymclass/internal/apperror"
	"gymclass/internal/auth"
	"gymclass/internal/db"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, password_hash, name, role, phone, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u NewUser) (*User, error) {
	var created User

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &created, `
			INSERT INTO users (email, password_hash, name, role, phone)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+userColumns,
			u.Email, u.PasswordHash, u.Name, u.Role, u.Phone,
		)
		if err != nil {
			return err
		}

		switch u.Role {
		case auth.RoleTrainer:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO trainers (user_id, specialization, experience, bio) VALUES ($1, $2, $3, $4)`,
				created.ID, u.Specialization, u.Experience, u.Bio,
			)
		case auth.RoleTrainee:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO trainees (user_id, age) VALUES ($1, $2)`,
				created.ID, u.Age,
			)
		}
		return err
	})
	if err != nil {
		if apperror.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	users := []User{}
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return users, nil
}
