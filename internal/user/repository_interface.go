package user

import "context"

type Repository interface {
	// Create inserts the user and, for TRAINER and TRAINEE, its profile row in one transaction.
	Create(ctx context.Context, u NewUser) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]User, error)
}
