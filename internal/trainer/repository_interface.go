package trainer

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID int) (*Profile, error)
	Update(ctx context.Context, userID int, req UpdateProfileRequest) error
}
