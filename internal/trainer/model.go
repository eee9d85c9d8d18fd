package trainer

import "time"

// Profile is a trainer row joined with its user.
type Profile struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"userId"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	Experience     *int      `db:"experience" json:"experience,omitempty"`
	Bio            *string   `db:"bio" json:"bio,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=2,max=255" example:"Alex Coach"`
	Phone          *string `json:"phone" binding:"omitempty,min=10,max=15" example:"+15551234567"`
	Specialization *string `json:"specialization" binding:"omitempty,min=2,max=255" example:"Yoga"`
	Experience     *int    `json:"experience" binding:"omitempty,gte=0,lte=50" example:"5"`
	Bio            *string `json:"bio" binding:"omitempty,max=500"`
}
