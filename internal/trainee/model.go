package trainee

import "time"

type Profile struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Age       *int      `db:"age" json:"age,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=255" example:"Jane Doe"`
	Phone *string `json:"phone" binding:"omitempty,min=10,max=15" example:"+15551234567"`
	Age   *int    `json:"age" binding:"omitempty,gte=1,lte=120" example:"28"`
}
