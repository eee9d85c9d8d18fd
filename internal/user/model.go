package user

import (
	"time"

	"gymclass/internal/auth"
)

type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         auth.Role `db:"role" json:"role"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// NewUser is everything needed to insert a user together with its role profile.
type NewUser struct {
	Email          string
	PasswordHash   string
	Name           string
	Role           auth.Role
	Phone          *string
	Specialization *string
	Experience     *int
	Bio            *string
	Age            *int
}

type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string  `json:"password" binding:"required,min=6" example:"secret123"`
	Name     string  `json:"name" binding:"required,min=2" example:"Jane Doe"`
	Phone    *string `json:"phone" binding:"omitempty,min=10,max=15" example:"+15551234567"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@gym.com"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

type CreateUserRequest struct {
	Email          string    `json:"email" binding:"required,email"`
	Password       string    `json:"password" binding:"required,min=6"`
	Name           string    `json:"name" binding:"required,min=2"`
	Role           auth.Role `json:"role" binding:"required,oneof=TRAINER TRAINEE" example:"TRAINER"`
	Phone          *string   `json:"phone" binding:"omitempty,min=10,max=15"`
	Specialization *string   `json:"specialization" binding:"omitempty,min=2"`
	Experience     *int      `json:"experience" binding:"omitempty,gte=0,lte=50"`
	Bio            *string   `json:"bio" binding:"omitempty,max=500"`
	Age            *int      `json:"age" binding:"omitempty,gte=1,lte=120"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         *User  `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
