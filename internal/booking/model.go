package booking

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

type Booking struct {
	ID          int        `db:"id" json:"id"`
	TraineeID   int        `db:"trainee_id" json:"traineeId"`
	ScheduleID  int        `db:"schedule_id" json:"scheduleId"`
	Status      Status     `db:"status" json:"status"`
	BookedAt    time.Time  `db:"booked_at" json:"bookedAt"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`
}

func (b Booking) Active() bool {
	return b.Status == StatusActive
}

// Slot is the part of a schedule a booking needs for its checks.
type Slot struct {
	ID        int       `db:"id"`
	ClassName string    `db:"class_name"`
	Date      time.Time `db:"date"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
}

type TraineeSummary struct {
	ID    int    `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

type ScheduleSummary struct {
	ID          int       `db:"id" json:"id"`
	ClassName   string    `db:"class_name" json:"className"`
	Date        time.Time `db:"date" json:"date"`
	StartTime   string    `db:"start_time" json:"startTime"`
	EndTime     string    `db:"end_time" json:"endTime"`
	TrainerName string    `db:"trainer_name" json:"trainerName"`
}

// Details is a booking joined with its trainee and schedule.
type Details struct {
	Booking
	Trainee  TraineeSummary  `db:"trainee" json:"trainee"`
	Schedule ScheduleSummary `db:"schedule" json:"schedule"`
}

type CreateBookingRequest struct {
	ScheduleID int `json:"scheduleId" binding:"required,gt=0" example:"1"`
}
