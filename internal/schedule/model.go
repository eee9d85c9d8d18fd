package schedule

import "time"

const (
	MaxTrainees          = 10
	MaxSchedulesPerDay   = 5
	ClassDurationMinutes = 120
)

type Schedule struct {
	ID                  int       `db:"id" json:"id"`
	ClassName           string    `db:"class_name" json:"className"`
	Date                time.Time `db:"date" json:"date"`
	StartTime           string    `db:"start_time" json:"startTime"`
	EndTime             string    `db:"end_time" json:"endTime"`
	TrainerID           int       `db:"trainer_id" json:"trainerId"`
	AdminID             int       `db:"admin_id" json:"adminId"`
	MaxTrainees         int       `db:"max_trainees" json:"maxTrainees"`
	ActiveBookingsCount int       `db:"active_bookings_count" json:"-"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
}

// Details is a schedule joined with its trainer and live booking count.
type Details struct {
	Schedule
	TrainerName     string           `db:"trainer_name" json:"trainerName"`
	TrainerEmail    string           `db:"trainer_email" json:"trainerEmail"`
	CurrentBookings int              `db:"current_bookings" json:"currentBookings"`
	AvailableSeats  int              `db:"-" json:"availableSeats"`
	Bookings        []BookingSummary `db:"-" json:"bookings,omitempty"`
}

func (d *Details) countSeats() {
	d.AvailableSeats = d.MaxTrainees - d.CurrentBookings
	if d.AvailableSeats < 0 {
		d.AvailableSeats = 0
	}
}

type BookingSummary struct {
	ID           int       `db:"id" json:"id"`
	ScheduleID   int       `db:"schedule_id" json:"-"`
	TraineeID    int       `db:"trainee_id" json:"traineeId"`
	TraineeName  string    `db:"trainee_name" json:"traineeName"`
	TraineeEmail string    `db:"trainee_email" json:"traineeEmail"`
	BookedAt     time.Time `db:"booked_at" json:"bookedAt"`
}

type Filter struct {
	Date      *time.Time
	TrainerID *int
}

type CreateScheduleRequest struct {
	ClassName string `json:"className" binding:"required,min=3,max=100" example:"Morning Yoga"`
	Date      string `json:"date" binding:"required,isodate" example:"2025-03-14"`
	StartTime string `json:"startTime" binding:"required,hhmm" example:"09:00"`
	EndTime   string `json:"endTime" binding:"required,hhmm" example:"11:00"`
	TrainerID int    `json:"trainerId" binding:"required,gt=0" example:"1"`
}

type ListSchedulesQuery struct {
	Date      string `form:"date" binding:"omitempty,isodate"`
	TrainerID int    `form:"trainerId" binding:"omitempty,gt=0"`
}
