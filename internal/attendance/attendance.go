package attendance

import (
	"context"
	"errors"
	"time"
)

const (
	StatusOnTime = "ON_TIME"
	StatusLate   = "LATE"
)

// Attendance is one working day for one user. A record is open until the
// user checks out; at most one open record may exist per user per day.
type Attendance struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	UserID      int64      `json:"user_id" gorm:"column:user_id;not null;index:idx_attendance_user_day"`
	WorkDate    time.Time  `json:"work_date" gorm:"column:work_date;not null;index:idx_attendance_user_day"`
	CheckInAt   time.Time  `json:"check_in_at" gorm:"column:check_in_at;not null"`
	CheckInLat  float64    `json:"check_in_lat" gorm:"column:check_in_lat"`
	CheckInLng  float64    `json:"check_in_lng" gorm:"column:check_in_lng"`
	CheckOutAt  *time.Time `json:"check_out_at,omitempty" gorm:"column:check_out_at"`
	CheckOutLat *float64   `json:"check_out_lat,omitempty" gorm:"column:check_out_lat"`
	CheckOutLng *float64   `json:"check_out_lng,omitempty" gorm:"column:check_out_lng"`
	Status      string     `json:"status" gorm:"column:status;not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Attendance) TableName() string {
	return "attendances"
}

var ErrNotFound = errors.New("attendance record not found")

type Repository interface {
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	// GetOpenForDay returns the record for the user on the given day that has
	// no check-out yet, or ErrNotFound.
	GetOpenForDay(ctx context.Context, userID int64, day time.Time) (*Attendance, error)
	GetForDay(ctx context.Context, userID int64, day time.Time) (*Attendance, error)
	ListForUser(ctx context.Context, userID int64, from, to time.Time) ([]*Attendance, error)
	ListForDay(ctx context.Context, day time.Time) ([]*Attendance, error)
}

// MonthlySummary is one row of the per-user monthly report.
type MonthlySummary struct {
	UserID      int64  `json:"user_id" db:"user_id"`
	Email       string `json:"email" db:"email"`
	FirstName   string `json:"first_name" db:"first_name"`
	LastName    string `json:"last_name" db:"last_name"`
	DaysPresent int    `json:"days_present" db:"days_present"`
	DaysLate    int    `json:"days_late" db:"days_late"`
}

type ReportRepository interface {
	MonthlySummary(ctx context.Context, year int, month time.Month) ([]*MonthlySummary, error)
}
