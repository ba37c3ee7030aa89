package leave

import (
	"context"
	"errors"
	"time"
)

const (
	TypeAnnual = "annual"
	TypeSick   = "sick"
	TypeUnpaid = "unpaid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// LeaveRequest moves PENDING -> APPROVED | REJECTED | CANCELLED. Approval and
// rejection are terminal and record the reviewer; only the owner may cancel,
// and only while pending.
type LeaveRequest struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	UserID     int64      `json:"user_id" gorm:"column:user_id;not null;index"`
	Type       string     `json:"type" gorm:"column:leave_type;not null"`
	StartDate  time.Time  `json:"start_date" gorm:"column:start_date;not null"`
	EndDate    time.Time  `json:"end_date" gorm:"column:end_date;not null"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status" gorm:"column:status;not null;default:PENDING"`
	ReviewedBy *int64     `json:"reviewed_by,omitempty" gorm:"column:reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty" gorm:"column:reviewed_at"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

var ErrNotFound = errors.New("leave request not found")

func ValidType(t string) bool {
	switch t {
	case TypeAnnual, TypeSick, TypeUnpaid:
		return true
	}
	return false
}

type Repository interface {
	Create(ctx context.Context, lr *LeaveRequest) error
	GetByID(ctx context.Context, id int64) (*LeaveRequest, error)
	Update(ctx context.Context, lr *LeaveRequest) error
	ListForUser(ctx context.Context, userID int64) ([]*LeaveRequest, error)
	ListByStatus(ctx context.Context, status string) ([]*LeaveRequest, error)
	// CountOverlapping counts the user's PENDING or APPROVED requests whose
	// date range intersects [start, end], excluding excludeID.
	CountOverlapping(ctx context.Context, userID int64, start, end time.Time, excludeID int64) (int64, error)
}
