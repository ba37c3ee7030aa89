package employee

import (
	"context"
	"errors"
	"time"
)

// Employee is the HR profile attached to a user account. Account data (email,
// password, role) lives on the user; everything employment related lives here.
type Employee struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	UserID       int64      `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	JobTitle     string     `json:"job_title" gorm:"column:job_title"`
	DepartmentID *int64     `json:"department_id,omitempty" gorm:"column:department_id"`
	TeamID       *int64     `json:"team_id,omitempty" gorm:"column:team_id"`
	HireDate     *time.Time `json:"hire_date,omitempty" gorm:"column:hire_date"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Employee) TableName() string {
	return "employees"
}

var (
	ErrNotFound  = errors.New("employee not found")
	ErrDuplicate = errors.New("employee profile already exists for user")
)

type Repository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, id int64) (*Employee, error)
	GetByUserID(ctx context.Context, userID int64) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, departmentID int64) ([]*Employee, error)
}
