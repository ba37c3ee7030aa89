package department

import (
	"context"
	"errors"
	"time"
)

// Department groups teams; Team groups employees. A team always belongs to
// exactly one department and may have a lead.
type Department struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Department) TableName() string {
	return "departments"
}

type Team struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	DepartmentID int64     `json:"department_id" gorm:"column:department_id;not null;index"`
	LeadUserID   *int64    `json:"lead_user_id,omitempty" gorm:"column:lead_user_id"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Team) TableName() string {
	return "teams"
}

var (
	ErrNotFound      = errors.New("department not found")
	ErrTeamNotFound  = errors.New("team not found")
	ErrDuplicateName = errors.New("department name already exists")
)

type Repository interface {
	CreateDepartment(ctx context.Context, d *Department) error
	GetDepartment(ctx context.Context, id int64) (*Department, error)
	ListDepartments(ctx context.Context) ([]*Department, error)
	UpdateDepartment(ctx context.Context, d *Department) error
	DeleteDepartment(ctx context.Context, id int64) error
	CountTeams(ctx context.Context, departmentID int64) (int64, error)

	CreateTeam(ctx context.Context, t *Team) error
	GetTeam(ctx context.Context, id int64) (*Team, error)
	ListTeams(ctx context.Context, departmentID int64) ([]*Team, error)
	UpdateTeam(ctx context.Context, t *Team) error
	DeleteTeam(ctx context.Context, id int64) error
}
