package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/hr-management/internal/employee"
)

// EmployeeRepository implements employee.Repository using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	err := r.db.WithContext(ctx).Create(e).Error
	if err != nil && isUniqueViolation(err) {
		return employee.ErrDuplicate
	}
	return err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID int64) (*employee.Employee, error) {
	return r.getOne(ctx, "user_id = ?", userID)
}

func (r *EmployeeRepository) getOne(ctx context.Context, query string, arg any) (*employee.Employee, error) {
	var e employee.Employee
	err := r.db.WithContext(ctx).Where(query, arg).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	e.UpdatedAt = time.Now()
	// Select lists the nullable columns so clearing them persists.
	return r.db.WithContext(ctx).Model(e).
		Select("job_title", "department_id", "team_id", "hire_date", "phone", "address", "updated_at").
		Updates(e).Error
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&employee.Employee{}, id).Error
}

func (r *EmployeeRepository) List(ctx context.Context, departmentID int64) ([]*employee.Employee, error) {
	var es []*employee.Employee
	q := r.db.WithContext(ctx).Order("id ASC")
	if departmentID > 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	err := q.Find(&es).Error
	return es, err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
