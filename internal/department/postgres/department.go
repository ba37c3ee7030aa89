package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/hr-management/internal/department"
)

// DepartmentRepository implements department.Repository using GORM
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) CreateDepartment(ctx context.Context, d *department.Department) error {
	err := r.db.WithContext(ctx).Create(d).Error
	if err != nil && isUniqueViolation(err) {
		return department.ErrDuplicateName
	}
	return err
}

func (r *DepartmentRepository) GetDepartment(ctx context.Context, id int64) (*department.Department, error) {
	var d department.Department
	err := r.db.WithContext(ctx).First(&d, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, department.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) ListDepartments(ctx context.Context) ([]*department.Department, error) {
	var ds []*department.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&ds).Error
	return ds, err
}

func (r *DepartmentRepository) UpdateDepartment(ctx context.Context, d *department.Department) error {
	d.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Save(d).Error
	if err != nil && isUniqueViolation(err) {
		return department.ErrDuplicateName
	}
	return err
}

func (r *DepartmentRepository) DeleteDepartment(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&department.Department{}, id).Error
}

func (r *DepartmentRepository) CountTeams(ctx context.Context, departmentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&department.Team{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}

func (r *DepartmentRepository) CreateTeam(ctx context.Context, t *department.Team) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *DepartmentRepository) GetTeam(ctx context.Context, id int64) (*department.Team, error) {
	var t department.Team
	err := r.db.WithContext(ctx).First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, department.ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *DepartmentRepository) ListTeams(ctx context.Context, departmentID int64) ([]*department.Team, error) {
	var ts []*department.Team
	q := r.db.WithContext(ctx).Order("name ASC")
	if departmentID > 0 {
		q = q.Where("department_id = ?", departmentID)
	}
	err := q.Find(&ts).Error
	return ts, err
}

func (r *DepartmentRepository) UpdateTeam(ctx context.Context, t *department.Team) error {
	t.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *DepartmentRepository) DeleteTeam(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&department.Team{}, id).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
