package employee

import (
	"time"

	errors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/validation"
)

type CreateEmployeeDTO struct {
	UserID       int64      `json:"user_id"`
	JobTitle     string     `json:"job_title"`
	DepartmentID *int64     `json:"department_id,omitempty"`
	TeamID       *int64     `json:"team_id,omitempty"`
	HireDate     *time.Time `json:"hire_date,omitempty"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
}

func (d CreateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_id", d.UserID).Required()
	v.Field("job_title", d.JobTitle).Required().MaxLength(120)
	v.Field("phone", d.Phone).MaxLength(32)
	v.Field("address", d.Address).MaxLength(500)
	if d.HireDate != nil {
		v.Field("hire_date", *d.HireDate).NotFuture()
	}
	return v.Validate()
}

type UpdateEmployeeDTO struct {
	JobTitle     string     `json:"job_title"`
	DepartmentID *int64     `json:"department_id,omitempty"`
	TeamID       *int64     `json:"team_id,omitempty"`
	HireDate     *time.Time `json:"hire_date,omitempty"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
}

func (d UpdateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("job_title", d.JobTitle).Required().MaxLength(120)
	v.Field("phone", d.Phone).MaxLength(32)
	v.Field("address", d.Address).MaxLength(500)
	if d.HireDate != nil {
		v.Field("hire_date", *d.HireDate).NotFuture()
	}
	return v.Validate()
}
