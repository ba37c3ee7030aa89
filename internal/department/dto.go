package department

import (
	errors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/validation"
)

type CreateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateDepartmentDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("description", d.Description).MaxLength(500)
	return v.Validate()
}

type CreateTeamDTO struct {
	Name         string `json:"name"`
	DepartmentID int64  `json:"department_id"`
	LeadUserID   *int64 `json:"lead_user_id,omitempty"`
}

func (d CreateTeamDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("department_id", d.DepartmentID).Required()
	return v.Validate()
}
