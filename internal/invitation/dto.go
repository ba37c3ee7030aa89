package invitation

import (
	errors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/validation"
)

type CreateInvitationDTO struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (d CreateInvitationDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email().MaxLength(254)
	v.Field("role", d.Role).Required()
	return v.Validate()
}

type AcceptInvitationDTO struct {
	Token     string `json:"token"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (d AcceptInvitationDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("token", d.Token).Required()
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).Required().MaxLength(100)
	v.Field("password", d.Password).Required().Password()
	return v.Validate()
}
