package user

import (
	errors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/validation"
)

// SignUpDTO is the payload for direct account creation.
type SignUpDTO struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (d SignUpDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email().MaxLength(254)
	v.Field("password", d.Password).Required().Password()
	v.Field("first_name", d.FirstName).Required().MaxLength(100)
	v.Field("last_name", d.LastName).Required().MaxLength(100)
	return v.Validate()
}

type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

func (d ForgotPasswordDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	return v.Validate()
}

type ResetPasswordDTO struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (d ResetPasswordDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("token", d.Token).Required()
	v.Field("password", d.Password).Required().Password()
	return v.Validate()
}

type AssignRoleDTO struct {
	Role string `json:"role"`
}

func (d AssignRoleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("role", d.Role).Required()
	return v.Validate()
}
