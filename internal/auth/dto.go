package auth

import (
	"github.com/frahmantamala/hr-management/internal/core/validation"

	errors "github.com/frahmantamala/hr-management/internal"
)

// SignInDTO is the transport shape the HTTP handler accepts for sign-in.
type SignInDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d SignInDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

// SignInResult is what a successful authentication yields: the signed
// session token plus where the client should land.
type SignInResult struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	RedirectTo string `json:"redirect_to"`
	Token      string `json:"-"`
}
