package attendance

import (
	errors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/validation"
)

type CheckDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (d CheckDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("latitude", d.Latitude).Custom(func(interface{}) *errors.AppError {
		if d.Latitude < -90 || d.Latitude > 90 {
			return errors.NewValidationFieldError("latitude", "latitude must be between -90 and 90", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("longitude", d.Longitude).Custom(func(interface{}) *errors.AppError {
		if d.Longitude < -180 || d.Longitude > 180 {
			return errors.NewValidationFieldError("longitude", "longitude must be between -180 and 180", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return v.Validate()
}
