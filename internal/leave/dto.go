package leave

import (
	"time"

	errors "github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/validation"
)

type CreateLeaveDTO struct {
	Type      string    `json:"type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

func (d CreateLeaveDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("type", d.Type).Required().Custom(func(interface{}) *errors.AppError {
		if d.Type != "" && !ValidType(d.Type) {
			return errors.NewValidationFieldError("type", "type must be one of annual, sick, unpaid", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("start_date", d.StartDate).Required()
	v.Field("end_date", d.EndDate).Required().Custom(func(interface{}) *errors.AppError {
		if !d.StartDate.IsZero() && !d.EndDate.IsZero() && d.EndDate.Before(d.StartDate) {
			return errors.NewValidationFieldError("end_date", "end_date must not be before start_date", errors.ErrCodeInvalidDateRange)
		}
		return nil
	})
	v.Field("reason", d.Reason).MaxLength(500)
	return v.Validate()
}
