package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeExpired      ErrorType = "EXPIRED"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "INSUFFICIENT_PERMISSION"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeDependency   ErrorType = "DEPENDENCY_FAILURE"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeWeakPassword     ErrorCode = "WEAK_PASSWORD"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeEmailNotVerified   ErrorCode = "EMAIL_NOT_VERIFIED"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInsufficientRole   ErrorCode = "INSUFFICIENT_PERMISSION"

	ErrCodeAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"
	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"

	ErrCodeTokenNotFound ErrorCode = "TOKEN_NOT_FOUND"
	ErrCodeTokenExpired  ErrorCode = "TOKEN_EXPIRED"

	ErrCodeInvitationNotFound  ErrorCode = "INVITATION_NOT_FOUND"
	ErrCodeInvitationExpired   ErrorCode = "INVITATION_EXPIRED"
	ErrCodeInvitationAccepted  ErrorCode = "INVITATION_ALREADY_ACCEPTED"
	ErrCodeInvitationCancelled ErrorCode = "INVITATION_CANCELLED"

	ErrCodeEmployeeNotFound    ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeEmployeeExists      ErrorCode = "EMPLOYEE_ALREADY_EXISTS"
	ErrCodeDepartmentNotFound  ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeDepartmentNotEmpty  ErrorCode = "DEPARTMENT_NOT_EMPTY"
	ErrCodeDuplicateDepartment ErrorCode = "DUPLICATE_DEPARTMENT"

	ErrCodeAlreadyCheckedIn ErrorCode = "ALREADY_CHECKED_IN"
	ErrCodeNoOpenAttendance ErrorCode = "NO_OPEN_ATTENDANCE"
	ErrCodeOutsideWindow    ErrorCode = "OUTSIDE_CHECKIN_WINDOW"

	ErrCodeLeaveNotFound   ErrorCode = "LEAVE_NOT_FOUND"
	ErrCodeLeaveOverlap    ErrorCode = "LEAVE_OVERLAP"
	ErrCodeLeaveNotPending ErrorCode = "LEAVE_NOT_PENDING"

	ErrCodePayslipNotFound ErrorCode = "PAYSLIP_NOT_FOUND"

	ErrCodeMailFailed  ErrorCode = "MAIL_SEND_FAILED"
	ErrCodeStoreFailed ErrorCode = "DATA_STORE_FAILED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewExpiredError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeExpired,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusGone,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewDependencyError wraps a data-store or mail failure. The cause is kept
// for logging but never serialized to the client.
func NewDependencyError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDependency,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

var (
	// Identical wording on unknown email and wrong password so callers
	// cannot enumerate accounts.
	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrEmailNotVerified   = NewForbiddenError("Please verify your email before signing in", ErrCodeEmailNotVerified)
	ErrUnauthorized       = NewUnauthorizedError("Authentication required", ErrCodeUnauthorized)
	ErrInsufficientRole   = NewForbiddenError("Insufficient permission", ErrCodeInsufficientRole)
	ErrAlreadyRegistered  = NewConflictError("An account with this email already exists", ErrCodeAlreadyRegistered)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
