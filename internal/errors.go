package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"
	ErrorTypeConflict         ErrorType = "CONFLICT"
	ErrorTypeInvalidReference ErrorType = "INVALID_REFERENCE"
	ErrorTypeStore            ErrorType = "STORE_ERROR"
	ErrorTypeNotSupported     ErrorType = "NOT_SUPPORTED"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeMissingField     ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"

	ErrCodePageNotFound      ErrorCode = "PAGE_NOT_FOUND"
	ErrCodeTripNotFound      ErrorCode = "TRIP_NOT_FOUND"
	ErrCodeExpenseNotFound   ErrorCode = "EXPENSE_NOT_FOUND"
	ErrCodeDuplicateTripName ErrorCode = "DUPLICATE_TRIP_NAME"
	ErrCodeInvalidReference  ErrorCode = "INVALID_REFERENCE"

	ErrCodeStore        ErrorCode = "STORE_ERROR"
	ErrCodeNotSupported ErrorCode = "NOT_SUPPORTED"
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

// UserMessage is the text shown to the end user. Store failures never
// expose their cause.
func (e *AppError) UserMessage() string {
	if e.Type == ErrorTypeStore {
		return e.Message
	}
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			if len(messages) > 0 {
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so copies made by WithCause/WithMessage still satisfy
// errors.Is against the package sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
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
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

// NewBadRequestError is for payloads that cannot be decoded at all.
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeInvalidRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
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

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewInvalidReferenceError reports a submitted display name (category,
// payment method, currency, country) that matches no reference row.
func NewInvalidReferenceError(field, value string) *AppError {
	message := fmt.Sprintf("Unknown %s %q.", strings.ReplaceAll(field, "_", " "), value)
	return &AppError{
		Type:       ErrorTypeInvalidReference,
		Code:       ErrCodeInvalidReference,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(ErrCodeInvalidReference)},
			},
		},
	}
}

func NewStoreError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeStore,
		Code:       ErrCodeStore,
		Message:    "Something went wrong while saving your data. Please try again.",
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrPageNotFound      = NewNotFoundError("Page not found.", ErrCodePageNotFound)
	ErrTripNotFound      = NewNotFoundError("Trip not found.", ErrCodeTripNotFound)
	ErrExpenseNotFound   = NewNotFoundError("Expense not found.", ErrCodeExpenseNotFound)
	ErrDuplicateTripName = NewConflictError("A trip with this name already exists.", ErrCodeDuplicateTripName)
	ErrInvalidReference  = &AppError{Type: ErrorTypeInvalidReference, Code: ErrCodeInvalidReference, Message: "Unknown reference.", StatusCode: http.StatusUnprocessableEntity}
	ErrStore             = NewStoreError(nil)
	ErrNotSupported      = &AppError{Type: ErrorTypeNotSupported, Code: ErrCodeNotSupported, Message: "Not supported by the configured database.", StatusCode: http.StatusNotImplemented}
)

// IsAppError unwraps err looking for an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// AsAppError returns err as an *AppError, classifying anything unknown as a
// store failure.
func AsAppError(err error) *AppError {
	if appErr, ok := IsAppError(err); ok {
		return appErr
	}
	return NewStoreError(err)
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
		Message: e.UserMessage(),
		Details: e.Details,
	})
}
