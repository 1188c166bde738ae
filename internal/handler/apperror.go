package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrEmailTaken      = &AppError{http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists"}
	ErrDebtNotFound    = &AppError{http.StatusNotFound, "DEBT_NOT_FOUND", "Debt entry not found"}
	ErrPaymentNotFound = &AppError{http.StatusNotFound, "PAYMENT_NOT_FOUND", "Payment not found"}
	ErrNothingToUndo   = &AppError{http.StatusGone, "NOTHING_TO_UNDO", "No recent deletion to restore"}
	ErrInvalidAmount   = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInvalidRate     = &AppError{http.StatusBadRequest, "INVALID_RATE", "Interest rate must not be negative"}
	ErrInvalidMode     = &AppError{http.StatusBadRequest, "INVALID_MODE", "Mode must be owe or owed"}
	ErrMissingPerson   = &AppError{http.StatusBadRequest, "MISSING_PERSON", "Person name is required"}
	ErrMissingDueDate  = &AppError{http.StatusBadRequest, "MISSING_DUE_DATE", "Due date is required"}
	ErrInvalidPlan     = &AppError{http.StatusBadRequest, "INVALID_INSTALLMENT", "Installment index out of range"}
)
