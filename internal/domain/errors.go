package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidMode      = errors.New("invalid mode")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidRate      = errors.New("interest rate must not be negative")
	ErrMissingPerson    = errors.New("person is required")
	ErrMissingDueDate   = errors.New("due date is required")
	ErrInvalidPlan      = errors.New("installment count must be at least one")
	ErrDebtNotFound     = errors.New("debt not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidRequest   = errors.New("invalid request")
)
