package domain

import "errors"

// Sentinel errors for the handler layer to map onto HTTP statuses.
// Wrap with fmt.Errorf("%w: detail", ...) to add context.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserExists        = errors.New("user already exists")
	ErrForbidden         = errors.New("unauthorized access")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidState      = errors.New("cannot cancel order in current status")

	ErrInvalidCredentials  = errors.New("incorrect password")
	ErrPaymentVerification = errors.New("payment verification failed")
)
