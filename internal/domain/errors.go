package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Handlers map these onto HTTP
// status codes with errors.Is; nothing here is fatal to the process.
var (
	ErrValidation  = errors.New("validation error")
	ErrPersistence = errors.New("persistence error")
	ErrGateway     = errors.New("gateway error")
	ErrNotFound    = errors.New("not found")
)

// Validationf reports malformed caller input detected before any mutation.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Persistencef wraps a database failure. The cause stays reachable through
// errors.Is / errors.As.
func Persistencef(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// Gatewayf wraps a payment-gateway failure. Local state is never mutated
// before one of these is returned.
func Gatewayf(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrGateway, op, err)
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
