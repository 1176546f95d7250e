package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrDuplicateReference  = errors.New("duplicate external reference")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUnknownTransaction  = errors.New("unknown transaction")
	ErrStorageFailure      = errors.New("storage failure")
	ErrGatewayRejected     = errors.New("gateway rejected request")
	ErrGatewayUnreachable  = errors.New("gateway unreachable")
)

// GatewayRejectedError is returned when the gateway saw the request and declined it.
type GatewayRejectedError struct {
	StatusCode int
	Body       string
}

func (e *GatewayRejectedError) Error() string {
	return fmt.Sprintf("gateway rejected request: status %d: %s", e.StatusCode, e.Body)
}

func (e *GatewayRejectedError) Is(target error) bool {
	return target == ErrGatewayRejected
}
