package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnknownGateway     = errors.New("unknown payment gateway")
	ErrGatewayFailure     = errors.New("payment gateway failure")
	ErrInvalidExecContext = errors.New("invalid executor context")
)
