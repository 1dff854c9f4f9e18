// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Store errors
	ErrKeyNotFound = errors.New("key not found")

	// Request validation errors
	ErrInvalidRequest = errors.New("invalid request")

	// Bank registry errors
	ErrBankNotFound        = errors.New("bank not found")
	ErrBankAlreadyExists   = errors.New("bank already exists")
	ErrCorrespondentExists = errors.New("correspondent relationship already exists")

	// Preflight errors
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrInvalidRoute     = errors.New("route must contain at least two distinct banks")
	ErrRateNotAvailable = errors.New("exchange rate not available")

	// Transaction workflow errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidProposal     = errors.New("invalid transaction proposal")
	ErrInvalidApproval     = errors.New("invalid approval attempt for transaction")
	ErrNotParticipant      = errors.New("caller is not a participant of the transaction")

	// Liquidity errors
	ErrLiquidityEntryNotFound = errors.New("liquidity entry not found")
	ErrInsufficientLiquidity  = errors.New("liquidity adjustment would go negative")
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
