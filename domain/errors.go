/*
errors.go - Centralized error types for the studio engine

PURPOSE:
  All domain error types in one place for consistency and discoverability.
  Packages above this one wrap these errors with additional context.

ERROR CATEGORIES:
  1. Validation errors - user-correctable, surfaced before any mutation
  2. Not-found errors - a referenced entity does not exist
  3. Structured errors - carry details, unwrap to a sentinel

Inventory clamping is deliberately NOT an error: a usage diff that would
drive a quantity below zero floors it at zero silently.

USAGE:
  if domain.IsValidation(err) {
      // reject the request, nothing was mutated
  }
*/
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrClientRequired is returned when an appointment save names no
	// client, or names one that does not exist.
	ErrClientRequired = errors.New("a client is required")

	// ErrNoServices is returned when an appointment save selects no services.
	ErrNoServices = errors.New("at least one service is required")

	// ErrProfessionalRequired is returned when finalizing without a
	// responsible professional.
	ErrProfessionalRequired = errors.New("a responsible professional is required")

	// ErrInvalidQuantity is returned for non-positive adjustment or
	// usage quantities.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrInsufficientStock is returned when a direct stock removal
	// exceeds the on-hand quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrAppointmentFinished is returned when Edit is called on a
	// finished appointment; finished records are re-saved via Finalize.
	ErrAppointmentFinished = errors.New("appointment already finalized")

	// ErrPayableAlreadyPaid is returned when marking a paid payable paid again.
	ErrPayableAlreadyPaid = errors.New("payable already paid")

	// ErrPercentageSum is returned when partner percentages do not sum to 100.
	ErrPercentageSum = errors.New("partner percentages must sum to 100")

	// ErrEmptyName is returned for catalog entities saved with a blank name.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrEmptyDescription is returned for payables saved with a blank description.
	ErrEmptyDescription = errors.New("description must not be empty")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError reports which entity was missing.
type NotFoundError struct {
	Kind string // "client", "product", "appointment", ...
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.ID) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError provides details about a rejected stock removal.
type InsufficientStockError struct {
	ProductID ProductID
	OnHand    int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: on hand %d, requested %d",
		e.ProductID, e.OnHand, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// PercentageSumError reports the actual total of a rejected partner set.
type PercentageSumError struct {
	Total decimal.Decimal
}

func (e *PercentageSumError) Error() string {
	return fmt.Sprintf("partner percentages sum to %s, expected 100", e.Total)
}

func (e *PercentageSumError) Unwrap() error { return ErrPercentageSum }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation returns true if the error is a user-correctable
// validation rejection. Validation failures never leave partial state.
func IsValidation(err error) bool {
	return errors.Is(err, ErrClientRequired) ||
		errors.Is(err, ErrNoServices) ||
		errors.Is(err, ErrProfessionalRequired) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrAppointmentFinished) ||
		errors.Is(err, ErrPayableAlreadyPaid) ||
		errors.Is(err, ErrPercentageSum) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrEmptyDescription)
}
