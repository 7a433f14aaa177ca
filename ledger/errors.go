/*
errors.go - Error taxonomy for the credit ledger

PURPOSE:
  All ledger errors in one place. The taxonomy is fixed:
    InvalidInput - missing/out-of-range/malformed fields
    NotFound     - customer, item, or transaction absent
    Conflict     - duplicate phone or item name on create/update
    Rejected     - business-rule violation (no outstanding credit,
                   already-settled transaction, delete blocked)
    Internal     - persistence or collaborator failure

  The API layer maps the taxonomy to status codes via the classifier
  helpers at the bottom of this file. All business-rule checks run
  before any mutation; callers never see stack or driver detail.

USAGE:
  if ledger.IsNotFound(err) {
      // 404
  }

SEE ALSO:
  - core.go: Returns these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCustomerNotFound is returned when a referenced customer doesn't exist.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrItemNotFound is returned when a referenced menu item doesn't exist.
	ErrItemNotFound = errors.New("menu item not found")

	// ErrTransactionNotFound is returned when a referenced transaction doesn't exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicatePhone is returned when a create/update would reuse another
	// customer's phone number.
	ErrDuplicatePhone = errors.New("customer with this phone already exists")

	// ErrDuplicateItemName is returned when a create/update would reuse
	// another menu item's name.
	ErrDuplicateItemName = errors.New("menu item with this name already exists")

	// ErrNoOutstandingCredit is returned when a standalone payment targets a
	// customer whose aggregate credit is zero.
	ErrNoOutstandingCredit = errors.New("customer has no outstanding credit")

	// ErrAlreadySettled is returned when a payment targets a fully paid
	// transaction.
	ErrAlreadySettled = errors.New("transaction is already fully paid")

	// ErrCustomerHasTransactions blocks customer deletion while any
	// transaction still references the customer.
	ErrCustomerHasTransactions = errors.New("cannot delete customer with existing transactions")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError reports a missing, malformed, or out-of-range field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnavailableItemError reports an order line referencing an item that exists
// but is currently marked unavailable.
type UnavailableItemError struct {
	ItemID string
	Name   string
}

func (e *UnavailableItemError) Error() string {
	return fmt.Sprintf("menu item %s is not available", e.Name)
}

// MissingItemError reports an order line referencing an absent item.
// It unwraps to ErrItemNotFound so classifier checks still work.
type MissingItemError struct {
	ItemID string
}

func (e *MissingItemError) Error() string {
	return fmt.Sprintf("menu item with ID %s not found", e.ItemID)
}

func (e *MissingItemError) Unwrap() error { return ErrItemNotFound }

// =============================================================================
// CLASSIFIERS - Taxonomy checks for the transport boundary
// =============================================================================

// IsNotFound returns true if the error indicates an absent record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}

// IsInvalid returns true if the error is due to invalid caller input.
func IsInvalid(err error) bool {
	var inv *InvalidInputError
	return errors.As(err, &inv)
}

// IsConflict returns true for duplicate-key violations on create/update.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicatePhone) ||
		errors.Is(err, ErrDuplicateItemName)
}

// IsRejected returns true for business-rule rejections.
func IsRejected(err error) bool {
	var unavailable *UnavailableItemError
	return errors.Is(err, ErrNoOutstandingCredit) ||
		errors.Is(err, ErrAlreadySettled) ||
		errors.Is(err, ErrCustomerHasTransactions) ||
		errors.As(err, &unavailable)
}
