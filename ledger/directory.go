/*
directory.go - Customer directory operations

PURPOSE:
  Create/read/update/delete for customer records. These operations carry no
  accounting logic except the two rules the Ledger Core owns:
    - phone numbers are unique across customers (Conflict)
    - deletion is blocked while any transaction references the customer

  TotalCredit and LastVisit are never written here; only the settlement and
  order paths in core.go touch them.

SEE ALSO:
  - core.go: Settlements, which mutate TotalCredit
  - catalog.go: The menu-item counterpart
*/
package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// CustomerInput carries the caller-editable customer fields.
type CustomerInput struct {
	Name  string
	Phone string
	Email string
}

func (in CustomerInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &InvalidInputError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(in.Phone) == "" {
		return &InvalidInputError{Field: "phone", Reason: "is required"}
	}
	return nil
}

// CreateCustomer registers a new customer with zero credit.
// Fails with ErrDuplicatePhone if another customer already has the phone.
func (c *Core) CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *Customer
	err := c.store.WithTx(ctx, func(s Store) error {
		if _, err := s.GetCustomerByPhone(ctx, in.Phone); err == nil {
			return ErrDuplicatePhone
		} else if !errors.Is(err, ErrCustomerNotFound) {
			return err
		}

		now := c.clock()
		customer := Customer{
			ID:          c.newID(),
			Name:        strings.TrimSpace(in.Name),
			Phone:       strings.TrimSpace(in.Phone),
			Email:       strings.ToLower(strings.TrimSpace(in.Email)),
			TotalCredit: decimal.Zero,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.InsertCustomer(ctx, customer); err != nil {
			return err
		}
		created = &customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetCustomer returns one customer by ID.
func (c *Core) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return c.store.GetCustomer(ctx, id)
}

// ListCustomers returns all customers sorted by name.
func (c *Core) ListCustomers(ctx context.Context) ([]Customer, error) {
	return c.store.ListCustomers(ctx)
}

// UpdateCustomer updates name/phone/email and the red-list flag. Credit and
// visit bookkeeping stay untouched. Fails with ErrDuplicatePhone if the new
// phone belongs to another customer.
func (c *Core) UpdateCustomer(ctx context.Context, id string, in CustomerInput, isRedListed bool) (*Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *Customer
	err := c.store.WithTx(ctx, func(s Store) error {
		customer, err := s.GetCustomer(ctx, id)
		if err != nil {
			return err
		}
		if other, err := s.GetCustomerByPhone(ctx, in.Phone); err == nil {
			if other.ID != id {
				return ErrDuplicatePhone
			}
		} else if !errors.Is(err, ErrCustomerNotFound) {
			return err
		}

		customer.Name = strings.TrimSpace(in.Name)
		customer.Phone = strings.TrimSpace(in.Phone)
		customer.Email = strings.ToLower(strings.TrimSpace(in.Email))
		customer.IsRedListed = isRedListed
		customer.UpdatedAt = c.clock()
		if err := s.UpdateCustomer(ctx, *customer); err != nil {
			return err
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ToggleRedList flips the advisory red-list flag. No ledger side effect.
func (c *Core) ToggleRedList(ctx context.Context, id string) (*Customer, error) {
	var updated *Customer
	err := c.store.WithTx(ctx, func(s Store) error {
		customer, err := s.GetCustomer(ctx, id)
		if err != nil {
			return err
		}
		customer.IsRedListed = !customer.IsRedListed
		customer.UpdatedAt = c.clock()
		if err := s.UpdateCustomer(ctx, *customer); err != nil {
			return err
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCustomer removes a customer with no transaction history.
// Fails with ErrCustomerHasTransactions while any transaction references
// the customer; this rule lives here, not in the store.
func (c *Core) DeleteCustomer(ctx context.Context, id string) error {
	return c.store.WithTx(ctx, func(s Store) error {
		n, err := s.CountTransactionsByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrCustomerHasTransactions
		}
		if _, err := s.GetCustomer(ctx, id); err != nil {
			return err
		}
		return s.DeleteCustomer(ctx, id)
	})
}
