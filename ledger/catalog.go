/*
catalog.go - Menu catalog operations

PURPOSE:
  Create/read/update/delete for menu items, plus the availability toggle.
  The Ledger Core only ever reads the catalog when resolving order lines;
  these management operations exist so the service is self-contained.

  Item names are unique across the catalog (Conflict on reuse). Deleting or
  editing an item never rewrites history: orders snapshot name and price at
  creation time.

SEE ALSO:
  - core.go: CreateOrder, the read path
  - directory.go: The customer counterpart
*/
package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ItemInput carries the caller-editable menu item fields.
type ItemInput struct {
	Name        string
	Price       decimal.Decimal
	Category    string
	IsAvailable *bool // nil = default true on create, keep current on update
}

func (in ItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &InvalidInputError{Field: "name", Reason: "is required"}
	}
	if in.Price.IsNegative() {
		return &InvalidInputError{Field: "price", Reason: "must not be negative"}
	}
	if strings.TrimSpace(in.Category) == "" {
		return &InvalidInputError{Field: "category", Reason: "is required"}
	}
	return nil
}

// CreateItem adds a menu item. Fails with ErrDuplicateItemName if another
// item already has the name.
func (c *Core) CreateItem(ctx context.Context, in ItemInput) (*MenuItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *MenuItem
	err := c.store.WithTx(ctx, func(s Store) error {
		if _, err := s.GetItemByName(ctx, in.Name); err == nil {
			return ErrDuplicateItemName
		} else if !errors.Is(err, ErrItemNotFound) {
			return err
		}

		available := true
		if in.IsAvailable != nil {
			available = *in.IsAvailable
		}
		now := c.clock()
		item := MenuItem{
			ID:          c.newID(),
			Name:        strings.TrimSpace(in.Name),
			Price:       in.Price,
			Category:    strings.TrimSpace(in.Category),
			IsAvailable: available,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.InsertItem(ctx, item); err != nil {
			return err
		}
		created = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetItem returns one menu item by ID.
func (c *Core) GetItem(ctx context.Context, id string) (*MenuItem, error) {
	return c.store.GetItem(ctx, id)
}

// ListItems returns all menu items sorted by category, then name.
func (c *Core) ListItems(ctx context.Context) ([]MenuItem, error) {
	return c.store.ListItems(ctx)
}

// UpdateItem edits a menu item. Fails with ErrDuplicateItemName if the new
// name belongs to another item.
func (c *Core) UpdateItem(ctx context.Context, id string, in ItemInput) (*MenuItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *MenuItem
	err := c.store.WithTx(ctx, func(s Store) error {
		item, err := s.GetItem(ctx, id)
		if err != nil {
			return err
		}
		if other, err := s.GetItemByName(ctx, in.Name); err == nil {
			if other.ID != id {
				return ErrDuplicateItemName
			}
		} else if !errors.Is(err, ErrItemNotFound) {
			return err
		}

		item.Name = strings.TrimSpace(in.Name)
		item.Price = in.Price
		item.Category = strings.TrimSpace(in.Category)
		if in.IsAvailable != nil {
			item.IsAvailable = *in.IsAvailable
		}
		item.UpdatedAt = c.clock()
		if err := s.UpdateItem(ctx, *item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteItem removes a menu item. Historical orders keep their snapshots.
func (c *Core) DeleteItem(ctx context.Context, id string) error {
	return c.store.WithTx(ctx, func(s Store) error {
		return s.DeleteItem(ctx, id)
	})
}

// ToggleAvailability flips the availability flag.
func (c *Core) ToggleAvailability(ctx context.Context, id string) (*MenuItem, error) {
	var updated *MenuItem
	err := c.store.WithTx(ctx, func(s Store) error {
		item, err := s.GetItem(ctx, id)
		if err != nil {
			return err
		}
		item.IsAvailable = !item.IsAvailable
		item.UpdatedAt = c.clock()
		if err := s.UpdateItem(ctx, *item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
