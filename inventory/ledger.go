/*
Package inventory maintains product stock levels.

PURPOSE:
  Two mutation paths exist for stock. The scheduling core reconciles
  appointment usage through ApplyUsageDiff; the stock-management screens
  adjust single products through Adjust. Both share one rule:

    quantity never goes below zero - it is clamped, not rejected.

  The clamp is a deliberate availability-over-strictness choice. Callers
  that need strict reconciliation should treat a clamped result as a
  soft warning; the ledger itself stays silent about it.

SEE ALSO:
  - scheduling: computes the usage diff this ledger applies
  - domain/errors.go: ErrInvalidQuantity, InsufficientStockError
*/
package inventory

import (
	"context"
	"fmt"

	"github.com/atelier/studio-engine/domain"
)

// =============================================================================
// LEDGER
// =============================================================================

// Ledger adjusts product quantities through a ProductStore.
type Ledger struct {
	products domain.ProductStore
}

func NewLedger(products domain.ProductStore) *Ledger {
	return &Ledger{products: products}
}

// ApplyUsageDiff nets appointment consumption against stock. For every
// entry, quantity becomes max(0, quantity - diff): a positive diff is
// net additional consumption, a negative one a net return. Products not
// present in the diff are untouched; unknown product ids are skipped.
//
// Driving a quantity below zero is not an error - it floors at zero.
func (l *Ledger) ApplyUsageDiff(ctx context.Context, diff map[domain.ProductID]int) error {
	for id, delta := range diff {
		if delta == 0 {
			continue
		}
		p, err := l.products.GetProduct(ctx, id)
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return fmt.Errorf("load product %s: %w", id, err)
		}
		p.Quantity -= delta
		if p.Quantity < 0 {
			p.Quantity = 0
		}
		if err := l.products.PutProduct(ctx, p); err != nil {
			return fmt.Errorf("update product %s: %w", id, err)
		}
	}
	return nil
}

// Direction selects between the two single-product adjustments.
type Direction string

const (
	Add    Direction = "add"
	Remove Direction = "remove"
)

// Adjust changes one product's quantity from the stock screens.
// Quantity must be positive, and a removal may not exceed the on-hand
// amount (the screens confirm before submitting; the ledger re-checks).
func (l *Ledger) Adjust(ctx context.Context, id domain.ProductID, qty int, dir Direction) (domain.Product, error) {
	if qty <= 0 {
		return domain.Product{}, domain.ErrInvalidQuantity
	}

	p, err := l.products.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	switch dir {
	case Add:
		p.Quantity += qty
	case Remove:
		if qty > p.Quantity {
			return domain.Product{}, &domain.InsufficientStockError{
				ProductID: id,
				OnHand:    p.Quantity,
				Requested: qty,
			}
		}
		p.Quantity -= qty
	default:
		return domain.Product{}, fmt.Errorf("unknown adjustment direction %q", dir)
	}

	if err := l.products.PutProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// LowStock returns the products at or below their low-stock threshold,
// in insertion order.
func (l *Ledger) LowStock(ctx context.Context) ([]domain.Product, error) {
	all, err := l.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	var low []domain.Product
	for _, p := range all {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}
