package cashbook

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/atelier/studio-engine/domain"
)

// =============================================================================
// PAYABLES - Expenses to be paid
// =============================================================================

// Payables manages the accounts-payable list. Paying a payable records
// exactly one expense transaction; IsPaid guards against double payment.
type Payables struct {
	payables domain.PayableStore
	ledger   *Ledger
}

func NewPayables(payables domain.PayableStore, ledger *Ledger) *Payables {
	return &Payables{payables: payables, ledger: ledger}
}

// Create registers a new unpaid payable.
func (p *Payables) Create(ctx context.Context, description string, amount domain.Money, dueDate time.Time) (domain.Payable, error) {
	if strings.TrimSpace(description) == "" {
		return domain.Payable{}, domain.ErrEmptyDescription
	}
	pay := domain.Payable{
		ID:          domain.NewPayableID(),
		Description: description,
		Amount:      amount,
		DueDate:     dueDate,
		IsPaid:      false,
	}
	if err := p.payables.PutPayable(ctx, pay); err != nil {
		return domain.Payable{}, err
	}
	return pay, nil
}

// Update edits description, amount and due date. Paid state is only
// changed through MarkPaid.
func (p *Payables) Update(ctx context.Context, id domain.PayableID, description string, amount domain.Money, dueDate time.Time) (domain.Payable, error) {
	if strings.TrimSpace(description) == "" {
		return domain.Payable{}, domain.ErrEmptyDescription
	}
	pay, err := p.payables.GetPayable(ctx, id)
	if err != nil {
		return domain.Payable{}, err
	}
	pay.Description = description
	pay.Amount = amount
	pay.DueDate = dueDate
	if err := p.payables.PutPayable(ctx, pay); err != nil {
		return domain.Payable{}, err
	}
	return pay, nil
}

// MarkPaid pays a payable: one expense transaction under the payable's
// deterministic id, then the IsPaid flag. A paid payable is rejected,
// which keeps the expense side append-only without upserts.
func (p *Payables) MarkPaid(ctx context.Context, id domain.PayableID, now time.Time) (domain.Payable, error) {
	pay, err := p.payables.GetPayable(ctx, id)
	if err != nil {
		return domain.Payable{}, err
	}
	if pay.IsPaid {
		return domain.Payable{}, domain.ErrPayableAlreadyPaid
	}

	tx := domain.Transaction{
		ID:          PaymentTransactionID(pay.ID),
		Type:        domain.TxExpense,
		Description: "Payment: " + pay.Description,
		Amount:      pay.Amount,
		Date:        now,
	}
	if err := p.ledger.txs.AppendTransaction(ctx, tx); err != nil {
		return domain.Payable{}, err
	}

	pay.IsPaid = true
	if err := p.payables.PutPayable(ctx, pay); err != nil {
		return domain.Payable{}, err
	}
	return pay, nil
}

// Upcoming returns the unpaid payables due in now's calendar month,
// soonest first.
func (p *Payables) Upcoming(ctx context.Context, now time.Time) ([]domain.Payable, error) {
	all, err := p.payables.ListPayables(ctx)
	if err != nil {
		return nil, err
	}
	var due []domain.Payable
	for _, pay := range all {
		if !pay.IsPaid && domain.SameMonth(pay.DueDate, now) {
			due = append(due, pay)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].DueDate.Before(due[j].DueDate) })
	return due, nil
}
