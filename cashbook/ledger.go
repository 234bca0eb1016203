/*
Package cashbook is the financial side of the studio engine: the
transaction ledger, the payables workflow and partner profit sharing.

PURPOSE:
  The ledger records income and expenses. Income entries written by the
  scheduling core are upserts keyed by a deterministic id, so an
  appointment owns at most one income transaction no matter how many
  times its finalization is re-saved. Expenses are plain appends:
  payables are paid at most once by construction, guarded by IsPaid.

SEE ALSO:
  - payables.go: the expense side fed by due payments
  - partners.go: profit distribution over the ledger's net balance
  - scheduling: the only RecordIncome caller in the core
*/
package cashbook

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/atelier/studio-engine/domain"
)

// =============================================================================
// DETERMINISTIC TRANSACTION IDS
// =============================================================================

// IncomeTransactionID derives the single income transaction id owned by
// an appointment. Re-finalizing replaces the entry under the same id.
func IncomeTransactionID(id domain.AppointmentID) domain.TransactionID {
	return domain.TransactionID("trn-" + string(id))
}

// PaymentTransactionID derives the expense transaction id recorded when
// a payable is marked paid.
func PaymentTransactionID(id domain.PayableID) domain.TransactionID {
	return domain.TransactionID("trn-" + string(id))
}

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	txs domain.TransactionStore
}

func NewLedger(txs domain.TransactionStore) *Ledger {
	return &Ledger{txs: txs}
}

// RecordIncome upserts an income entry by id: any existing transaction
// with the same id is removed, then the new one is appended. This is
// what makes re-finalizing an appointment idempotent with respect to
// the ledger.
func (l *Ledger) RecordIncome(ctx context.Context, id domain.TransactionID, description string, amount domain.Money, date time.Time) error {
	if err := l.txs.RemoveTransaction(ctx, id); err != nil {
		return fmt.Errorf("replace income %s: %w", id, err)
	}
	return l.txs.AppendTransaction(ctx, domain.Transaction{
		ID:          id,
		Type:        domain.TxIncome,
		Description: description,
		Amount:      amount,
		Date:        date,
	})
}

// RecordExpense appends an expense entry under a fresh id.
func (l *Ledger) RecordExpense(ctx context.Context, description string, amount domain.Money, date time.Time) (domain.Transaction, error) {
	tx := domain.Transaction{
		ID:          domain.NewTransactionID(),
		Type:        domain.TxExpense,
		Description: description,
		Amount:      amount,
		Date:        date,
	}
	if err := l.txs.AppendTransaction(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// History returns all transactions, most recent first.
func (l *Ledger) History(ctx context.Context) ([]domain.Transaction, error) {
	all, err := l.txs.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return all, nil
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary aggregates the cash position shown on the cash screen.
type Summary struct {
	TotalIncome   domain.Money
	TotalExpenses domain.Money
	NetBalance    domain.Money
	TodayExpenses domain.Money // expenses dated on now's calendar day
}

func (l *Ledger) Summary(ctx context.Context, now time.Time) (Summary, error) {
	all, err := l.txs.ListTransactions(ctx)
	if err != nil {
		return Summary{}, err
	}

	var s Summary
	for _, tx := range all {
		switch tx.Type {
		case domain.TxIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case domain.TxExpense:
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
			if domain.SameDay(tx.Date, now) {
				s.TodayExpenses = s.TodayExpenses.Add(tx.Amount)
			}
		}
	}
	s.NetBalance = s.TotalIncome.Sub(s.TotalExpenses)
	return s, nil
}
