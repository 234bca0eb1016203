package cashbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier/studio-engine/cashbook"
	"github.com/atelier/studio-engine/domain"
	"github.com/atelier/studio-engine/store"
)

var testDay = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestLedger() (*cashbook.Ledger, *store.Memory) {
	st := store.NewMemory()
	return cashbook.NewLedger(st), st
}

// =============================================================================
// INCOME UPSERT
// =============================================================================

func TestRecordIncome_UpsertsByID(t *testing.T) {
	// GIVEN: An income transaction recorded for an appointment
	// WHEN: Recording again under the same deterministic id
	// THEN: One transaction remains, carrying the latest amount

	l, st := newTestLedger()
	ctx := context.Background()
	id := cashbook.IncomeTransactionID("apt-1")

	require.NoError(t, l.RecordIncome(ctx, id, "Services: Facial Cleansing (Carla Dias) by Junior Pimenta", domain.NewMoney(150), testDay))
	require.NoError(t, l.RecordIncome(ctx, id, "Services: Facial Cleansing, Wart Treatment (Carla Dias) by Junior Pimenta", domain.NewMoney(250), testDay))

	txs, err := st.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, id, txs[0].ID)
	assert.True(t, txs[0].Amount.Equal(domain.NewMoney(250)))
}

func TestTransactionIDs_AreDeterministic(t *testing.T) {
	assert.Equal(t, domain.TransactionID("trn-apt-1"), cashbook.IncomeTransactionID("apt-1"))
	assert.Equal(t, domain.TransactionID("trn-pay-1"), cashbook.PaymentTransactionID("pay-1"))
}

// =============================================================================
// EXPENSES AND HISTORY
// =============================================================================

func TestRecordExpense_AppendsWithFreshID(t *testing.T) {
	l, st := newTestLedger()
	ctx := context.Background()

	first, err := l.RecordExpense(ctx, "Supply purchase", domain.NewMoney(300), testDay)
	require.NoError(t, err)
	second, err := l.RecordExpense(ctx, "Supply purchase", domain.NewMoney(300), testDay)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "repeated expenses are distinct entries")

	txs, err := st.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestHistory_SortedNewestFirst(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	_, err := l.RecordExpense(ctx, "older", domain.NewMoney(10), testDay.AddDate(0, 0, -2))
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, "newest", domain.NewMoney(10), testDay)
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, "middle", domain.NewMoney(10), testDay.AddDate(0, 0, -1))
	require.NoError(t, err)

	history, err := l.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "newest", history[0].Description)
	assert.Equal(t, "middle", history[1].Description)
	assert.Equal(t, "older", history[2].Description)
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummary_TotalsAndTodayExpenses(t *testing.T) {
	// GIVEN: Income of 150+250, expenses of 300 (earlier) and 80 (today)
	// WHEN: Summarizing as of today
	// THEN: Net is 20 and today's expenses count only the 80

	l, _ := newTestLedger()
	ctx := context.Background()

	require.NoError(t, l.RecordIncome(ctx, cashbook.IncomeTransactionID("apt-1"), "a", domain.NewMoney(150), testDay.AddDate(0, 0, -3)))
	require.NoError(t, l.RecordIncome(ctx, cashbook.IncomeTransactionID("apt-2"), "b", domain.NewMoney(250), testDay))
	_, err := l.RecordExpense(ctx, "supplies", domain.NewMoney(300), testDay.AddDate(0, 0, -1))
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, "software", domain.NewMoney(80), testDay.Add(3*time.Hour))
	require.NoError(t, err)

	s, err := l.Summary(ctx, testDay)
	require.NoError(t, err)
	assert.True(t, s.TotalIncome.Equal(domain.NewMoney(400)))
	assert.True(t, s.TotalExpenses.Equal(domain.NewMoney(380)))
	assert.True(t, s.NetBalance.Equal(domain.NewMoney(20)))
	assert.True(t, s.TodayExpenses.Equal(domain.NewMoney(80)))
}

func TestSummary_EmptyLedgerIsAllZero(t *testing.T) {
	l, _ := newTestLedger()
	s, err := l.Summary(context.Background(), testDay)
	require.NoError(t, err)
	assert.True(t, s.NetBalance.IsZero())
	assert.True(t, s.TotalIncome.IsZero())
}
