package cashbook_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier/studio-engine/cashbook"
	"github.com/atelier/studio-engine/domain"
	"github.com/atelier/studio-engine/store"
)

func newTestPartners() (*cashbook.Partners, *cashbook.Ledger, *store.Memory) {
	st := store.NewMemory()
	ledger := cashbook.NewLedger(st)
	return cashbook.NewPartners(st, ledger), ledger, st
}

func partner(id, name string, pct int64) domain.Partner {
	return domain.Partner{
		ID:         domain.PartnerID(id),
		Name:       name,
		Percentage: decimal.NewFromInt(pct),
	}
}

func defaultRoster() []domain.Partner {
	return []domain.Partner{
		partner("prt-house", "House", 60),
		partner("prt-vini", "Vinicius Teixeira", 20),
		partner("prt-junior", "Junior Pimenta", 20),
	}
}

// =============================================================================
// ROSTER VALIDATION
// =============================================================================

func TestReplace_AcceptsRosterSummingToHundred(t *testing.T) {
	p, _, st := newTestPartners()
	ctx := context.Background()

	require.NoError(t, p.Replace(ctx, defaultRoster()))

	stored, err := st.ListPartners(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultRoster(), stored)
}

func TestReplace_RejectsBadPercentageSum(t *testing.T) {
	// GIVEN: A roster summing to 90
	// WHEN: Replacing
	// THEN: Rejected with the offending total; previous roster survives

	p, _, st := newTestPartners()
	ctx := context.Background()
	require.NoError(t, p.Replace(ctx, defaultRoster()))

	err := p.Replace(ctx, []domain.Partner{
		partner("prt-a", "A", 50),
		partner("prt-b", "B", 40),
	})
	require.ErrorIs(t, err, domain.ErrPercentageSum)

	var sumErr *domain.PercentageSumError
	require.ErrorAs(t, err, &sumErr)
	assert.True(t, sumErr.Total.Equal(decimal.NewFromInt(90)))

	stored, err := st.ListPartners(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultRoster(), stored)
}

func TestReplace_RoundsFractionsBeforeComparing(t *testing.T) {
	// Thirds: 33.33 + 33.33 + 33.34 rounds to 100 and is accepted.
	p, _, _ := newTestPartners()

	roster := []domain.Partner{
		{ID: "prt-a", Name: "A", Percentage: decimal.RequireFromString("33.33")},
		{ID: "prt-b", Name: "B", Percentage: decimal.RequireFromString("33.33")},
		{ID: "prt-c", Name: "C", Percentage: decimal.RequireFromString("33.34")},
	}
	assert.NoError(t, p.Replace(context.Background(), roster))
}

func TestReplace_RejectsBlankNames(t *testing.T) {
	p, _, _ := newTestPartners()

	err := p.Replace(context.Background(), []domain.Partner{
		partner("prt-a", "  ", 100),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

// =============================================================================
// DISTRIBUTION
// =============================================================================

func TestDistribution_SplitsPositiveNetBalance(t *testing.T) {
	// GIVEN: Net balance of 1000 and a 60/20/20 roster
	// WHEN: Computing the distribution
	// THEN: Shares are 600/200/200, in roster order

	p, ledger, _ := newTestPartners()
	ctx := context.Background()
	require.NoError(t, p.Replace(ctx, defaultRoster()))

	require.NoError(t, ledger.RecordIncome(ctx, cashbook.IncomeTransactionID("apt-1"), "a", domain.NewMoney(1200), testDay))
	_, err := ledger.RecordExpense(ctx, "supplies", domain.NewMoney(200), testDay)
	require.NoError(t, err)

	shares, err := p.Distribution(ctx, testDay)
	require.NoError(t, err)
	require.Len(t, shares, 3)
	assert.Equal(t, "House", shares[0].Partner.Name)
	assert.True(t, shares[0].Amount.Equal(domain.NewMoney(600)))
	assert.True(t, shares[1].Amount.Equal(domain.NewMoney(200)))
	assert.True(t, shares[2].Amount.Equal(domain.NewMoney(200)))
}

func TestDistribution_NoProfitMeansZeroShares(t *testing.T) {
	// GIVEN: Expenses exceeding income
	// WHEN: Computing the distribution
	// THEN: Every share is zero - losses are not distributed

	p, ledger, _ := newTestPartners()
	ctx := context.Background()
	require.NoError(t, p.Replace(ctx, defaultRoster()))

	_, err := ledger.RecordExpense(ctx, "rent", domain.NewMoney(1500), testDay)
	require.NoError(t, err)

	shares, err := p.Distribution(ctx, testDay)
	require.NoError(t, err)
	require.Len(t, shares, 3)
	for _, share := range shares {
		assert.True(t, share.Amount.IsZero())
	}
}
