package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier/studio-engine/cashbook"
	"github.com/atelier/studio-engine/domain"
	"github.com/atelier/studio-engine/scheduling"
	"github.com/atelier/studio-engine/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testClock = time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*scheduling.Manager, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, st.PutClient(ctx, domain.Client{ID: "cli-carla", Name: "Carla Dias", Phone: "31 99999-8888"}))
	require.NoError(t, st.PutService(ctx, domain.Service{ID: "serv-facial", Name: "Facial Cleansing", Duration: 60, Cost: domain.NewMoney(150)}))
	require.NoError(t, st.PutService(ctx, domain.Service{ID: "serv-brows", Name: "Brow Micropigmentation", Duration: 120, Cost: domain.NewMoney(450)}))
	require.NoError(t, st.PutProfessional(ctx, domain.Professional{ID: "prof-junior", Name: "Junior Pimenta"}))
	require.NoError(t, st.PutProduct(ctx, domain.Product{ID: "prod-gel", Name: "Cleansing Gel", Quantity: 10, LowStockThreshold: 3, Cost: domain.NewMoney(20)}))
	require.NoError(t, st.PutProduct(ctx, domain.Product{ID: "prod-clay", Name: "Green Clay Mask", Quantity: 2, LowStockThreshold: 5, Cost: domain.NewMoney(15.75)}))

	m := scheduling.NewManager(st)
	m.Now = func() time.Time { return testClock }
	return m, st
}

func createScheduled(t *testing.T, m *scheduling.Manager) domain.Appointment {
	t.Helper()
	apt, err := m.Create(context.Background(), scheduling.CreateRequest{
		ClientID:   "cli-carla",
		ServiceIDs: []domain.ServiceID{"serv-facial"},
		Date:       testClock,
	})
	require.NoError(t, err)
	return apt
}

func finalizeReq(usage ...domain.ProductUsage) scheduling.FinalizeRequest {
	return scheduling.FinalizeRequest{
		ClientID:       "cli-carla",
		ServiceIDs:     []domain.ServiceID{"serv-facial"},
		Date:           testClock,
		ProfessionalID: "prof-junior",
		UsedProducts:   usage,
	}
}

func productQty(t *testing.T, st *store.Memory, id domain.ProductID) int {
	t.Helper()
	p, err := st.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

// =============================================================================
// CREATE / EDIT
// =============================================================================

func TestCreate_SnapshotsClientAndServices(t *testing.T) {
	// GIVEN: A client and two catalog services
	// WHEN: Booking both services
	// THEN: The appointment stores snapshots with summed duration and cost

	m, st := newTestManager(t)
	ctx := context.Background()

	apt, err := m.Create(ctx, scheduling.CreateRequest{
		ClientID:   "cli-carla",
		ServiceIDs: []domain.ServiceID{"serv-facial", "serv-brows"},
		Date:       testClock,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusScheduled, apt.Status)
	assert.Equal(t, "Carla Dias", apt.ClientName)
	assert.Equal(t, 180, apt.Duration)
	assert.True(t, apt.Cost.Equal(domain.NewMoney(600)), "cost should sum the service snapshots")
	assert.Empty(t, apt.UsedProducts)

	// Booking has no ledger side effects
	txs, err := st.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestCreate_Validation(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Create(ctx, scheduling.CreateRequest{ServiceIDs: []domain.ServiceID{"serv-facial"}, Date: testClock})
	assert.ErrorIs(t, err, domain.ErrClientRequired)

	_, err = m.Create(ctx, scheduling.CreateRequest{ClientID: "cli-ghost", ServiceIDs: []domain.ServiceID{"serv-facial"}, Date: testClock})
	assert.ErrorIs(t, err, domain.ErrClientRequired)

	_, err = m.Create(ctx, scheduling.CreateRequest{ClientID: "cli-carla", Date: testClock})
	assert.ErrorIs(t, err, domain.ErrNoServices)

	_, err = m.Create(ctx, scheduling.CreateRequest{ClientID: "cli-carla", ServiceIDs: []domain.ServiceID{"serv-ghost"}, Date: testClock})
	assert.True(t, domain.IsNotFound(err))
}

func TestEdit_RecomputesSnapshots(t *testing.T) {
	// GIVEN: A scheduled facial appointment
	// WHEN: Editing it to the brow service
	// THEN: Duration and cost are recomputed from the new snapshot

	m, _ := newTestManager(t)
	apt := createScheduled(t, m)

	edited, err := m.Edit(context.Background(), apt.ID, scheduling.EditRequest{
		ClientID:   "cli-carla",
		ServiceIDs: []domain.ServiceID{"serv-brows"},
		Date:       testClock.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, 120, edited.Duration)
	assert.True(t, edited.Cost.Equal(domain.NewMoney(450)))
	assert.Equal(t, domain.StatusScheduled, edited.Status)
}

func TestEdit_FinishedAppointmentRejected(t *testing.T) {
	// GIVEN: A finalized appointment
	// WHEN: Editing it through Edit
	// THEN: Rejected - finished records are re-saved through Finalize

	m, _ := newTestManager(t)
	apt := createScheduled(t, m)

	_, err := m.Finalize(context.Background(), apt.ID, finalizeReq())
	require.NoError(t, err)

	_, err = m.Edit(context.Background(), apt.ID, scheduling.EditRequest{
		ClientID:   "cli-carla",
		ServiceIDs: []domain.ServiceID{"serv-facial"},
		Date:       testClock,
	})
	assert.ErrorIs(t, err, domain.ErrAppointmentFinished)
}

// =============================================================================
// FINALIZE - FIRST TIME
// =============================================================================

func TestFinalize_DeductsStockAndRecordsIncome(t *testing.T) {
	// GIVEN: A scheduled appointment and 10 units of gel on hand
	// WHEN: Finalizing with 3 units used
	// THEN: Stock drops to 7, one income transaction is recorded, the
	//       record is finished and the client's last visit is refreshed

	m, st := newTestManager(t)
	ctx := context.Background()
	apt := createScheduled(t, m)

	done, err := m.Finalize(ctx, apt.ID, finalizeReq(domain.ProductUsage{ProductID: "prod-gel", Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFinished, done.Status)
	assert.Equal(t, domain.ProfessionalID("prof-junior"), done.ProfessionalID)
	assert.Equal(t, 7, productQty(t, st, "prod-gel"))

	txs, err := st.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, cashbook.IncomeTransactionID(apt.ID), txs[0].ID)
	assert.Equal(t, domain.TxIncome, txs[0].Type)
	assert.Equal(t, "Services: Facial Cleansing (Carla Dias) by Junior Pimenta", txs[0].Description)
	assert.True(t, txs[0].Amount.Equal(domain.NewMoney(150)))

	client, err := st.GetClient(ctx, "cli-carla")
	require.NoError(t, err)
	assert.True(t, client.LastVisit.Equal(testClock))
}

func TestFinalize_MergesDuplicateProductSelections(t *testing.T) {
	// GIVEN: A finalize request listing the same product twice
	// WHEN: Finalizing
	// THEN: The stored usage is merged additively and stock reflects the sum

	m, st := newTestManager(t)
	apt := createScheduled(t, m)

	done, err := m.Finalize(context.Background(), apt.ID, finalizeReq(
		domain.ProductUsage{ProductID: "prod-gel", Quantity: 1},
		domain.ProductUsage{ProductID: "prod-gel", Quantity: 2},
	))
	require.NoError(t, err)

	require.Len(t, done.UsedProducts, 1)
	assert.Equal(t, domain.ProductUsage{ProductID: "prod-gel", Quantity: 3}, done.UsedProducts[0])
	assert.Equal(t, 7, productQty(t, st, "prod-gel"))
}

func TestFinalize_StockFloorsAtZero(t *testing.T) {
	// GIVEN: 2 units of clay mask on hand
	// WHEN: Finalizing with 5 units used
	// THEN: Stock clamps to zero and finalization still succeeds

	m, st := newTestManager(t)
	apt := createScheduled(t, m)

	_, err := m.Finalize(context.Background(), apt.ID, finalizeReq(domain.ProductUsage{ProductID: "prod-clay", Quantity: 5}))
	require.NoError(t, err)
	assert.Equal(t, 0, productQty(t, st, "prod-clay"))
}

// =============================================================================
// FINALIZE - RE-SAVE AND RECONCILIATION
// =============================================================================

func TestFinalize_ResaveReconcilesByDiff(t *testing.T) {
	// GIVEN: Gel stock at 10
	// WHEN: Finalizing with 3, then re-saving with 1, then with 5
	// THEN: Stock follows the usage diffs: 10 -> 7 -> 9 -> 5

	m, st := newTestManager(t)
	ctx := context.Background()
	apt := createScheduled(t, m)

	_, err := m.Finalize(ctx, apt.ID, finalizeReq(domain.ProductUsage{ProductID: "prod-gel", Quantity: 3}))
	require.NoError(t, err)
	assert.Equal(t, 7, productQty(t, st, "prod-gel"))

	_, err = m.Finalize(ctx, apt.ID, finalizeReq(domain.ProductUsage{ProductID: "prod-gel", Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, 9, productQty(t, st, "prod-gel"))

	_, err = m.Finalize(ctx, apt.ID, finalizeReq(domain.ProductUsage{ProductID: "prod-gel", Quantity: 5}))
	require.NoError(t, err)
	assert.Equal(t, 5, productQty(t, st, "prod-gel"))
}

func TestFinalize_ResaveWithSameUsageIsIdempotent(t *testing.T) {
	// GIVEN: A finalized appointment with 3 units of gel used
	// WHEN: Re-saving with the identical usage
	// THEN: Stock does not move again and no duplicate transaction appears

	m, st := newTestManager(t)
	ctx := context.Background()
	apt := createScheduled(t, m)
	usage := domain.ProductUsage{ProductID: "prod-gel", Quantity: 3}

	_, err := m.Finalize(ctx, apt.ID, finalizeReq(usage))
	require.NoError(t, err)
	_, err = m.Finalize(ctx, apt.ID, finalizeReq(usage))
	require.NoError(t, err)

	assert.Equal(t, 7, productQty(t, st, "prod-gel"))
	txs, err := st.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestFinalize_ResaveUpsertsIncomeWithLatestCost(t *testing.T) {
	// GIVEN: A finalized facial appointment (150)
	// WHEN: Re-saving with the brow service added (600 total)
	// THEN: Still exactly one income transaction, carrying the new amount

	m, st := newTestManager(t)
	ctx := context.Background()
	apt := createScheduled(t, m)

	_, err := m.Finalize(ctx, apt.ID, finalizeReq())
	require.NoError(t, err)

	req := finalizeReq()
	req.ServiceIDs = []domain.ServiceID{"serv-facial", "serv-brows"}
	done, err := m.Finalize(ctx, apt.ID, req)
	require.NoError(t, err)
	assert.True(t, done.Cost.Equal(domain.NewMoney(600)))

	txs, err := st.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, cashbook.IncomeTransactionID(apt.ID), txs[0].ID)
	assert.True(t, txs[0].Amount.Equal(domain.NewMoney(600)))
}

// =============================================================================
// FINALIZE - VALIDATION ATOMICITY
// =============================================================================

func TestFinalize_RequiresProfessional(t *testing.T) {
	m, _ := newTestManager(t)
	apt := createScheduled(t, m)

	req := finalizeReq()
	req.ProfessionalID = ""
	_, err := m.Finalize(context.Background(), apt.ID, req)
	assert.ErrorIs(t, err, domain.ErrProfessionalRequired)

	req.ProfessionalID = "prof-ghost"
	_, err = m.Finalize(context.Background(), apt.ID, req)
	assert.ErrorIs(t, err, domain.ErrProfessionalRequired)
}

func TestFinalize_ValidationFailureLeavesNoTrace(t *testing.T) {
	// GIVEN: A scheduled appointment
	// WHEN: Finalizing with an invalid (zero) usage quantity
	// THEN: Nothing changes: no stock movement, no transaction, still scheduled

	m, st := newTestManager(t)
	ctx := context.Background()
	apt := createScheduled(t, m)

	_, err := m.Finalize(ctx, apt.ID, finalizeReq(
		domain.ProductUsage{ProductID: "prod-gel", Quantity: 3},
		domain.ProductUsage{ProductID: "prod-clay", Quantity: 0},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	assert.Equal(t, 10, productQty(t, st, "prod-gel"))
	txs, err := st.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)

	current, err := st.GetAppointment(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, current.Status)
}

func TestFinalize_UnknownProductRejectedUpFront(t *testing.T) {
	// GIVEN: A usage line naming a product that is not in the catalog
	// WHEN: Finalizing
	// THEN: Rejected before any write

	m, st := newTestManager(t)
	ctx := context.Background()
	apt := createScheduled(t, m)

	_, err := m.Finalize(ctx, apt.ID, finalizeReq(
		domain.ProductUsage{ProductID: "prod-gel", Quantity: 2},
		domain.ProductUsage{ProductID: "prod-ghost", Quantity: 1},
	))
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, 10, productQty(t, st, "prod-gel"))
}
