/*
Package scheduling governs the appointment lifecycle.

PURPOSE:
  An appointment is created as scheduled, may be edited in place while
  scheduled, and is completed by Finalize - the critical transition.
  Finalize runs whether the appointment is entering the finished state
  for the first time or a finished record is being re-saved; in both
  cases it reconciles inventory against the PREVIOUS finalized state
  and refreshes the appointment's single income transaction.

FINALIZE SEQUENCE:
  1. Validate everything - nothing is mutated on failure
  2. Read the old usage from the pre-mutation appointment record
  3. Merge the requested usage (duplicate products sum up)
  4. Net the two into a single usage diff
  5. Apply the diff to stock (floor at zero)
  6. Upsert the income transaction (one per appointment, ever)
  7. Write the finished appointment record

  Steps 2-4 MUST read the appointment before step 7 overwrites it,
  otherwise the diff degenerates to zero and reconciliation is lost.
  Steps 5-7 run inside one store transaction, all-or-nothing.

CONCURRENCY:
  The manager's mutex makes each transition a critical section. A
  second finalize racing between the usage read and the record write
  would diff against stale state and corrupt stock counts.

SEE ALSO:
  - diff.go: MergeUsage and UsageDiff
  - inventory: the ledger the diff is applied to
  - cashbook: the income upsert
*/
package scheduling

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atelier/studio-engine/cashbook"
	"github.com/atelier/studio-engine/domain"
	"github.com/atelier/studio-engine/inventory"
)

// =============================================================================
// MANAGER
// =============================================================================

type Manager struct {
	store domain.TxStore
	mu    sync.Mutex

	// Now is the clock used for transaction dates. Overridable in tests.
	Now func() time.Time
}

func NewManager(store domain.TxStore) *Manager {
	return &Manager{store: store, Now: time.Now}
}

// snapshot resolves the client and service references of a request and
// returns the values to be copied onto the appointment record, with
// duration and cost recomputed from the service snapshots.
func (m *Manager) snapshot(ctx context.Context, clientID domain.ClientID, serviceIDs []domain.ServiceID) (domain.Client, []domain.Service, int, domain.Money, error) {
	if clientID == "" {
		return domain.Client{}, nil, 0, domain.Money{}, domain.ErrClientRequired
	}
	client, err := m.store.GetClient(ctx, clientID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Client{}, nil, 0, domain.Money{}, fmt.Errorf("%w: %v", domain.ErrClientRequired, err)
		}
		return domain.Client{}, nil, 0, domain.Money{}, err
	}

	if len(serviceIDs) == 0 {
		return domain.Client{}, nil, 0, domain.Money{}, domain.ErrNoServices
	}
	services := make([]domain.Service, 0, len(serviceIDs))
	duration := 0
	cost := domain.Money{}
	for _, id := range serviceIDs {
		svc, err := m.store.GetService(ctx, id)
		if err != nil {
			return domain.Client{}, nil, 0, domain.Money{}, err
		}
		services = append(services, svc)
		duration += svc.Duration
		cost = cost.Add(svc.Cost)
	}
	return client, services, duration, cost, nil
}

// Create books a new appointment in the scheduled state with no used
// products. No ledger or inventory side effects.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	client, services, duration, cost, err := m.snapshot(ctx, req.ClientID, req.ServiceIDs)
	if err != nil {
		return domain.Appointment{}, err
	}

	apt := domain.Appointment{
		ID:         domain.NewAppointmentID(),
		ClientID:   client.ID,
		ClientName: client.Name,
		Services:   services,
		Date:       req.Date,
		Duration:   duration,
		Cost:       cost,
		Status:     domain.StatusScheduled,
	}
	if err := m.store.PutAppointment(ctx, apt); err != nil {
		return domain.Appointment{}, err
	}
	return apt, nil
}

// Edit updates a scheduled appointment in place. Finished appointments
// are re-saved through Finalize, never through Edit, because a finished
// record carries ledger and inventory obligations.
func (m *Manager) Edit(ctx context.Context, id domain.AppointmentID, req EditRequest) (domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	apt, err := m.store.GetAppointment(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if apt.Finished() {
		return domain.Appointment{}, domain.ErrAppointmentFinished
	}

	client, services, duration, cost, err := m.snapshot(ctx, req.ClientID, req.ServiceIDs)
	if err != nil {
		return domain.Appointment{}, err
	}

	apt.ClientID = client.ID
	apt.ClientName = client.Name
	apt.Services = services
	apt.Date = req.Date
	apt.Duration = duration
	apt.Cost = cost

	if err := m.store.PutAppointment(ctx, apt); err != nil {
		return domain.Appointment{}, err
	}
	return apt, nil
}

// Finalize completes an appointment, or re-saves a finished one. The
// inventory diff is computed against the appointment's previous
// finalized usage (empty on first finalization), and the appointment's
// income transaction is upserted with the recomputed cost. All writes
// happen in one store transaction; any validation failure aborts with
// no state change at all.
func (m *Manager) Finalize(ctx context.Context, id domain.AppointmentID, req FinalizeRequest) (domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	apt, err := m.store.GetAppointment(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}

	client, services, duration, cost, err := m.snapshot(ctx, req.ClientID, req.ServiceIDs)
	if err != nil {
		return domain.Appointment{}, err
	}

	if req.ProfessionalID == "" {
		return domain.Appointment{}, domain.ErrProfessionalRequired
	}
	professional, err := m.store.GetProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Appointment{}, fmt.Errorf("%w: %v", domain.ErrProfessionalRequired, err)
		}
		return domain.Appointment{}, err
	}

	for _, u := range req.UsedProducts {
		if u.Quantity <= 0 {
			return domain.Appointment{}, fmt.Errorf("%w: product %s", domain.ErrInvalidQuantity, u.ProductID)
		}
		if _, err := m.store.GetProduct(ctx, u.ProductID); err != nil {
			return domain.Appointment{}, err
		}
	}

	// Old usage must be read before the record is overwritten below.
	oldUsage := apt.UsedProducts
	newUsage := MergeUsage(req.UsedProducts)
	diff := UsageDiff(oldUsage, newUsage)

	names := make([]string, len(services))
	for i, svc := range services {
		names[i] = svc.Name
	}
	description := fmt.Sprintf("Services: %s (%s) by %s",
		strings.Join(names, ", "), client.Name, professional.Name)

	apt.ClientID = client.ID
	apt.ClientName = client.Name
	apt.Services = services
	apt.Date = req.Date
	apt.Duration = duration
	apt.Cost = cost
	apt.Status = domain.StatusFinished
	apt.ProfessionalID = professional.ID
	apt.UsedProducts = newUsage

	err = m.store.WithTx(ctx, func(tx domain.Store) error {
		if err := inventory.NewLedger(tx).ApplyUsageDiff(ctx, diff); err != nil {
			return err
		}
		ledger := cashbook.NewLedger(tx)
		if err := ledger.RecordIncome(ctx, cashbook.IncomeTransactionID(apt.ID), description, cost, m.Now()); err != nil {
			return err
		}
		client.LastVisit = apt.Date
		if err := tx.PutClient(ctx, client); err != nil {
			return err
		}
		return tx.PutAppointment(ctx, apt)
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return apt, nil
}
