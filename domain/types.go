/*
Package domain defines the entities shared by every part of the studio engine.

PURPOSE:
  This package contains the data model for a clinic/salon management core:
  clients, services, professionals, products, appointments, financial
  transactions, payables and partners. Higher-level packages (scheduling,
  inventory, cashbook, reporting) operate on these types through the
  repository interfaces in store.go.

KEY CONCEPTS IN THIS FILE (types.go):
  - Appointment: the central record, with its scheduled/finished lifecycle
  - ProductUsage: per-product consumption recorded when an appointment
    is finalized
  - Snapshot fields: ClientName, Services, Duration and Cost are copied
    into the appointment at save time

DESIGN PRINCIPLES:
  1. Precision: Money wraps decimal.Decimal - no floating-point currency
  2. Type Safety: Strong typing for IDs prevents mixing entity kinds
  3. Historical fidelity: appointments store snapshots, not live
     references; renaming a client or re-pricing a service never alters
     past appointment records

SEE ALSO:
  - store.go: repository interfaces over these entities
  - errors.go: validation and not-found errors
  - scheduling: the appointment lifecycle state machine
*/
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATALOG ENTITIES
// =============================================================================

// Service is a bookable procedure. Appointments embed Service values as
// snapshots; editing the catalog never rewrites appointment history.
type Service struct {
	ID       ServiceID
	Name     string
	Duration int // minutes, >= 0
	Cost     Money
}

// Product is a consumable tracked by the inventory ledger.
// Quantity is never negative: every mutation path clamps at zero.
type Product struct {
	ID                ProductID
	Name              string
	Quantity          int
	LowStockThreshold int
	Cost              Money
}

// LowStock reports whether the product is at or below its threshold.
func (p Product) LowStock() bool { return p.Quantity <= p.LowStockThreshold }

type Professional struct {
	ID   ProfessionalID
	Name string
}

type Client struct {
	ID        ClientID
	Name      string
	Phone     string
	LastVisit time.Time
}

// =============================================================================
// APPOINTMENT - The central scheduling record
// =============================================================================

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusFinished  AppointmentStatus = "finished"
)

// ProductUsage records consumption of one product by one appointment.
// Within an appointment a product id appears at most once; repeated
// selections are merged additively before the record is written.
type ProductUsage struct {
	ProductID ProductID
	Quantity  int
}

// Appointment is created as scheduled with no used products, transitions
// to finished exactly once, and may be re-saved while finished (the
// finalize side effects then run against the previous finalized state).
//
// ClientName, Services, Duration and Cost are snapshots taken at save
// time. Duration and Cost always equal the sums over Services as of the
// last save; they are stored, not recomputed lazily.
type Appointment struct {
	ID             AppointmentID
	ClientID       ClientID
	ClientName     string
	Services       []Service
	Date           time.Time
	Duration       int
	Cost           Money
	Status         AppointmentStatus
	ProfessionalID ProfessionalID // set once finished, empty before
	UsedProducts   []ProductUsage // meaningful only when finished
}

// Finished reports whether the appointment has been finalized.
func (a Appointment) Finished() bool { return a.Status == StatusFinished }

// =============================================================================
// FINANCIAL ENTITIES
// =============================================================================

type TransactionType string

const (
	TxIncome  TransactionType = "income"
	TxExpense TransactionType = "expense"
)

// Transaction is a cash-book entry. The income transaction owned by an
// appointment has a deterministic id derived from the appointment id, so
// re-finalizing replaces rather than duplicates it.
type Transaction struct {
	ID          TransactionID
	Type        TransactionType
	Description string
	Amount      Money
	Date        time.Time
}

// Payable is an expense to be paid, independent of appointments.
// Marking it paid records exactly one expense transaction.
type Payable struct {
	ID          PayableID
	Description string
	Amount      Money
	DueDate     time.Time
	IsPaid      bool
}

// Partner participates in profit distribution. The set-wide invariant
// (percentages sum to 100) is enforced at save time, not continuously.
type Partner struct {
	ID         PartnerID
	Name       string
	Percentage decimal.Decimal
}
