/*
store.go - Repository interfaces over the domain entities

PURPOSE:
  Defines the interface between the domain logic and persistence. Every
  core operation runs against these interfaces, never against ambient
  collections, so the managers are unit-testable without a UI harness
  and the same logic runs over memory or SQLite.

ORDERING CONTRACT:
  ListX methods return entities in insertion order. Reports rely on this
  for their first-encountered tie-break rule.

TRANSACTIONS:
  TxStore.WithTx runs a function against a transactional view. If the
  function returns an error, every write inside it is rolled back. The
  appointment finalize transition uses this: inventory adjustment,
  ledger upsert and appointment write happen together or not at all.

IMPLEMENTATIONS:
  - store: in-memory, snapshot/rollback transactions (tests, demos)
  - store/sqlite: SQLite-backed, BEGIN/COMMIT transactions

SEE ALSO:
  - scheduling: the only WithTx caller in the core
*/
package domain

import "context"

// =============================================================================
// PER-ENTITY REPOSITORIES
// =============================================================================

type ClientStore interface {
	GetClient(ctx context.Context, id ClientID) (Client, error)
	PutClient(ctx context.Context, c Client) error
	ListClients(ctx context.Context) ([]Client, error)
	DeleteClient(ctx context.Context, id ClientID) error
}

type ServiceStore interface {
	GetService(ctx context.Context, id ServiceID) (Service, error)
	PutService(ctx context.Context, s Service) error
	ListServices(ctx context.Context) ([]Service, error)
	DeleteService(ctx context.Context, id ServiceID) error
}

type ProductStore interface {
	GetProduct(ctx context.Context, id ProductID) (Product, error)
	PutProduct(ctx context.Context, p Product) error
	ListProducts(ctx context.Context) ([]Product, error)
	DeleteProduct(ctx context.Context, id ProductID) error
}

type ProfessionalStore interface {
	GetProfessional(ctx context.Context, id ProfessionalID) (Professional, error)
	PutProfessional(ctx context.Context, p Professional) error
	ListProfessionals(ctx context.Context) ([]Professional, error)
	DeleteProfessional(ctx context.Context, id ProfessionalID) error
}

type AppointmentStore interface {
	GetAppointment(ctx context.Context, id AppointmentID) (Appointment, error)
	PutAppointment(ctx context.Context, a Appointment) error
	ListAppointments(ctx context.Context) ([]Appointment, error)
	DeleteAppointment(ctx context.Context, id AppointmentID) error
}

// TransactionStore persists cash-book entries. There is no update:
// the income upsert is modeled as remove-then-append, which keeps at
// most one transaction per deterministic id.
type TransactionStore interface {
	AppendTransaction(ctx context.Context, tx Transaction) error

	// RemoveTransaction deletes by id. Removing an absent id is a no-op.
	RemoveTransaction(ctx context.Context, id TransactionID) error

	ListTransactions(ctx context.Context) ([]Transaction, error)
}

type PayableStore interface {
	GetPayable(ctx context.Context, id PayableID) (Payable, error)
	PutPayable(ctx context.Context, p Payable) error
	ListPayables(ctx context.Context) ([]Payable, error)
	DeletePayable(ctx context.Context, id PayableID) error
}

// PartnerStore replaces the partner set wholesale; the percentage-sum
// invariant is checked by the cashbook before the replace.
type PartnerStore interface {
	ListPartners(ctx context.Context) ([]Partner, error)
	ReplacePartners(ctx context.Context, partners []Partner) error
}

// =============================================================================
// COMBINED STORE
// =============================================================================

// Store aggregates every repository. One session owns one Store.
type Store interface {
	ClientStore
	ServiceStore
	ProductStore
	ProfessionalStore
	AppointmentStore
	TransactionStore
	PayableStore
	PartnerStore
}

// TxStore adds atomic multi-write support.
type TxStore interface {
	Store

	// WithTx executes fn against a transactional view of the store.
	// If fn returns an error the transaction is rolled back and the
	// error is returned; otherwise it is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
