/*
Package session wires the engine together over one store.

PURPOSE:
  A Session owns a domain.TxStore and exposes every subsystem built on
  it: the scheduler, the inventory ledger, the cash book, payables,
  partners and the reporters. It also carries the simple catalog and
  client registry operations that need no subsystem of their own.

  This is the single entry point an embedding application uses; nothing
  below it is aware of the others' existence beyond the store.

USAGE:
  st := store.NewMemory()          // or sqlite.New(path)
  s := session.New(st)

  svc, err := s.AddService(ctx, "Facial Cleansing", 60, domain.NewMoney(150))
  apt, err := s.Scheduler.Create(ctx, scheduling.CreateRequest{...})
  apt, err = s.Scheduler.Finalize(ctx, apt.ID, scheduling.FinalizeRequest{...})
  sum, err := s.Cash.Summary(ctx, time.Now())

SEE ALSO:
  - scheduling: the appointment lifecycle
  - cashbook, inventory, reporting: the subsystems exposed here
*/
package session

import (
	"context"
	"strings"
	"time"

	"github.com/atelier/studio-engine/cashbook"
	"github.com/atelier/studio-engine/domain"
	"github.com/atelier/studio-engine/inventory"
	"github.com/atelier/studio-engine/reporting"
	"github.com/atelier/studio-engine/scheduling"
)

// Session is the assembled engine. Subsystems share the one store, so
// anything written through one is visible to the rest.
type Session struct {
	store domain.TxStore

	Scheduler *scheduling.Manager
	Inventory *inventory.Ledger
	Cash      *cashbook.Ledger
	Payables  *cashbook.Payables
	Partners  *cashbook.Partners
	Reports   *reporting.Reporter
}

// New assembles a session over the given store.
func New(st domain.TxStore) *Session {
	cash := cashbook.NewLedger(st)
	return &Session{
		store:     st,
		Scheduler: scheduling.NewManager(st),
		Inventory: inventory.NewLedger(st),
		Cash:      cash,
		Payables:  cashbook.NewPayables(st, cash),
		Partners:  cashbook.NewPartners(st, cash),
		Reports:   reporting.NewReporter(st),
	}
}

// Store exposes the underlying store, mainly for seeding.
func (s *Session) Store() domain.TxStore { return s.store }

// =============================================================================
// SERVICE CATALOG
// =============================================================================

// AddService registers a bookable procedure.
func (s *Session) AddService(ctx context.Context, name string, duration int, cost domain.Money) (domain.Service, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Service{}, domain.ErrEmptyName
	}
	svc := domain.Service{
		ID:       domain.NewServiceID(),
		Name:     name,
		Duration: duration,
		Cost:     cost,
	}
	if err := s.store.PutService(ctx, svc); err != nil {
		return domain.Service{}, err
	}
	return svc, nil
}

// UpdateService rewrites a catalog entry. Appointment snapshots taken
// before the update are untouched.
func (s *Session) UpdateService(ctx context.Context, svc domain.Service) error {
	if strings.TrimSpace(svc.Name) == "" {
		return domain.ErrEmptyName
	}
	if _, err := s.store.GetService(ctx, svc.ID); err != nil {
		return err
	}
	return s.store.PutService(ctx, svc)
}

func (s *Session) RemoveService(ctx context.Context, id domain.ServiceID) error {
	return s.store.DeleteService(ctx, id)
}

func (s *Session) Services(ctx context.Context) ([]domain.Service, error) {
	return s.store.ListServices(ctx)
}

// =============================================================================
// PRODUCT CATALOG
// =============================================================================

// AddProduct registers a consumable with its opening stock.
func (s *Session) AddProduct(ctx context.Context, name string, quantity, lowStockThreshold int, cost domain.Money) (domain.Product, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Product{}, domain.ErrEmptyName
	}
	if quantity < 0 || lowStockThreshold < 0 {
		return domain.Product{}, domain.ErrInvalidQuantity
	}
	p := domain.Product{
		ID:                domain.NewProductID(),
		Name:              name,
		Quantity:          quantity,
		LowStockThreshold: lowStockThreshold,
		Cost:              cost,
	}
	if err := s.store.PutProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// UpdateProduct rewrites name, threshold and cost. Stock moves through
// Inventory.Adjust, not here; the stored quantity is preserved.
func (s *Session) UpdateProduct(ctx context.Context, p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.ErrEmptyName
	}
	current, err := s.store.GetProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Quantity = current.Quantity
	return s.store.PutProduct(ctx, p)
}

func (s *Session) RemoveProduct(ctx context.Context, id domain.ProductID) error {
	return s.store.DeleteProduct(ctx, id)
}

func (s *Session) Products(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

// =============================================================================
// PROFESSIONALS
// =============================================================================

func (s *Session) AddProfessional(ctx context.Context, name string) (domain.Professional, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Professional{}, domain.ErrEmptyName
	}
	p := domain.Professional{ID: domain.NewProfessionalID(), Name: name}
	if err := s.store.PutProfessional(ctx, p); err != nil {
		return domain.Professional{}, err
	}
	return p, nil
}

func (s *Session) RemoveProfessional(ctx context.Context, id domain.ProfessionalID) error {
	return s.store.DeleteProfessional(ctx, id)
}

func (s *Session) Professionals(ctx context.Context) ([]domain.Professional, error) {
	return s.store.ListProfessionals(ctx)
}

// =============================================================================
// CLIENTS
// =============================================================================

func (s *Session) AddClient(ctx context.Context, name, phone string) (domain.Client, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Client{}, domain.ErrEmptyName
	}
	c := domain.Client{ID: domain.NewClientID(), Name: name, Phone: phone}
	if err := s.store.PutClient(ctx, c); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (s *Session) UpdateClient(ctx context.Context, c domain.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return domain.ErrEmptyName
	}
	if _, err := s.store.GetClient(ctx, c.ID); err != nil {
		return err
	}
	return s.store.PutClient(ctx, c)
}

func (s *Session) RemoveClient(ctx context.Context, id domain.ClientID) error {
	return s.store.DeleteClient(ctx, id)
}

func (s *Session) Clients(ctx context.Context) ([]domain.Client, error) {
	return s.store.ListClients(ctx)
}

// TouchClientVisit records that the client was seen at the given time.
// Finalize refreshes LastVisit on its own; this is for manual
// corrections.
func (s *Session) TouchClientVisit(ctx context.Context, id domain.ClientID, at time.Time) error {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return err
	}
	c.LastVisit = at
	return s.store.PutClient(ctx, c)
}
