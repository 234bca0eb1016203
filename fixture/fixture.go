/*
Package fixture loads seed data into a store from JSON.

PURPOSE:
  Converts JSON seed definitions into domain entities and writes them
  through the repository interfaces. This enables demo environments and
  test setups without code changes - a seed file describes the whole
  catalog, the agenda and the books.

JSON SCHEMA:
  {
    "clients":       [{"id", "name", "phone", "lastVisit"}],
    "services":      [{"id", "name", "duration", "cost"}],
    "professionals": [{"id", "name"}],
    "products":      [{"id", "name", "quantity", "lowStockThreshold", "cost"}],
    "appointments":  [{"id", "clientId", "serviceIds", "date"}],
    "transactions":  [{"id", "type", "description", "amount", "date"}],
    "payables":      [{"id", "description", "amount", "dueDate", "isPaid"}],
    "partners":      [{"id", "name", "percentage"}]
  }

  Amounts may be JSON numbers or decimal strings. Dates are RFC 3339.
  Seed appointments reference services by id; client name, duration and
  cost snapshots are derived at load time, the same way the scheduler
  derives them.

USAGE:
  seed, err := fixture.Parse(data)
  err = fixture.Load(ctx, st, seed)

  // or the canned demo set
  err = fixture.Load(ctx, st, fixture.Demo(time.Now()))

SEE ALSO:
  - domain/store.go: the repositories written to
  - scheduling: derives the same appointment snapshots at runtime
*/
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atelier/studio-engine/domain"
)

// =============================================================================
// SEED SCHEMA
// =============================================================================

// Seed is the parsed, still-unresolved form of a seed file.
type Seed struct {
	Clients       []ClientSeed       `json:"clients,omitempty"`
	Services      []ServiceSeed      `json:"services,omitempty"`
	Professionals []ProfessionalSeed `json:"professionals,omitempty"`
	Products      []ProductSeed      `json:"products,omitempty"`
	Appointments  []AppointmentSeed  `json:"appointments,omitempty"`
	Transactions  []TransactionSeed  `json:"transactions,omitempty"`
	Payables      []PayableSeed      `json:"payables,omitempty"`
	Partners      []PartnerSeed      `json:"partners,omitempty"`
}

type ClientSeed struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	LastVisit time.Time `json:"lastVisit,omitempty"`
}

type ServiceSeed struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Duration int          `json:"duration"`
	Cost     domain.Money `json:"cost"`
}

type ProfessionalSeed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductSeed struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Quantity          int          `json:"quantity"`
	LowStockThreshold int          `json:"lowStockThreshold"`
	Cost              domain.Money `json:"cost"`
}

// AppointmentSeed references services by id; snapshots are derived when
// the seed is loaded. Seeded appointments are always scheduled.
type AppointmentSeed struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"clientId"`
	ServiceIDs []string  `json:"serviceIds"`
	Date       time.Time `json:"date"`
}

type TransactionSeed struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	Amount      domain.Money `json:"amount"`
	Date        time.Time    `json:"date"`
}

type PayableSeed struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Amount      domain.Money `json:"amount"`
	DueDate     time.Time    `json:"dueDate"`
	IsPaid      bool         `json:"isPaid,omitempty"`
}

type PartnerSeed struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Parse decodes a JSON seed document.
func Parse(data []byte) (Seed, error) {
	var s Seed
	if err := json.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return s, nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load writes the seed into the store as one atomic transition. Seed
// order becomes insertion order, so listings and report tie-breaks
// follow the seed file.
func Load(ctx context.Context, st domain.TxStore, seed Seed) error {
	return st.WithTx(ctx, func(tx domain.Store) error {
		for _, c := range seed.Clients {
			err := tx.PutClient(ctx, domain.Client{
				ID:        domain.ClientID(c.ID),
				Name:      c.Name,
				Phone:     c.Phone,
				LastVisit: c.LastVisit,
			})
			if err != nil {
				return err
			}
		}

		services := make(map[domain.ServiceID]domain.Service, len(seed.Services))
		for _, s := range seed.Services {
			svc := domain.Service{
				ID:       domain.ServiceID(s.ID),
				Name:     s.Name,
				Duration: s.Duration,
				Cost:     s.Cost,
			}
			services[svc.ID] = svc
			if err := tx.PutService(ctx, svc); err != nil {
				return err
			}
		}

		for _, p := range seed.Professionals {
			err := tx.PutProfessional(ctx, domain.Professional{
				ID:   domain.ProfessionalID(p.ID),
				Name: p.Name,
			})
			if err != nil {
				return err
			}
		}

		for _, p := range seed.Products {
			err := tx.PutProduct(ctx, domain.Product{
				ID:                domain.ProductID(p.ID),
				Name:              p.Name,
				Quantity:          p.Quantity,
				LowStockThreshold: p.LowStockThreshold,
				Cost:              p.Cost,
			})
			if err != nil {
				return err
			}
		}

		for _, a := range seed.Appointments {
			apt, err := resolveAppointment(ctx, tx, services, a)
			if err != nil {
				return err
			}
			if err := tx.PutAppointment(ctx, apt); err != nil {
				return err
			}
		}

		for _, t := range seed.Transactions {
			err := tx.AppendTransaction(ctx, domain.Transaction{
				ID:          domain.TransactionID(t.ID),
				Type:        domain.TransactionType(t.Type),
				Description: t.Description,
				Amount:      t.Amount,
				Date:        t.Date,
			})
			if err != nil {
				return err
			}
		}

		for _, p := range seed.Payables {
			err := tx.PutPayable(ctx, domain.Payable{
				ID:          domain.PayableID(p.ID),
				Description: p.Description,
				Amount:      p.Amount,
				DueDate:     p.DueDate,
				IsPaid:      p.IsPaid,
			})
			if err != nil {
				return err
			}
		}

		if len(seed.Partners) > 0 {
			partners := make([]domain.Partner, 0, len(seed.Partners))
			for _, p := range seed.Partners {
				partners = append(partners, domain.Partner{
					ID:         domain.PartnerID(p.ID),
					Name:       p.Name,
					Percentage: p.Percentage,
				})
			}
			if err := tx.ReplacePartners(ctx, partners); err != nil {
				return err
			}
		}
		return nil
	})
}

// resolveAppointment turns service id references into the snapshot the
// appointment record carries.
func resolveAppointment(ctx context.Context, tx domain.Store, services map[domain.ServiceID]domain.Service, a AppointmentSeed) (domain.Appointment, error) {
	client, err := tx.GetClient(ctx, domain.ClientID(a.ClientID))
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("seed appointment %s: %w", a.ID, err)
	}

	var (
		snapshot = make([]domain.Service, 0, len(a.ServiceIDs))
		duration int
		cost     domain.Money
	)
	for _, id := range a.ServiceIDs {
		svc, ok := services[domain.ServiceID(id)]
		if !ok {
			return domain.Appointment{}, fmt.Errorf("seed appointment %s: %w",
				a.ID, &domain.NotFoundError{Kind: "service", ID: id})
		}
		snapshot = append(snapshot, svc)
		duration += svc.Duration
		cost = cost.Add(svc.Cost)
	}

	return domain.Appointment{
		ID:         domain.AppointmentID(a.ID),
		ClientID:   client.ID,
		ClientName: client.Name,
		Services:   snapshot,
		Date:       a.Date,
		Duration:   duration,
		Cost:       cost,
		Status:     domain.StatusScheduled,
	}, nil
}

// =============================================================================
// DEMO SEED
// =============================================================================

// Demo returns a small canned seed anchored to now: a catalog, a few
// clients, an agenda spanning the past week through the next, and both
// sides of the cash book. Useful for demos and for exercising reports.
func Demo(now time.Time) Seed {
	day := func(offset, hour int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location()).
			AddDate(0, 0, offset)
	}

	return Seed{
		Clients: []ClientSeed{
			{ID: "cli-ana", Name: "Ana Silva", Phone: "11 98765-4321", LastVisit: day(-40, 0)},
			{ID: "cli-bruno", Name: "Bruno Gomes", Phone: "21 91234-5678", LastVisit: day(-8, 0)},
			{ID: "cli-carla", Name: "Carla Dias", Phone: "31 99999-8888", LastVisit: day(-1, 0)},
		},
		Services: []ServiceSeed{
			{ID: "srv-brows", Name: "Brow Micropigmentation", Duration: 120, Cost: domain.NewMoney(450)},
			{ID: "srv-liner", Name: "Permanent Eyeliner", Duration: 90, Cost: domain.NewMoney(400)},
			{ID: "srv-lips", Name: "Lip Micropigmentation", Duration: 150, Cost: domain.NewMoney(550)},
			{ID: "srv-facial", Name: "Facial Cleansing", Duration: 60, Cost: domain.NewMoney(150)},
			{ID: "srv-wart", Name: "Wart Treatment", Duration: 30, Cost: domain.NewMoney(100)},
		},
		Professionals: []ProfessionalSeed{
			{ID: "pro-junior", Name: "Junior Pimenta"},
			{ID: "pro-vinicius", Name: "Vinicius Teixeira"},
		},
		Products: []ProductSeed{
			{ID: "prd-cream", Name: "Facial Moisturizer", Quantity: 15, LowStockThreshold: 10, Cost: domain.NewMoney(25.50)},
			{ID: "prd-oil", Name: "Lavender Essential Oil", Quantity: 8, LowStockThreshold: 5, Cost: domain.NewMoney(40)},
			{ID: "prd-spf", Name: "Sunscreen SPF 50", Quantity: 20, LowStockThreshold: 15, Cost: domain.NewMoney(55)},
			{ID: "prd-clay", Name: "Green Clay Mask", Quantity: 4, LowStockThreshold: 5, Cost: domain.NewMoney(15.75)},
		},
		Appointments: []AppointmentSeed{
			{ID: "apt-1", ClientID: "cli-carla", ServiceIDs: []string{"srv-facial"}, Date: day(-1, 14)},
			{ID: "apt-2", ClientID: "cli-bruno", ServiceIDs: []string{"srv-liner"}, Date: day(-8, 16)},
			{ID: "apt-3", ClientID: "cli-ana", ServiceIDs: []string{"srv-lips", "srv-wart"}, Date: day(1, 10)},
			{ID: "apt-4", ClientID: "cli-bruno", ServiceIDs: []string{"srv-brows"}, Date: day(5, 11)},
		},
		Transactions: []TransactionSeed{
			{ID: "trn-1", Type: string(domain.TxIncome), Description: "Service: Facial Cleansing (Carla Dias)", Amount: domain.NewMoney(150), Date: day(-1, 0)},
			{ID: "trn-2", Type: string(domain.TxIncome), Description: "Service: Massage (Bruno Gomes)", Amount: domain.NewMoney(120), Date: day(-8, 0)},
			{ID: "trn-3", Type: string(domain.TxExpense), Description: "Supply purchase", Amount: domain.NewMoney(300), Date: day(-10, 0)},
		},
		Payables: []PayableSeed{
			{ID: "pay-rent", Description: "Studio rent", Amount: domain.NewMoney(1500), DueDate: day(5, 0)},
			{ID: "pay-saas", Description: "Management software", Amount: domain.NewMoney(80), DueDate: day(10, 0)},
			{ID: "pay-supplier", Description: "Cosmetics supplier", Amount: domain.NewMoney(450), DueDate: day(-2, 0), IsPaid: true},
		},
		Partners: []PartnerSeed{
			{ID: "prt-house", Name: "House", Percentage: decimal.NewFromInt(60)},
			{ID: "prt-vinicius", Name: "Vinicius Teixeira", Percentage: decimal.NewFromInt(20)},
			{ID: "prt-junior", Name: "Junior Pimenta", Percentage: decimal.NewFromInt(20)},
		},
	}
}
