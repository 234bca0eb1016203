/*
Package reporting derives read-only summaries from finished appointments.

PURPOSE:
  Pure read-side projections: nothing here writes state. Reports cover
  a calendar-local window (today, this week, this month - weeks start
  on Sunday) and only appointments with status finished.

TIE-BREAKS:
  "Top used" and "top service" ties resolve to the first-encountered
  entry in insertion order. Sorting is stable for the same reason.

SEE ALSO:
  - domain/calendar.go: the window predicates
*/
package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/atelier/studio-engine/domain"
	"github.com/shopspring/decimal"
)

func decimalFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// =============================================================================
// WINDOWS
// =============================================================================

// Window selects a calendar-local reporting period relative to a
// reference time. These are calendar windows, not rolling 24h/7d/30d.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// Contains reports whether t falls in the window around now.
func (w Window) Contains(now, t time.Time) bool {
	switch w {
	case WindowDay:
		return domain.SameDay(t, now)
	case WindowWeek:
		return domain.SameWeek(t, now)
	case WindowMonth:
		return domain.SameMonth(t, now)
	default:
		return false
	}
}

// =============================================================================
// REPORTER
// =============================================================================

type Reporter struct {
	store domain.Store
}

func NewReporter(store domain.Store) *Reporter {
	return &Reporter{store: store}
}

// finished returns the finished appointments inside the window, in
// insertion order.
func (r *Reporter) finished(ctx context.Context, w Window, now time.Time) ([]domain.Appointment, error) {
	all, err := r.store.ListAppointments(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Appointment
	for _, apt := range all {
		if apt.Finished() && w.Contains(now, apt.Date) {
			out = append(out, apt)
		}
	}
	return out, nil
}

// =============================================================================
// PRODUCT USAGE REPORT
// =============================================================================

type ProductUsageItem struct {
	Product   domain.Product
	Quantity  int          // summed usage across matching appointments
	TotalCost domain.Money // quantity x product cost
}

type ProductUsageReport struct {
	Items      []ProductUsageItem // sorted by quantity, descending
	TotalItems int
	TotalValue domain.Money
	TopProduct string // name of the most used product, "" when empty
}

// ProductUsage groups product consumption across the window's finished
// appointments. Products no longer in the catalog are skipped.
func (r *Reporter) ProductUsage(ctx context.Context, w Window, now time.Time) (ProductUsageReport, error) {
	appointments, err := r.finished(ctx, w, now)
	if err != nil {
		return ProductUsageReport{}, err
	}

	index := make(map[domain.ProductID]int)
	var items []ProductUsageItem
	for _, apt := range appointments {
		for _, used := range apt.UsedProducts {
			i, ok := index[used.ProductID]
			if !ok {
				product, err := r.store.GetProduct(ctx, used.ProductID)
				if err != nil {
					if domain.IsNotFound(err) {
						continue
					}
					return ProductUsageReport{}, err
				}
				i = len(items)
				index[used.ProductID] = i
				items = append(items, ProductUsageItem{Product: product})
			}
			items[i].Quantity += used.Quantity
			cost := items[i].Product.Cost.Mul(decimalFromInt(used.Quantity))
			items[i].TotalCost = items[i].TotalCost.Add(cost)
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Quantity > items[j].Quantity })

	report := ProductUsageReport{Items: items}
	for _, item := range items {
		report.TotalItems += item.Quantity
		report.TotalValue = report.TotalValue.Add(item.TotalCost)
	}
	if len(items) > 0 {
		report.TopProduct = items[0].Product.Name
	}
	return report, nil
}

// =============================================================================
// PROFESSIONAL PERFORMANCE REPORT
// =============================================================================

type ProfessionalStats struct {
	ID               domain.ProfessionalID
	Name             string
	AppointmentCount int
	Revenue          domain.Money
	TopService       string // most frequent service, "" when none
}

type ProfessionalReport struct {
	TotalRevenue      domain.Money
	TotalAppointments int
	Professionals     []ProfessionalStats // sorted by revenue, descending
}

// ProfessionalPerformance summarizes each professional's finished
// appointments in the window: count, revenue and most frequent service.
// Service names come from the appointment snapshots, so history stays
// accurate even after catalog edits.
func (r *Reporter) ProfessionalPerformance(ctx context.Context, w Window, now time.Time) (ProfessionalReport, error) {
	appointments, err := r.finished(ctx, w, now)
	if err != nil {
		return ProfessionalReport{}, err
	}
	professionals, err := r.store.ListProfessionals(ctx)
	if err != nil {
		return ProfessionalReport{}, err
	}

	report := ProfessionalReport{TotalAppointments: len(appointments)}
	for _, apt := range appointments {
		report.TotalRevenue = report.TotalRevenue.Add(apt.Cost)
	}

	for _, prof := range professionals {
		stats := ProfessionalStats{ID: prof.ID, Name: prof.Name}

		counts := make(map[domain.ServiceID]int)
		var order []domain.Service // first-encounter order for the tie-break
		for _, apt := range appointments {
			if apt.ProfessionalID != prof.ID {
				continue
			}
			stats.AppointmentCount++
			stats.Revenue = stats.Revenue.Add(apt.Cost)
			for _, svc := range apt.Services {
				if _, seen := counts[svc.ID]; !seen {
					order = append(order, svc)
				}
				counts[svc.ID]++
			}
		}

		max := 0
		for _, svc := range order {
			if counts[svc.ID] > max {
				max = counts[svc.ID]
				stats.TopService = svc.Name
			}
		}

		report.Professionals = append(report.Professionals, stats)
	}

	sort.SliceStable(report.Professionals, func(i, j int) bool {
		return report.Professionals[i].Revenue.GreaterThan(report.Professionals[j].Revenue)
	})
	return report, nil
}
