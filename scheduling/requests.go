package scheduling

import (
	"time"

	"github.com/atelier/studio-engine/domain"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================
// Create, edit and finalize are three distinct operations with three
// distinct request types, each carrying its own validation contract.
// Services are referenced by id; the manager snapshots them from the
// catalog at save time and recomputes duration and cost from the
// snapshots rather than trusting caller-supplied sums.

// CreateRequest books a new appointment in the scheduled state.
type CreateRequest struct {
	ClientID   domain.ClientID
	ServiceIDs []domain.ServiceID
	Date       time.Time
}

// EditRequest updates a scheduled appointment in place. It carries no
// professional and no product usage: those belong to finalization.
type EditRequest struct {
	ClientID   domain.ClientID
	ServiceIDs []domain.ServiceID
	Date       time.Time
}

// FinalizeRequest completes an appointment, or re-saves an already
// finished one. UsedProducts may repeat a product id; quantities for
// repeated selections are merged additively before the record is written.
type FinalizeRequest struct {
	ClientID       domain.ClientID
	ServiceIDs     []domain.ServiceID
	Date           time.Time
	ProfessionalID domain.ProfessionalID
	UsedProducts   []domain.ProductUsage
}
