package domain

import "github.com/google/uuid"

// =============================================================================
// IDENTIFIERS
// =============================================================================
// Typed string IDs keep entity kinds from being mixed up at compile time.
// Identifiers are opaque; the prefix only aids debugging.

type ClientID string
type ServiceID string
type ProductID string
type ProfessionalID string
type AppointmentID string
type TransactionID string
type PayableID string
type PartnerID string

// NewID returns a fresh unique identifier with a kind prefix, e.g.
// "apt-5f0c...". Backed by a UUID; rapid successive creation is safe.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func NewClientID() ClientID             { return ClientID(NewID("cli")) }
func NewServiceID() ServiceID           { return ServiceID(NewID("serv")) }
func NewProductID() ProductID           { return ProductID(NewID("prod")) }
func NewProfessionalID() ProfessionalID { return ProfessionalID(NewID("prof")) }
func NewAppointmentID() AppointmentID   { return AppointmentID(NewID("apt")) }
func NewTransactionID() TransactionID   { return TransactionID(NewID("trn")) }
func NewPayableID() PayableID           { return PayableID(NewID("pay")) }
func NewPartnerID() PartnerID           { return PartnerID(NewID("part")) }
