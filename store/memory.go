// Package store provides the in-memory TxStore implementation.
//
// The memory store backs tests, demos and single-session use. Entities
// live in insertion-ordered slices behind one RWMutex; WithTx runs the
// function against a private clone and swaps the state in on success,
// so a failed transaction leaves nothing behind.
package store

import (
	"context"
	"sync"

	"github.com/atelier/studio-engine/domain"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	clients       []domain.Client
	services      []domain.Service
	products      []domain.Product
	professionals []domain.Professional
	appointments  []domain.Appointment
	transactions  []domain.Transaction
	payables      []domain.Payable
	partners      []domain.Partner
}

func NewMemory() *Memory {
	return &Memory{}
}

var _ domain.TxStore = (*Memory)(nil)

// upsert replaces the first element matching id in place, preserving
// insertion order, or appends when absent.
func upsert[T any](items []T, match func(T) bool, v T) []T {
	for i := range items {
		if match(items[i]) {
			items[i] = v
			return items
		}
	}
	return append(items, v)
}

func remove[T any](items []T, match func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func copySlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// =============================================================================
// CLIENTS
// =============================================================================

func (m *Memory) GetClient(_ context.Context, id domain.ClientID) (domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := find(m.clients, func(c domain.Client) bool { return c.ID == id })
	if !ok {
		return domain.Client{}, &domain.NotFoundError{Kind: "client", ID: string(id)}
	}
	return c, nil
}

func (m *Memory) PutClient(_ context.Context, c domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients = upsert(m.clients, func(e domain.Client) bool { return e.ID == c.ID }, c)
	return nil
}

func (m *Memory) ListClients(_ context.Context) ([]domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.clients), nil
}

func (m *Memory) DeleteClient(_ context.Context, id domain.ClientID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients = remove(m.clients, func(c domain.Client) bool { return c.ID == id })
	return nil
}

// =============================================================================
// SERVICES
// =============================================================================

func (m *Memory) GetService(_ context.Context, id domain.ServiceID) (domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := find(m.services, func(s domain.Service) bool { return s.ID == id })
	if !ok {
		return domain.Service{}, &domain.NotFoundError{Kind: "service", ID: string(id)}
	}
	return s, nil
}

func (m *Memory) PutService(_ context.Context, s domain.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = upsert(m.services, func(e domain.Service) bool { return e.ID == s.ID }, s)
	return nil
}

func (m *Memory) ListServices(_ context.Context) ([]domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.services), nil
}

func (m *Memory) DeleteService(_ context.Context, id domain.ServiceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = remove(m.services, func(s domain.Service) bool { return s.ID == id })
	return nil
}

// =============================================================================
// PRODUCTS
// =============================================================================

func (m *Memory) GetProduct(_ context.Context, id domain.ProductID) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := find(m.products, func(p domain.Product) bool { return p.ID == id })
	if !ok {
		return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: string(id)}
	}
	return p, nil
}

func (m *Memory) PutProduct(_ context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = upsert(m.products, func(e domain.Product) bool { return e.ID == p.ID }, p)
	return nil
}

func (m *Memory) ListProducts(_ context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.products), nil
}

func (m *Memory) DeleteProduct(_ context.Context, id domain.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = remove(m.products, func(p domain.Product) bool { return p.ID == id })
	return nil
}

// =============================================================================
// PROFESSIONALS
// =============================================================================

func (m *Memory) GetProfessional(_ context.Context, id domain.ProfessionalID) (domain.Professional, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := find(m.professionals, func(p domain.Professional) bool { return p.ID == id })
	if !ok {
		return domain.Professional{}, &domain.NotFoundError{Kind: "professional", ID: string(id)}
	}
	return p, nil
}

func (m *Memory) PutProfessional(_ context.Context, p domain.Professional) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.professionals = upsert(m.professionals, func(e domain.Professional) bool { return e.ID == p.ID }, p)
	return nil
}

func (m *Memory) ListProfessionals(_ context.Context) ([]domain.Professional, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.professionals), nil
}

func (m *Memory) DeleteProfessional(_ context.Context, id domain.ProfessionalID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.professionals = remove(m.professionals, func(p domain.Professional) bool { return p.ID == id })
	return nil
}

// =============================================================================
// APPOINTMENTS
// =============================================================================

func (m *Memory) GetAppointment(_ context.Context, id domain.AppointmentID) (domain.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := find(m.appointments, func(a domain.Appointment) bool { return a.ID == id })
	if !ok {
		return domain.Appointment{}, &domain.NotFoundError{Kind: "appointment", ID: string(id)}
	}
	return a, nil
}

func (m *Memory) PutAppointment(_ context.Context, a domain.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments = upsert(m.appointments, func(e domain.Appointment) bool { return e.ID == a.ID }, a)
	return nil
}

func (m *Memory) ListAppointments(_ context.Context) ([]domain.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.appointments), nil
}

func (m *Memory) DeleteAppointment(_ context.Context, id domain.AppointmentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments = remove(m.appointments, func(a domain.Appointment) bool { return a.ID == id })
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (m *Memory) AppendTransaction(_ context.Context, tx domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, tx)
	return nil
}

func (m *Memory) RemoveTransaction(_ context.Context, id domain.TransactionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = remove(m.transactions, func(t domain.Transaction) bool { return t.ID == id })
	return nil
}

func (m *Memory) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.transactions), nil
}

// =============================================================================
// PAYABLES
// =============================================================================

func (m *Memory) GetPayable(_ context.Context, id domain.PayableID) (domain.Payable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := find(m.payables, func(p domain.Payable) bool { return p.ID == id })
	if !ok {
		return domain.Payable{}, &domain.NotFoundError{Kind: "payable", ID: string(id)}
	}
	return p, nil
}

func (m *Memory) PutPayable(_ context.Context, p domain.Payable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payables = upsert(m.payables, func(e domain.Payable) bool { return e.ID == p.ID }, p)
	return nil
}

func (m *Memory) ListPayables(_ context.Context) ([]domain.Payable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.payables), nil
}

func (m *Memory) DeletePayable(_ context.Context, id domain.PayableID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payables = remove(m.payables, func(p domain.Payable) bool { return p.ID == id })
	return nil
}

// =============================================================================
// PARTNERS
// =============================================================================

func (m *Memory) ListPartners(_ context.Context) ([]domain.Partner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySlice(m.partners), nil
}

func (m *Memory) ReplacePartners(_ context.Context, partners []domain.Partner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partners = copySlice(partners)
	return nil
}

// =============================================================================
// TRANSACTIONS (WithTx)
// =============================================================================

// WithTx runs fn against a clone of the store. On success the clone's
// state replaces the live state; on error the clone is discarded, so
// partial writes never become visible. The store lock is held for the
// whole call: WithTx is the single-writer critical section.
func (m *Memory) WithTx(_ context.Context, fn func(domain.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := &Memory{
		clients:       copySlice(m.clients),
		services:      copySlice(m.services),
		products:      copySlice(m.products),
		professionals: copySlice(m.professionals),
		appointments:  copySlice(m.appointments),
		transactions:  copySlice(m.transactions),
		payables:      copySlice(m.payables),
		partners:      copySlice(m.partners),
	}

	if err := fn(clone); err != nil {
		return err
	}

	m.clients = clone.clients
	m.services = clone.services
	m.products = clone.products
	m.professionals = clone.professionals
	m.appointments = clone.appointments
	m.transactions = clone.transactions
	m.payables = clone.payables
	m.partners = clone.partners
	return nil
}
