/*
Package sqlite provides a SQLite-backed implementation of domain.TxStore.

PURPOSE:
  Persists every repository in one SQLite database. The memory store
  covers tests and demos; this store covers anything that should
  survive a restart. The same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

REPRESENTATION:
  - Money and percentages are stored as decimal strings, never floats
  - Dates are RFC 3339 text
  - Appointment service snapshots and product usage are JSON columns;
    they are read and written whole with the record, never queried into
  - Insertion order is the rowid order; upserts keep the original
    rowid, so ListX preserves it (the reporting tie-break contract)

CONCURRENCY:
  WithTx holds the store mutex for the whole transition, matching the
  memory store's single-writer semantics. Plain reads and writes go
  through database/sql directly.

WAL MODE:
  The database is opened with WAL (Write-Ahead Logging) for better
  concurrency: readers don't block, one writer at a time.

USAGE:
  st, err := sqlite.New("./studio.db")   // or ":memory:"
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - domain/store.go: the interfaces implemented here
  - store/memory.go: the in-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/atelier/studio-engine/domain"
)

// Store implements domain.TxStore over SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
	queries
}

// dbtx is the subset of *sql.DB and *sql.Tx the queries need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds every repository method; it runs against either the
// database or an open transaction.
type queries struct {
	db dbtx
}

// New opens (and migrates) a SQLite store at path. Use ":memory:" for
// an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: each pooled connection would otherwise see its own
	// ":memory:" database, and SQLite allows one writer anyway.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, queries: queries{db: db}}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		last_visit TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		duration INTEGER NOT NULL,
		cost TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		low_stock_threshold INTEGER NOT NULL,
		cost TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS professionals (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		client_name TEXT NOT NULL,
		services_json TEXT NOT NULL,
		date TEXT NOT NULL,
		duration INTEGER NOT NULL,
		cost TEXT NOT NULL,
		status TEXT NOT NULL,
		professional_id TEXT NOT NULL DEFAULT '',
		used_products_json TEXT NOT NULL DEFAULT '[]'
	);

	CREATE INDEX IF NOT EXISTS idx_appointments_status_date
		ON appointments(status, date);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		tx_type TEXT NOT NULL,
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payables (
		id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		due_date TEXT NOT NULL,
		is_paid INTEGER NOT NULL DEFAULT 0
	);

	-- The roster is replaced wholesale; position keeps its order.
	CREATE TABLE IF NOT EXISTS partners (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		percentage TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// WithTx runs fn inside one SQLite transaction. fn's error rolls the
// transaction back; nil commits it.
func (s *Store) WithTx(ctx context.Context, fn func(domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	view := &txView{queries{db: tx}}
	if err := fn(view); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// txView exposes the repositories against one open transaction.
type txView struct {
	queries
}

var (
	_ domain.TxStore = (*Store)(nil)
	_ domain.Store   = (*txView)(nil)
)

// =============================================================================
// ENCODING HELPERS
// =============================================================================

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func decodeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// =============================================================================
// CLIENTS
// =============================================================================

func (q queries) GetClient(ctx context.Context, id domain.ClientID) (domain.Client, error) {
	var c domain.Client
	var lastVisit string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, phone, last_visit FROM clients WHERE id = ?`, string(id)).
		Scan(&c.ID, &c.Name, &c.Phone, &lastVisit)
	if err == sql.ErrNoRows {
		return domain.Client{}, &domain.NotFoundError{Kind: "client", ID: string(id)}
	}
	if err != nil {
		return domain.Client{}, err
	}
	c.LastVisit = decodeTime(lastVisit)
	return c, nil
}

func (q queries) PutClient(ctx context.Context, c domain.Client) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, phone, last_visit) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, phone=excluded.phone, last_visit=excluded.last_visit`,
		string(c.ID), c.Name, c.Phone, encodeTime(c.LastVisit))
	return err
}

func (q queries) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, phone, last_visit FROM clients ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		var c domain.Client
		var lastVisit string
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &lastVisit); err != nil {
			return nil, err
		}
		c.LastVisit = decodeTime(lastVisit)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q queries) DeleteClient(ctx context.Context, id domain.ClientID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, string(id))
	return err
}

// =============================================================================
// SERVICES
// =============================================================================

func (q queries) GetService(ctx context.Context, id domain.ServiceID) (domain.Service, error) {
	var s domain.Service
	var cost string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, duration, cost FROM services WHERE id = ?`, string(id)).
		Scan(&s.ID, &s.Name, &s.Duration, &cost)
	if err == sql.ErrNoRows {
		return domain.Service{}, &domain.NotFoundError{Kind: "service", ID: string(id)}
	}
	if err != nil {
		return domain.Service{}, err
	}
	s.Cost = domain.MustParseMoney(cost)
	return s, nil
}

func (q queries) PutService(ctx context.Context, s domain.Service) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO services (id, name, duration, cost) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, duration=excluded.duration, cost=excluded.cost`,
		string(s.ID), s.Name, s.Duration, s.Cost.Value.String())
	return err
}

func (q queries) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, duration, cost FROM services ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		var s domain.Service
		var cost string
		if err := rows.Scan(&s.ID, &s.Name, &s.Duration, &cost); err != nil {
			return nil, err
		}
		s.Cost = domain.MustParseMoney(cost)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (q queries) DeleteService(ctx context.Context, id domain.ServiceID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, string(id))
	return err
}

// =============================================================================
// PRODUCTS
// =============================================================================

func (q queries) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	var p domain.Product
	var cost string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, quantity, low_stock_threshold, cost FROM products WHERE id = ?`,
		string(id)).
		Scan(&p.ID, &p.Name, &p.Quantity, &p.LowStockThreshold, &cost)
	if err == sql.ErrNoRows {
		return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: string(id)}
	}
	if err != nil {
		return domain.Product{}, err
	}
	p.Cost = domain.MustParseMoney(cost)
	return p, nil
}

func (q queries) PutProduct(ctx context.Context, p domain.Product) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO products (id, name, quantity, low_stock_threshold, cost)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, quantity=excluded.quantity,
			low_stock_threshold=excluded.low_stock_threshold, cost=excluded.cost`,
		string(p.ID), p.Name, p.Quantity, p.LowStockThreshold, p.Cost.Value.String())
	return err
}

func (q queries) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, quantity, low_stock_threshold, cost FROM products ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		var cost string
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.LowStockThreshold, &cost); err != nil {
			return nil, err
		}
		p.Cost = domain.MustParseMoney(cost)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q queries) DeleteProduct(ctx context.Context, id domain.ProductID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, string(id))
	return err
}

// =============================================================================
// PROFESSIONALS
// =============================================================================

func (q queries) GetProfessional(ctx context.Context, id domain.ProfessionalID) (domain.Professional, error) {
	var p domain.Professional
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name FROM professionals WHERE id = ?`, string(id)).
		Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return domain.Professional{}, &domain.NotFoundError{Kind: "professional", ID: string(id)}
	}
	if err != nil {
		return domain.Professional{}, err
	}
	return p, nil
}

func (q queries) PutProfessional(ctx context.Context, p domain.Professional) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO professionals (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name`,
		string(p.ID), p.Name)
	return err
}

func (q queries) ListProfessionals(ctx context.Context) ([]domain.Professional, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, name FROM professionals ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Professional
	for rows.Next() {
		var p domain.Professional
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q queries) DeleteProfessional(ctx context.Context, id domain.ProfessionalID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM professionals WHERE id = ?`, string(id))
	return err
}

// =============================================================================
// APPOINTMENTS
// =============================================================================

const appointmentColumns = `id, client_id, client_name, services_json, date,
	duration, cost, status, professional_id, used_products_json`

func scanAppointment(scan func(dest ...any) error) (domain.Appointment, error) {
	var a domain.Appointment
	var servicesJSON, date, cost, usedJSON string
	err := scan(&a.ID, &a.ClientID, &a.ClientName, &servicesJSON, &date,
		&a.Duration, &cost, &a.Status, &a.ProfessionalID, &usedJSON)
	if err != nil {
		return domain.Appointment{}, err
	}
	a.Date = decodeTime(date)
	a.Cost = domain.MustParseMoney(cost)
	if err := json.Unmarshal([]byte(servicesJSON), &a.Services); err != nil {
		return domain.Appointment{}, fmt.Errorf("decode services: %w", err)
	}
	if err := json.Unmarshal([]byte(usedJSON), &a.UsedProducts); err != nil {
		return domain.Appointment{}, fmt.Errorf("decode used products: %w", err)
	}
	return a, nil
}

func (q queries) GetAppointment(ctx context.Context, id domain.AppointmentID) (domain.Appointment, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, string(id))
	a, err := scanAppointment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Appointment{}, &domain.NotFoundError{Kind: "appointment", ID: string(id)}
	}
	if err != nil {
		return domain.Appointment{}, err
	}
	return a, nil
}

func (q queries) PutAppointment(ctx context.Context, a domain.Appointment) error {
	services := a.Services
	if services == nil {
		services = []domain.Service{}
	}
	used := a.UsedProducts
	if used == nil {
		used = []domain.ProductUsage{}
	}
	servicesJSON, err := encodeJSON(services)
	if err != nil {
		return fmt.Errorf("encode services: %w", err)
	}
	usedJSON, err := encodeJSON(used)
	if err != nil {
		return fmt.Errorf("encode used products: %w", err)
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO appointments (id, client_id, client_name, services_json, date,
			duration, cost, status, professional_id, used_products_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id=excluded.client_id, client_name=excluded.client_name,
			services_json=excluded.services_json, date=excluded.date,
			duration=excluded.duration, cost=excluded.cost, status=excluded.status,
			professional_id=excluded.professional_id,
			used_products_json=excluded.used_products_json`,
		string(a.ID), string(a.ClientID), a.ClientName, servicesJSON, encodeTime(a.Date),
		a.Duration, a.Cost.Value.String(), string(a.Status), string(a.ProfessionalID), usedJSON)
	return err
}

func (q queries) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (q queries) DeleteAppointment(ctx context.Context, id domain.AppointmentID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, string(id))
	return err
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (q queries) AppendTransaction(ctx context.Context, tx domain.Transaction) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO transactions (id, tx_type, description, amount, date)
		VALUES (?, ?, ?, ?, ?)`,
		string(tx.ID), string(tx.Type), tx.Description,
		tx.Amount.Value.String(), encodeTime(tx.Date))
	return err
}

func (q queries) RemoveTransaction(ctx context.Context, id domain.TransactionID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, string(id))
	return err
}

func (q queries) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, tx_type, description, amount, date FROM transactions ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var amount, date string
		if err := rows.Scan(&t.ID, &t.Type, &t.Description, &amount, &date); err != nil {
			return nil, err
		}
		t.Amount = domain.MustParseMoney(amount)
		t.Date = decodeTime(date)
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// PAYABLES
// =============================================================================

func (q queries) GetPayable(ctx context.Context, id domain.PayableID) (domain.Payable, error) {
	var p domain.Payable
	var amount, due string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, description, amount, due_date, is_paid FROM payables WHERE id = ?`,
		string(id)).
		Scan(&p.ID, &p.Description, &amount, &due, &p.IsPaid)
	if err == sql.ErrNoRows {
		return domain.Payable{}, &domain.NotFoundError{Kind: "payable", ID: string(id)}
	}
	if err != nil {
		return domain.Payable{}, err
	}
	p.Amount = domain.MustParseMoney(amount)
	p.DueDate = decodeTime(due)
	return p, nil
}

func (q queries) PutPayable(ctx context.Context, p domain.Payable) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO payables (id, description, amount, due_date, is_paid)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description=excluded.description, amount=excluded.amount,
			due_date=excluded.due_date, is_paid=excluded.is_paid`,
		string(p.ID), p.Description, p.Amount.Value.String(), encodeTime(p.DueDate), p.IsPaid)
	return err
}

func (q queries) ListPayables(ctx context.Context) ([]domain.Payable, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, description, amount, due_date, is_paid FROM payables ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payable
	for rows.Next() {
		var p domain.Payable
		var amount, due string
		if err := rows.Scan(&p.ID, &p.Description, &amount, &due, &p.IsPaid); err != nil {
			return nil, err
		}
		p.Amount = domain.MustParseMoney(amount)
		p.DueDate = decodeTime(due)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q queries) DeletePayable(ctx context.Context, id domain.PayableID) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM payables WHERE id = ?`, string(id))
	return err
}

// =============================================================================
// PARTNERS
// =============================================================================

func (q queries) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, percentage FROM partners ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Partner
	for rows.Next() {
		var p domain.Partner
		var pct string
		if err := rows.Scan(&p.ID, &p.Name, &pct); err != nil {
			return nil, err
		}
		p.Percentage = domain.MustParseMoney(pct).Value
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q queries) ReplacePartners(ctx context.Context, partners []domain.Partner) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM partners`); err != nil {
		return err
	}
	for i, p := range partners {
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO partners (position, id, name, percentage) VALUES (?, ?, ?, ?)`,
			i+1, string(p.ID), p.Name, p.Percentage.String())
		if err != nil {
			return err
		}
	}
	return nil
}
