/*
Package sqlite provides the SQLite-backed persistence layer for the
bookkeeping backend.

PURPOSE:
  Single Store struct owning all tables. The same patterns apply to
  PostgreSQL in production; only minor SQL dialect differences.

KEY TABLES:
  users:        Accounts with bcrypt password hashes and a role
  tax_profiles: One row per user; employment status + membership numbers
  documents:    Uploaded-document metadata (bytes live in the object store)
  messages:     Client/bookkeeper messages with read receipts

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's single-writer
  model. With PostgreSQL, database-level concurrency control replaces this.

WAL MODE:
  Opened with WAL so readers don't block behind the writer.

USAGE:
  store, err := sqlite.New("./data/bookkeeping.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" in tests.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/razellllll/bookkeeping-backend/duedate"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a row lookup matches nothing.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when registering an email that already
	// has an account.
	ErrDuplicateEmail = errors.New("email already registered")
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// User is an account row. Role is either "client" or "bookkeeper".
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
}

const (
	RoleClient     = "client"
	RoleBookkeeper = "bookkeeper"
)

// TaxProfileRecord is the stored tax profile for a user. MonthlyIncome feeds
// the contribution-schedule engine; the rest feeds the due-date engine.
type TaxProfileRecord struct {
	UserID           string
	EmploymentStatus string
	PhilHealthNumber string
	SSSNumber        string
	PagIBIGNumber    string
	MonthlyIncome    decimal.Decimal
	UpdatedAt        time.Time
}

// Snapshot converts the stored row into the due-date engine's input type.
func (r TaxProfileRecord) Snapshot() duedate.TaxProfile {
	return duedate.TaxProfile{
		EmploymentStatus: duedate.EmploymentStatus(r.EmploymentStatus),
		PhilHealthNumber: r.PhilHealthNumber,
		SSSNumber:        r.SSSNumber,
		PagIBIGNumber:    r.PagIBIGNumber,
	}
}

// Document is uploaded-document metadata. StorageKey locates the bytes in
// the object store.
type Document struct {
	ID          string
	OwnerID     string
	Filename    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	Category    string
	UploadedAt  time.Time
}

// Message is one client/bookkeeper message. ReadAt is nil until the
// recipient marks it read.
type Message struct {
	ID          string
	SenderID    string
	RecipientID string
	Body        string
	SentAt      time.Time
	ReadAt      *time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store implements all persistence for the backend on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store backed by the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'client',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tax_profiles (
		user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		employment_status TEXT NOT NULL DEFAULT '',
		philhealth_number TEXT NOT NULL DEFAULT '',
		sss_number TEXT NOT NULL DEFAULT '',
		pagibig_number TEXT NOT NULL DEFAULT '',
		monthly_income TEXT NOT NULL DEFAULT '0',
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		filename TEXT NOT NULL,
		content_type TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		storage_key TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		uploaded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_owner
		ON documents(owner_id, uploaded_at DESC);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL REFERENCES users(id),
		recipient_id TEXT NOT NULL REFERENCES users(id),
		body TEXT NOT NULL,
		sent_at TEXT NOT NULL,
		read_at TEXT
	);

	-- Conversation listing walks both directions of a user pair.
	CREATE INDEX IF NOT EXISTS idx_messages_sender
		ON messages(sender_id, sent_at);
	CREATE INDEX IF NOT EXISTS idx_messages_recipient
		ON messages(recipient_id, sent_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USERS
// =============================================================================

// CreateUser inserts a new account.
func (s *Store) CreateUser(ctx context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role,
		u.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser returns a user by id, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, created_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns a user by email (case-insensitive), or ErrNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, created_at
		FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListBookkeepers returns all bookkeeper accounts, for the client's
// "message your bookkeeper" picker.
func (s *Store) ListBookkeepers(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, password_hash, name, role, created_at
		FROM users WHERE role = ? ORDER BY name`, RoleBookkeeper)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookkeepers: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var createdAt string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

// =============================================================================
// TAX PROFILES
// =============================================================================

// UpsertTaxProfile writes the user's profile, replacing any existing row.
func (s *Store) UpsertTaxProfile(ctx context.Context, p TaxProfileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tax_profiles
			(user_id, employment_status, philhealth_number, sss_number,
			 pagibig_number, monthly_income, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			employment_status = excluded.employment_status,
			philhealth_number = excluded.philhealth_number,
			sss_number = excluded.sss_number,
			pagibig_number = excluded.pagibig_number,
			monthly_income = excluded.monthly_income,
			updated_at = excluded.updated_at`,
		p.UserID, p.EmploymentStatus, p.PhilHealthNumber, p.SSSNumber,
		p.PagIBIGNumber, p.MonthlyIncome.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tax profile: %w", err)
	}
	return nil
}

// GetTaxProfile returns the user's profile, or nil when none has been saved
// yet. Absence is not an error: a missing profile simply means no due dates.
func (s *Store) GetTaxProfile(ctx context.Context, userID string) (*TaxProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p TaxProfileRecord
	var income, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, employment_status, philhealth_number, sss_number,
		       pagibig_number, monthly_income, updated_at
		FROM tax_profiles WHERE user_id = ?`, userID).Scan(
		&p.UserID, &p.EmploymentStatus, &p.PhilHealthNumber, &p.SSSNumber,
		&p.PagIBIGNumber, &income, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tax profile: %w", err)
	}

	p.MonthlyIncome, err = decimal.NewFromString(income)
	if err != nil {
		p.MonthlyIncome = decimal.Zero
	}
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// SaveDocument inserts a document metadata row.
func (s *Store) SaveDocument(ctx context.Context, d Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents
			(id, owner_id, filename, content_type, size_bytes, storage_key,
			 category, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.OwnerID, d.Filename, d.ContentType, d.SizeBytes,
		d.StorageKey, d.Category, d.UploadedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// GetDocument returns a document by id, or ErrNotFound.
func (s *Store) GetDocument(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var d Document
	var uploadedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, filename, content_type, size_bytes, storage_key,
		       category, uploaded_at
		FROM documents WHERE id = ?`, id).Scan(
		&d.ID, &d.OwnerID, &d.Filename, &d.ContentType, &d.SizeBytes,
		&d.StorageKey, &d.Category, &uploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	d.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAt)
	return &d, nil
}

// ListDocumentsByOwner returns a user's documents, newest first.
func (s *Store) ListDocumentsByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, filename, content_type, size_bytes, storage_key,
		       category, uploaded_at
		FROM documents WHERE owner_id = ?
		ORDER BY uploaded_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var uploadedAt string
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Filename, &d.ContentType,
			&d.SizeBytes, &d.StorageKey, &d.Category, &uploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAt)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a metadata row. The object-store blob is the
// caller's responsibility.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// MESSAGES
// =============================================================================

// SaveMessage inserts a message.
func (s *Store) SaveMessage(ctx context.Context, m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, body, sent_at, read_at)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		m.ID, m.SenderID, m.RecipientID, m.Body,
		m.SentAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// GetMessage returns a message by id, or ErrNotFound.
func (s *Store) GetMessage(ctx context.Context, id string) (*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, sender_id, recipient_id, body, sent_at, read_at
		FROM messages WHERE id = ?`, id)
	return scanMessage(row)
}

// ListConversation returns all messages between two users in send order.
func (s *Store) ListConversation(ctx context.Context, userA, userB string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender_id, recipient_id, body, sent_at, read_at
		FROM messages
		WHERE (sender_id = ? AND recipient_id = ?)
		   OR (sender_id = ? AND recipient_id = ?)
		ORDER BY sent_at ASC`, userA, userB, userB, userA)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}

// MarkMessageRead stamps the read receipt. Only the recipient may mark a
// message read; marking twice keeps the original timestamp.
func (s *Store) MarkMessageRead(ctx context.Context, id, recipientID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET read_at = ?
		WHERE id = ? AND recipient_id = ? AND read_at IS NULL`,
		at.UTC().Format(time.RFC3339), id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows means missing, not addressed to this user, or already
		// read. Only the first two are errors.
		var readAt sql.NullString
		err := s.db.QueryRowContext(ctx, `
			SELECT read_at FROM messages WHERE id = ? AND recipient_id = ?`,
			id, recipientID).Scan(&readAt)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to mark message read: %w", err)
		}
	}
	return nil
}

func scanMessage(row rowScanner) (*Message, error) {
	var m Message
	var sentAt string
	var readAt sql.NullString
	err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &sentAt, &readAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	m.SentAt, _ = time.Parse(time.RFC3339, sentAt)
	if readAt.Valid {
		t, _ := time.Parse(time.RFC3339, readAt.String)
		m.ReadAt = &t
	}
	return &m, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
