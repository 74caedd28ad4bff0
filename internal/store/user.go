package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"portfolio/internal/models"
)

const userColumns = `id, username, password_hash, google_id, email, totp_secret, totp_enabled, created_at`

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.GoogleID, &u.Email,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt,
	)
	return u, err
}

func (s *UserStore) findBy(ctx context.Context, column string, value any) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user by %s: %w", ErrStorage, column, err)
	}
	return u, nil
}

// FindByID retrieves a user by id. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return s.findBy(ctx, "id", id)
}

// FindByGoogleID retrieves a user by Google subject id. Returns nil if not found.
func (s *UserStore) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.findBy(ctx, "google_id", googleID)
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findBy(ctx, "username", username)
}

// Create inserts a new user. The caller supplies an already hashed password.
func (s *UserStore) Create(ctx context.Context, n models.NewUser) (*models.User, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	rec := n.Record(0, time.Now().UTC())

	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, google_id, email)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		rec.Username, rec.PasswordHash, rec.GoogleID, rec.Email,
	))
	if err != nil {
		return nil, fmt.Errorf("%w: create user: %w", ErrStorage, err)
	}
	return u, nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(ctx context.Context, id int64, secret string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET totp_secret = $1 WHERE id = $2`, secret, id)
	if err != nil {
		return fmt.Errorf("%w: set totp secret: %w", ErrStorage, err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET totp_enabled = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: enable totp: %w", ErrStorage, err)
	}
	return nil
}

// SetPasswordHash replaces the stored password hash.
func (s *UserStore) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("%w: set password hash: %w", ErrStorage, err)
	}
	return nil
}

// Count returns the number of users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count users: %w", ErrStorage, err)
	}
	return n, nil
}

// MemoryUsers is the in-process Users backend.
type MemoryUsers struct {
	mu     sync.RWMutex
	users  map[int64]models.User
	lastID int64
}

// NewMemoryUsers creates an empty MemoryUsers.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[int64]models.User)}
}

func (m *MemoryUsers) find(pred func(models.User) bool) *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if pred(u) {
			return &u
		}
	}
	return nil
}

func (m *MemoryUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.ID == id }), nil
}

func (m *MemoryUsers) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID }), nil
}

func (m *MemoryUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == username }), nil
}

// Create enforces the same uniqueness rules as the users table.
func (m *MemoryUsers) Create(_ context.Context, n models.NewUser) (*models.User, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == n.Username || (n.GoogleID != "" && u.GoogleID != nil && *u.GoogleID == n.GoogleID) {
			return nil, fmt.Errorf("%w: create user: duplicate %q", ErrStorage, n.Username)
		}
	}

	m.lastID++
	u := n.Record(m.lastID, time.Now().UTC())
	m.users[u.ID] = u
	return &u, nil
}

func (m *MemoryUsers) update(id int64, fn func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	fn(&u)
	m.users[id] = u
	return nil
}

func (m *MemoryUsers) SetTOTPSecret(_ context.Context, id int64, secret string) error {
	return m.update(id, func(u *models.User) { u.TOTPSecret = &secret })
}

func (m *MemoryUsers) EnableTOTP(_ context.Context, id int64) error {
	return m.update(id, func(u *models.User) { u.TOTPEnabled = true })
}

func (m *MemoryUsers) SetPasswordHash(_ context.Context, id int64, hash string) error {
	return m.update(id, func(u *models.User) { u.PasswordHash = &hash })
}

func (m *MemoryUsers) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}
