package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gebeyahub/profile-engine/internal/models"
)

// PostgresStore persists devserver accounts and profiles in PostgreSQL.
// Profiles are stored as the same JSON document the read endpoint
// serves, so the store does not chase the schema.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a store on an open connection.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the devserver tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS dev_users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS dev_profiles (
			user_id UUID PRIMARY KEY REFERENCES dev_users (id),
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("devserver store: ensure schema: %w", err)
	}
	return nil
}

// CreateUser implements Store.
func (s *PostgresStore) CreateUser(ctx context.Context, user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := `
		INSERT INTO dev_users (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.Role); err != nil {
		return fmt.Errorf("devserver store: create user: %w", err)
	}
	return nil
}

// GetUserByEmail implements Store.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, email, password_hash, role FROM dev_users WHERE email = $1`
	if err := s.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("devserver store: get user by email: %w", err)
	}
	return &user, nil
}

// GetUserByID implements Store.
func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	query := `SELECT id, email, password_hash, role FROM dev_users WHERE id = $1`
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("devserver store: get user by id: %w", err)
	}
	return &user, nil
}

// UpdatePassword implements Store.
func (s *PostgresStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE dev_users SET password_hash = $2 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("devserver store: update password: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetProfile implements Store.
func (s *PostgresStore) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ProfileSnapshot, error) {
	var data []byte
	query := `SELECT data FROM dev_profiles WHERE user_id = $1`
	if err := s.db.GetContext(ctx, &data, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("devserver store: get profile: %w", err)
	}

	snap, err := models.DecodeProfile(data)
	if err != nil {
		return nil, fmt.Errorf("devserver store: %w", err)
	}
	return snap, nil
}

// SaveProfile implements Store.
func (s *PostgresStore) SaveProfile(ctx context.Context, userID uuid.UUID, snap *models.ProfileSnapshot) error {
	data, err := models.EncodeProfile(snap)
	if err != nil {
		return fmt.Errorf("devserver store: %w", err)
	}

	query := `
		INSERT INTO dev_profiles (user_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, userID, data); err != nil {
		return fmt.Errorf("devserver store: save profile: %w", err)
	}
	return nil
}
