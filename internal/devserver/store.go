package devserver

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/gebeyahub/profile-engine/internal/models"
)

// ErrUserNotFound is returned when no user record matches.
var ErrUserNotFound = errors.New("user not found")

// ErrProfileNotFound is returned when a user has no stored profile.
var ErrProfileNotFound = errors.New("profile not found")

// User is a devserver account.
type User struct {
	ID           uuid.UUID   `db:"id"`
	Email        string      `db:"email"`
	PasswordHash string      `db:"password_hash"`
	Role         models.Role `db:"role"`
}

// Store persists devserver accounts and their profiles.
type Store interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.ProfileSnapshot, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, snap *models.ProfileSnapshot) error
}

// MemoryStore keeps everything in process memory. It backs the tests
// and the devserver when no DATABASE_URL is configured.
type MemoryStore struct {
	mu           sync.RWMutex
	usersByEmail map[string]*User
	usersByID    map[uuid.UUID]*User
	profiles     map[uuid.UUID]*models.ProfileSnapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usersByEmail: make(map[string]*User),
		usersByID:    make(map[uuid.UUID]*User),
		profiles:     make(map[uuid.UUID]*models.ProfileSnapshot),
	}
}

// CreateUser stores a new account, assigning an ID when missing.
func (m *MemoryStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

// GetUserByEmail implements Store.
func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, ErrUserNotFound
}

// GetUserByID implements Store.
func (m *MemoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, ErrUserNotFound
}

// UpdatePassword implements Store.
func (m *MemoryStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// GetProfile implements Store.
func (m *MemoryStore) GetProfile(ctx context.Context, userID uuid.UUID) (*models.ProfileSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if snap, ok := m.profiles[userID]; ok {
		return snap, nil
	}
	return nil, ErrProfileNotFound
}

// SaveProfile implements Store.
func (m *MemoryStore) SaveProfile(ctx context.Context, userID uuid.UUID, snap *models.ProfileSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = snap
	return nil
}
