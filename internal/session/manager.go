package session

import (
	"context"
	"strings"
	"sync"

	"github.com/hakimzulkifli/pegawai-backend/internal/accounts"
	pkgerrors "github.com/hakimzulkifli/pegawai-backend/pkg/errors"
)

type sessionStore interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

// Snapshot is the persisted session document: the signed-in account plus
// the token id minted for it. One snapshot exists at a time; a new login
// replaces the previous one and invalidates its outstanding tokens.
type Snapshot struct {
	Account accounts.Account `json:"account"`
	JTI     string           `json:"jti"`
}

// Manager owns the current session. All reads are served from memory; the
// store is touched only on start, end, and resume.
type Manager struct {
	mu      sync.Mutex
	current *Snapshot

	store sessionStore
	key   string
}

// NewManager constructs a session manager with the provided dependencies.
func NewManager(store sessionStore, key string) (*Manager, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "store is required")
	}
	if strings.TrimSpace(key) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "storage key is required")
	}
	return &Manager{store: store, key: key}, nil
}

// Resume restores the persisted session, if any. An absent or malformed
// document leaves the manager signed out.
func (m *Manager) Resume(ctx context.Context) error {
	var stored Snapshot
	found, err := m.store.Load(ctx, m.key, &stored)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !found || stored.JTI == "" {
		m.current = nil
		return nil
	}
	m.current = &stored
	return nil
}

// Start persists a session for the account under the given token id. The
// in-memory session flips only after the save succeeds.
func (m *Manager) Start(ctx context.Context, account accounts.Account, jti string) error {
	if strings.TrimSpace(jti) == "" {
		return pkgerrors.New(pkgerrors.CodeInternal, "token id is required")
	}

	snapshot := Snapshot{Account: account, JTI: jti}
	if err := m.store.Save(ctx, m.key, snapshot); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &snapshot
	return nil
}

// End removes the persisted session document and clears the in-memory
// state. Ending an already-ended session is a no-op.
func (m *Manager) End(ctx context.Context) error {
	if err := m.store.Remove(ctx, m.key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return nil
}

// Current returns the signed-in account, or nil when signed out.
func (m *Manager) Current() *accounts.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	account := m.current.Account
	return &account
}

// HasSession reports whether the given token id belongs to the live
// session. Tokens outlive their session only cryptographically; this check
// is what actually ends their authority.
func (m *Manager) HasSession(jti string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && m.current.JTI == jti
}
