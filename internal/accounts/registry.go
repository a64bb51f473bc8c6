package accounts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/hakimzulkifli/pegawai-backend/pkg/errors"
	"github.com/hakimzulkifli/pegawai-backend/pkg/metrics"
	"github.com/hakimzulkifli/pegawai-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

const minPasswordLength = 6

// RegisterRequest captures the registration payload.
type RegisterRequest struct {
	Nama            string `json:"nama" validate:"required"`
	Nokp            string `json:"nokp" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type collectionStore interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// Registry owns the account collection. It is the only writer: every
// mutation recomputes the full collection, persists it, and commits the
// in-memory state only after the save succeeds. Two instances sharing one
// store are last-write-wins at whole-collection granularity.
type Registry struct {
	mu       sync.Mutex
	accounts []Account

	store    collectionStore
	key      string
	verifier security.CredentialVerifier
	metrics  *metrics.RegistryMetrics
}

// RegistryParams bundles the dependencies required to build the registry.
type RegistryParams struct {
	Store    collectionStore
	Key      string
	Verifier security.CredentialVerifier
	Metrics  *metrics.RegistryMetrics
}

// NewRegistry constructs an account registry with the provided dependencies.
func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "store is required")
	}
	if strings.TrimSpace(params.Key) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "storage key is required")
	}
	if params.Verifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "credential verifier is required")
	}
	return &Registry{
		store:    params.Store,
		key:      params.Key,
		verifier: params.Verifier,
		metrics:  params.Metrics,
	}, nil
}

// Load hydrates the in-memory collection from the store. An absent or
// malformed document starts the registry empty.
func (r *Registry) Load(ctx context.Context) error {
	var stored []Account
	if _, err := r.store.Load(ctx, r.key, &stored); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = stored
	return nil
}

// Register validates the request, appends the new account, and persists the
// full collection. The account is committed only once the save succeeds.
func (r *Registry) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	nama := strings.TrimSpace(req.Nama)
	nokp := strings.TrimSpace(req.Nokp)
	if nama == "" || nokp == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "all fields are required")
	}
	if req.Password != req.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}
	if len(req.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}

	hash, err := r.verifier.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Exact, case-sensitive match: the nokp is the natural key.
	for i := range r.accounts {
		if r.accounts[i].Nokp == nokp {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "nokp already registered")
		}
	}

	account := Account{
		ID:        uuid.NewString(),
		Nama:      nama,
		Nokp:      nokp,
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}

	next := make([]Account, len(r.accounts), len(r.accounts)+1)
	copy(next, r.accounts)
	next = append(next, account)

	if err := r.store.Save(ctx, r.key, next); err != nil {
		r.metrics.IncPersistFailure("accounts", "register")
		return nil, err
	}

	r.accounts = next
	r.metrics.IncMutation("accounts", "register")
	return &account, nil
}

// Authenticate resolves the account for the given credentials. Unknown nokp
// and wrong password are indistinguishable to the caller.
func (r *Registry) Authenticate(ctx context.Context, nokp, password string) (*Account, error) {
	nokp = strings.TrimSpace(nokp)
	if nokp == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	account, ok := r.findByNokp(nokp)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := r.verifier.Verify(password, account.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return &account, nil
}

// All returns a copy of the committed account collection in insertion order.
func (r *Registry) All() []Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

func (r *Registry) findByNokp(nokp string) (Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.accounts {
		if r.accounts[i].Nokp == nokp {
			return r.accounts[i], true
		}
	}
	return Account{}, false
}
