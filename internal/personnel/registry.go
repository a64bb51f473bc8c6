package personnel

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/hakimzulkifli/pegawai-backend/pkg/errors"
	"github.com/hakimzulkifli/pegawai-backend/pkg/metrics"
)

type collectionStore interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

// Registry owns the personnel collection. Mutations recompute the full
// collection, persist it, and commit in memory only after the save
// succeeds; on failure the pre-operation state stays visible. Separate
// instances sharing one store overwrite each other last-write-wins.
type Registry struct {
	mu      sync.Mutex
	records []Record

	store   collectionStore
	key     string
	metrics *metrics.RegistryMetrics
}

// RegistryParams bundles the dependencies required to build the registry.
type RegistryParams struct {
	Store   collectionStore
	Key     string
	Metrics *metrics.RegistryMetrics
}

// NewRegistry constructs a personnel registry with the provided dependencies.
func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "store is required")
	}
	if strings.TrimSpace(params.Key) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "storage key is required")
	}
	return &Registry{
		store:   params.Store,
		key:     params.Key,
		metrics: params.Metrics,
	}, nil
}

// Load hydrates the in-memory collection from the store.
func (r *Registry) Load(ctx context.Context) error {
	var stored []Record
	if _, err := r.store.Load(ctx, r.key, &stored); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = stored
	return nil
}

// Add validates the fields, stamps identity and provenance, and persists
// the extended collection.
func (r *Registry) Add(ctx context.Context, fields Fields, actorNokp string) (*Record, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}
	if strings.TrimSpace(actorNokp) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "acting account is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record := Record{
		ID:        r.unusedID(),
		Nama:      fields.Nama,
		Nokp:      fields.Nokp,
		Jawatan:   fields.Jawatan,
		Jabatan:   fields.Jabatan,
		Email:     fields.Email,
		Notel:     fields.Notel,
		AddedBy:   actorNokp,
		CreatedAt: time.Now().UTC(),
	}

	next := make([]Record, len(r.records), len(r.records)+1)
	copy(next, r.records)
	next = append(next, record)

	if err := r.store.Save(ctx, r.key, next); err != nil {
		r.metrics.IncPersistFailure("personnel", "add")
		return nil, err
	}

	r.records = next
	r.metrics.IncMutation("personnel", "add")
	return &record, nil
}

// Update replaces the editable fields of the record with the given id.
// AddedBy and CreatedAt are preserved; UpdatedBy and UpdatedAt are stamped.
func (r *Registry) Update(ctx context.Context, id string, fields Fields, actorNokp string) (*Record, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}
	if strings.TrimSpace(actorNokp) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "acting account is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}

	now := time.Now().UTC()
	updated := r.records[idx]
	updated.Nama = fields.Nama
	updated.Nokp = fields.Nokp
	updated.Jawatan = fields.Jawatan
	updated.Jabatan = fields.Jabatan
	updated.Email = fields.Email
	updated.Notel = fields.Notel
	updated.UpdatedBy = actorNokp
	updated.UpdatedAt = &now

	next := make([]Record, len(r.records))
	copy(next, r.records)
	next[idx] = updated

	if err := r.store.Save(ctx, r.key, next); err != nil {
		r.metrics.IncPersistFailure("personnel", "update")
		return nil, err
	}

	r.records = next
	r.metrics.IncMutation("personnel", "update")
	return &updated, nil
}

// Remove hard-deletes the record with the given id and persists the
// shrunken collection. An unknown id leaves storage untouched.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}

	next := make([]Record, 0, len(r.records)-1)
	next = append(next, r.records[:idx]...)
	next = append(next, r.records[idx+1:]...)

	if err := r.store.Save(ctx, r.key, next); err != nil {
		r.metrics.IncPersistFailure("personnel", "remove")
		return err
	}

	r.records = next
	r.metrics.IncMutation("personnel", "remove")
	return nil
}

// All returns a copy of the committed collection in insertion order.
func (r *Registry) All() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Registry) indexOf(id string) int {
	for i := range r.records {
		if r.records[i].ID == id {
			return i
		}
	}
	return -1
}

// unusedID returns an id no existing record carries. Callers hold r.mu.
func (r *Registry) unusedID() string {
	for {
		id := uuid.NewString()
		if r.indexOf(id) < 0 {
			return id
		}
	}
}

func validateFields(fields Fields) error {
	missing := map[string]string{}
	for name, value := range map[string]string{
		"nama":    fields.Nama,
		"nokp":    fields.Nokp,
		"jawatan": fields.Jawatan,
		"jabatan": fields.Jabatan,
		"email":   fields.Email,
		"notel":   fields.Notel,
	} {
		if strings.TrimSpace(value) == "" {
			missing[name] = "is required"
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "all fields are required").WithDetails(missing)
	}
	return nil
}
